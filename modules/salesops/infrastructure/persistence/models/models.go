package models

import "time"

type Stage struct {
	ID        string
	TenantID  string
	Name      string
	SortOrder int
	IsClosed  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Account struct {
	ID            string
	TenantID      string
	Name          string
	StageID       string
	OwnerID       *string
	AnnualRevenue float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

package models

import "time"

type Person struct {
	ID          string
	TenantID    string
	Pernr       string
	DisplayName string
	Email       string
	OfficeID    *string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Office struct {
	ID        string
	TenantID  string
	Name      string
	City      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Space struct {
	ID       string
	OfficeID string
	Name     string
	Capacity int
}

package models

import "time"

type Assignment struct {
	ID           string
	TenantID     string
	PersonID     string
	WbsElementID string
	StartDate    time.Time
	EndDate      time.Time
	Status       string
	ApprovedBy   *string
	Note         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Holiday struct {
	ID       string
	TenantID string
	Day      time.Time
	Name     string
}

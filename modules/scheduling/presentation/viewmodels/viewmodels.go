package viewmodels

import "time"

type Assignment struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenantId"`
	PersonID     string    `json:"personId"`
	WbsElementID string    `json:"wbsElementId"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Status       string    `json:"status"`
	ApprovedBy   *string   `json:"approvedBy,omitempty"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Holiday struct {
	ID   string `json:"id"`
	Day  string `json:"day"`
	Name string `json:"name"`
}

type WorkingDays struct {
	Year        int `json:"year,omitempty"`
	Month       int `json:"month,omitempty"`
	WorkingDays int `json:"workingDays"`
}

type WorkingHours struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	WorkingDays int     `json:"workingDays"`
	Hours       float64 `json:"hours"`
}

package viewmodels

import "time"

type Person struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenantId"`
	Pernr       string    `json:"pernr"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	OfficeID    *string   `json:"officeId,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Office struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	Code      string    `json:"code,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Space struct {
	ID       string `json:"id"`
	OfficeID string `json:"officeId"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

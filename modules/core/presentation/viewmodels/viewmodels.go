package viewmodels

import "time"

type Membership struct {
	ID       string   `json:"id"`
	TenantID string   `json:"tenantId"`
	Roles    []string `json:"roles"`
	IsActive bool     `json:"isActive"`
}

type User struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	ExternalID    string       `json:"externalId"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	IsActive      bool         `json:"isActive"`
	IsSystemAdmin bool         `json:"isSystemAdmin"`
	DeactivatedAt *time.Time   `json:"deactivatedAt,omitempty"`
	DeactivatedBy *string      `json:"deactivatedBy,omitempty"`
	Memberships   []Membership `json:"memberships"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

type Upload struct {
	ID        string    `json:"id"`
	Hash      string    `json:"hash"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Mimetype  string    `json:"mimetype"`
	CreatedAt time.Time `json:"createdAt"`
}

type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Paginated is the common list response shape.
type Paginated[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

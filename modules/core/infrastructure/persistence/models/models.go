package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID
	Email         string
	ExternalID    string
	FirstName     string
	LastName      string
	IsActive      bool
	IsSystemAdmin bool
	DeactivatedAt *time.Time
	DeactivatedBy *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type TenantMembership struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	TenantID uuid.UUID
	Roles    []string
	IsActive bool
}

type Tenant struct {
	ID        uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Upload struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Hash      string
	Path      string
	Name      string
	Size      int64
	Mimetype  string
	CreatedAt time.Time
}

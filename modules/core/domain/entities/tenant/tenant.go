package tenant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora/pkg/serrors"
)

var ErrNotFound = serrors.NewNotFound("TENANT_NOT_FOUND", "tenant not found")

type Tenant struct {
	id        uuid.UUID
	name      string
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

func New(name string) Tenant {
	return Tenant{
		name:     strings.TrimSpace(name),
		isActive: true,
	}
}

func Hydrate(id uuid.UUID, name string, isActive bool, createdAt, updatedAt time.Time) Tenant {
	return Tenant{
		id:        id,
		name:      strings.TrimSpace(name),
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (t Tenant) ID() uuid.UUID        { return t.id }
func (t Tenant) Name() string         { return t.name }
func (t Tenant) IsActive() bool       { return t.isActive }
func (t Tenant) CreatedAt() time.Time { return t.createdAt }
func (t Tenant) UpdatedAt() time.Time { return t.updatedAt }

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Tenant, error)
	GetAll(ctx context.Context) ([]Tenant, error)
	Create(ctx context.Context, t Tenant) (Tenant, error)
}

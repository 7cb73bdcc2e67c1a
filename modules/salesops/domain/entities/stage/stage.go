package stage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora/pkg/serrors"
)

var (
	ErrNotFound = serrors.NewNotFound("STAGE_NOT_FOUND", "stage not found")
	// Accounts keep a hard reference to their stage, so a referenced
	// stage cannot go away.
	ErrInUse = serrors.NewConflict("STAGE_IN_USE", "stage is still referenced by accounts")
)

// Stage is one step of a tenant's sales pipeline.
type Stage struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	SortOrder int
	IsClosed  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Stage, error)
	GetAll(ctx context.Context) ([]Stage, error)
	Create(ctx context.Context, s Stage) (Stage, error)
	Update(ctx context.Context, s Stage) (Stage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DTO struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
	IsClosed  bool   `json:"isClosed"`
}

func (d *DTO) Ok() (serrors.ValidationErrors, bool) {
	errs := make(serrors.ValidationErrors)
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = serrors.NewFieldRequiredError("name")
	}
	if len(errs) > 0 {
		return errs, false
	}
	return nil, true
}

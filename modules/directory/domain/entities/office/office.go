package office

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora/pkg/serrors"
)

var (
	ErrNotFound      = serrors.NewNotFound("OFFICE_NOT_FOUND", "office not found")
	ErrSpaceNotFound = serrors.NewNotFound("SPACE_NOT_FOUND", "space not found")
	// Deleting an office with spaces is a client mistake, not a state
	// conflict. Callers must remove the spaces first.
	ErrHasSpaces = serrors.NewValidation("OFFICE_HAS_SPACES", "office still owns spaces")
)

type Office struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	City      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Space is a bookable room or desk cluster inside an office.
type Space struct {
	ID       uuid.UUID
	OfficeID uuid.UUID
	Name     string
	Capacity int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Office, error)
	GetAll(ctx context.Context) ([]Office, error)
	Create(ctx context.Context, o Office) (Office, error)
	Update(ctx context.Context, o Office) (Office, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListSpaces(ctx context.Context, officeID uuid.UUID) ([]Space, error)
	CountSpaces(ctx context.Context, officeID uuid.UUID) (int64, error)
	CreateSpace(ctx context.Context, s Space) (Space, error)
	DeleteSpace(ctx context.Context, id uuid.UUID) error
}

type OfficeDTO struct {
	Name string `json:"name"`
	City string `json:"city"`
	Code string `json:"code"`
}

func (d *OfficeDTO) Ok() (serrors.ValidationErrors, bool) {
	errs := make(serrors.ValidationErrors)
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = serrors.NewFieldRequiredError("name")
	}
	if len(errs) > 0 {
		return errs, false
	}
	return nil, true
}

type SpaceDTO struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

func (d *SpaceDTO) Ok() (serrors.ValidationErrors, bool) {
	errs := make(serrors.ValidationErrors)
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = serrors.NewFieldRequiredError("name")
	}
	if d.Capacity < 0 {
		errs["capacity"] = serrors.NewValidation("FIELD_INVALID", "capacity must not be negative")
	}
	if len(errs) > 0 {
		return errs, false
	}
	return nil, true
}

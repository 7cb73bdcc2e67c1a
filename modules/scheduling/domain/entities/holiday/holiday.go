package holiday

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora/pkg/serrors"
)

var ErrNotFound = serrors.NewNotFound("HOLIDAY_NOT_FOUND", "holiday not found")

// Holiday is a non-working day in a tenant's calendar.
type Holiday struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Day      time.Time
	Name     string
}

type Repository interface {
	// ListRange returns the tenant's holidays with Day in [from, to].
	ListRange(ctx context.Context, from, to time.Time) ([]Holiday, error)
	Create(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

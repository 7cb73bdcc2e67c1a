package assignment

import (
	"context"

	"github.com/google/uuid"

	"github.com/planora/planora/pkg/serrors"
)

var (
	ErrNotFound = serrors.NewNotFound("ASSIGNMENT_NOT_FOUND", "assignment not found")
	ErrOverlap  = serrors.NewConflict(
		"ASSIGNMENT_OVERLAP",
		"person already has an active assignment in this date range",
	)
)

type FindParams struct {
	PersonID     uuid.UUID
	WbsElementID uuid.UUID
	Status       Status
	Limit        int
	Offset       int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Assignment, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Assignment, int64, error)
	Create(ctx context.Context, a Assignment) (Assignment, error)
	Update(ctx context.Context, a Assignment) (Assignment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// HasOverlap reports whether an Active assignment of the person
	// intersects the range, ignoring the assignment with excludeID.
	HasOverlap(ctx context.Context, personID uuid.UUID, r DateRange, excludeID uuid.UUID) (bool, error)
}

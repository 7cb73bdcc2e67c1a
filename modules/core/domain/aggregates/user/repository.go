package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/planora/planora/pkg/serrors"
)

var (
	ErrNotFound           = serrors.NewNotFound("USER_NOT_FOUND", "User not found")
	ErrEmailTaken         = serrors.NewConflict("USER_EMAIL_TAKEN", "email already registered")
	ErrExternalIDTaken    = serrors.NewConflict("USER_EXTERNAL_ID_TAKEN", "external identity already registered")
	ErrMembershipNotFound = serrors.NewNotFound("MEMBERSHIP_NOT_FOUND", "membership not found")
)

type FindParams struct {
	Q        string
	TenantID uuid.UUID
	Limit    int
	Offset   int
}

type Repository interface {
	// GetByID loads the user including all memberships.
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]User, int64, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) (User, error)

	AddMembership(ctx context.Context, m Membership) (Membership, error)
	SetMembershipActive(ctx context.Context, membershipID uuid.UUID, active bool) error
	// DeactivateMemberships disables every active membership of the user
	// and returns how many were affected.
	DeactivateMemberships(ctx context.Context, userID uuid.UUID) (int64, error)
}

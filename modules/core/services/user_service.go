package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora/modules/core/domain/aggregates/user"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/eventbus"
	"github.com/planora/planora/pkg/serrors"
)

// UserCreatedEvent is published whenever a user is provisioned.
type UserCreatedEvent struct {
	Result user.User
}

// UserUpdatedEvent is published whenever profile fields change.
type UserUpdatedEvent struct {
	Result user.User
}

// UserDeactivatedEvent is published after the deactivation cascade commits.
type UserDeactivatedEvent struct {
	UserID              uuid.UUID
	ByUserID            uuid.UUID
	MembershipsDisabled int64
}

// UserReactivatedEvent is published when a deactivated user is restored.
type UserReactivatedEvent struct {
	Result user.User
}

var ErrSystemAdminDeactivation = serrors.NewForbidden(
	"SYSTEM_ADMIN_DEACTIVATION",
	"system administrators cannot be deactivated",
)

// UserService manages user accounts and their tenant memberships.
type UserService struct {
	repo      user.Repository
	publisher eventbus.EventBus
}

func NewUserService(repo user.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{repo: repo, publisher: publisher}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) GetPaginated(
	ctx context.Context,
	params *user.FindParams,
) ([]user.User, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *UserService) Create(ctx context.Context, dto *user.CreateDTO) (user.User, error) {
	dto.Normalize()
	if errs, ok := dto.Ok(); !ok {
		return user.User{}, errs
	}
	var created user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, dto.ToEntity())
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	s.publisher.Publish(UserCreatedEvent{Result: created})
	return created, nil
}

func (s *UserService) Update(
	ctx context.Context,
	id uuid.UUID,
	dto *user.UpdateDTO,
) (user.User, error) {
	if errs, ok := dto.Ok(); !ok {
		return user.User{}, errs
	}
	var updated user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		updated, err = s.repo.Update(txCtx, existing.WithName(dto.FirstName, dto.LastName))
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	s.publisher.Publish(UserUpdatedEvent{Result: updated})
	return updated, nil
}

// Deactivate disables the account and every active membership within a
// single transaction, so a partially deactivated user is never observable.
// System administrators are protected from deactivation.
func (s *UserService) Deactivate(
	ctx context.Context,
	id uuid.UUID,
	byUserID uuid.UUID,
) (user.User, error) {
	var (
		deactivated user.User
		disabled    int64
		changed     bool
	)
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if existing.IsSystemAdmin() {
			return ErrSystemAdminDeactivation
		}
		if !existing.IsActive() {
			deactivated = existing
			return nil
		}
		deactivated, err = s.repo.Update(txCtx, existing.Deactivated(byUserID, time.Now().UTC()))
		if err != nil {
			return err
		}
		disabled, err = s.repo.DeactivateMemberships(txCtx, id)
		changed = err == nil
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	if !changed {
		return deactivated, nil
	}
	composables.UseLogger(ctx).WithFields(map[string]any{
		"userId":              id,
		"byUserId":            byUserID,
		"membershipsDisabled": disabled,
	}).Info("user deactivated")
	s.publisher.Publish(UserDeactivatedEvent{
		UserID:              id,
		ByUserID:            byUserID,
		MembershipsDisabled: disabled,
	})
	return deactivated, nil
}

// Reactivate restores the account itself. Memberships stay disabled and
// must be re-enabled individually.
func (s *UserService) Reactivate(ctx context.Context, id uuid.UUID) (user.User, error) {
	var restored user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if existing.IsActive() {
			restored = existing
			return nil
		}
		restored, err = s.repo.Update(txCtx, existing.Reactivated())
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	s.publisher.Publish(UserReactivatedEvent{Result: restored})
	return restored, nil
}

// AddMembership grants the user access to a tenant with the given roles.
func (s *UserService) AddMembership(
	ctx context.Context,
	userID, tenantID uuid.UUID,
	roles []user.Role,
) (user.Membership, error) {
	var created user.Membership
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetByID(txCtx, userID); err != nil {
			return err
		}
		var err error
		created, err = s.repo.AddMembership(txCtx, user.NewMembership(userID, tenantID, roles))
		return err
	})
	if err != nil {
		return user.Membership{}, err
	}
	return created, nil
}

func (s *UserService) SetMembershipActive(
	ctx context.Context,
	membershipID uuid.UUID,
	active bool,
) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.SetMembershipActive(txCtx, membershipID, active)
	})
}

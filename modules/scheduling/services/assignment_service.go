package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/planora/planora/modules/scheduling/domain/aggregates/assignment"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/eventbus"
)

// AssignmentCreatedEvent is published after a booking commits.
type AssignmentCreatedEvent struct {
	Result assignment.Assignment
}

// AssignmentUpdatedEvent is published after a booking changes.
type AssignmentUpdatedEvent struct {
	Result assignment.Assignment
}

// AssignmentApprovedEvent is published after an approval commits.
type AssignmentApprovedEvent struct {
	Result     assignment.Assignment
	ApprovedBy uuid.UUID
}

// AssignmentDeletedEvent is published after a booking is removed.
type AssignmentDeletedEvent struct {
	AssignmentID uuid.UUID
}

// AssignmentService books people onto WBS elements while keeping each
// person's Active assignments free of date overlaps.
type AssignmentService struct {
	repo      assignment.Repository
	publisher eventbus.EventBus
}

func NewAssignmentService(repo assignment.Repository, publisher eventbus.EventBus) *AssignmentService {
	return &AssignmentService{repo: repo, publisher: publisher}
}

func (s *AssignmentService) GetByID(ctx context.Context, id uuid.UUID) (assignment.Assignment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AssignmentService) GetPaginated(
	ctx context.Context,
	params *assignment.FindParams,
) ([]assignment.Assignment, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *AssignmentService) Create(ctx context.Context, dto *assignment.CreateDTO) (assignment.Assignment, error) {
	rng, status, errs, ok := dto.Ok()
	if !ok {
		return assignment.Assignment{}, errs
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return assignment.Assignment{}, err
	}

	var created assignment.Assignment
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if status == assignment.StatusActive {
			overlaps, err := s.repo.HasOverlap(txCtx, dto.PersonID, rng, uuid.Nil)
			if err != nil {
				return err
			}
			if overlaps {
				return assignment.ErrOverlap
			}
		}
		var err error
		created, err = s.repo.Create(
			txCtx,
			assignment.New(tenantID, dto.PersonID, dto.WbsElementID, rng, status, dto.Note),
		)
		return err
	})
	if err != nil {
		return assignment.Assignment{}, err
	}
	s.publisher.Publish(AssignmentCreatedEvent{Result: created})
	return created, nil
}

func (s *AssignmentService) Update(
	ctx context.Context,
	id uuid.UUID,
	dto *assignment.UpdateDTO,
) (assignment.Assignment, error) {
	rng, status, errs, ok := dto.Ok()
	if !ok {
		return assignment.Assignment{}, errs
	}

	var updated assignment.Assignment
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if status == assignment.StatusActive {
			overlaps, err := s.repo.HasOverlap(txCtx, dto.PersonID, rng, id)
			if err != nil {
				return err
			}
			if overlaps {
				return assignment.ErrOverlap
			}
		}
		updated, err = s.repo.Update(
			txCtx,
			existing.WithChanges(dto.PersonID, dto.WbsElementID, rng, status, dto.Note),
		)
		return err
	})
	if err != nil {
		return assignment.Assignment{}, err
	}
	s.publisher.Publish(AssignmentUpdatedEvent{Result: updated})
	return updated, nil
}

// Approve moves a pending assignment to Active. The overlap check runs
// again at approval time because other bookings may have become Active
// since the assignment was created.
func (s *AssignmentService) Approve(ctx context.Context, id, approvedBy uuid.UUID) (assignment.Assignment, error) {
	var approved assignment.Assignment
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		overlaps, err := s.repo.HasOverlap(txCtx, existing.PersonID(), existing.DateRange(), id)
		if err != nil {
			return err
		}
		if overlaps {
			return assignment.ErrOverlap
		}
		approved, err = s.repo.Update(txCtx, existing.Approved(approvedBy))
		return err
	})
	if err != nil {
		return assignment.Assignment{}, err
	}
	composables.UseLogger(ctx).WithFields(map[string]any{
		"assignmentId": approved.ID(),
		"approvedBy":   approvedBy,
	}).Info("assignment approved")
	s.publisher.Publish(AssignmentApprovedEvent{Result: approved, ApprovedBy: approvedBy})
	return approved, nil
}

func (s *AssignmentService) Delete(ctx context.Context, id uuid.UUID) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(AssignmentDeletedEvent{AssignmentID: id})
	return nil
}

package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/planora/planora/modules/directory/domain/entities/person"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/eventbus"
)

// PersonCreatedEvent is published after a person is added.
type PersonCreatedEvent struct {
	Result person.Person
}

// PersonUpdatedEvent is published after profile fields change.
type PersonUpdatedEvent struct {
	Result person.Person
}

// PersonDeletedEvent is published after a person is removed.
type PersonDeletedEvent struct {
	PersonID uuid.UUID
}

type PersonService struct {
	repo      person.Repository
	publisher eventbus.EventBus
}

func NewPersonService(repo person.Repository, publisher eventbus.EventBus) *PersonService {
	return &PersonService{repo: repo, publisher: publisher}
}

func (s *PersonService) GetByID(ctx context.Context, id uuid.UUID) (person.Person, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PersonService) GetPaginated(
	ctx context.Context,
	params *person.FindParams,
) ([]person.Person, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *PersonService) Create(ctx context.Context, dto *person.CreateDTO) (person.Person, error) {
	status, errs, ok := dto.Ok()
	if !ok {
		return person.Person{}, errs
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return person.Person{}, err
	}

	var created person.Person
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, person.Person{
			TenantID:    tenantID,
			Pernr:       strings.TrimSpace(dto.Pernr),
			DisplayName: strings.TrimSpace(dto.DisplayName),
			Email:       strings.ToLower(strings.TrimSpace(dto.Email)),
			OfficeID:    dto.OfficeID,
			Status:      status,
		})
		return err
	})
	if err != nil {
		return person.Person{}, err
	}
	s.publisher.Publish(PersonCreatedEvent{Result: created})
	return created, nil
}

func (s *PersonService) Update(ctx context.Context, id uuid.UUID, dto *person.UpdateDTO) (person.Person, error) {
	status, errs, ok := dto.Ok()
	if !ok {
		return person.Person{}, errs
	}

	var updated person.Person
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		existing.Pernr = strings.TrimSpace(dto.Pernr)
		existing.DisplayName = strings.TrimSpace(dto.DisplayName)
		existing.Email = strings.ToLower(strings.TrimSpace(dto.Email))
		existing.OfficeID = dto.OfficeID
		existing.Status = status
		updated, err = s.repo.Update(txCtx, existing)
		return err
	})
	if err != nil {
		return person.Person{}, err
	}
	s.publisher.Publish(PersonUpdatedEvent{Result: updated})
	return updated, nil
}

func (s *PersonService) Delete(ctx context.Context, id uuid.UUID) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(PersonDeletedEvent{PersonID: id})
	return nil
}

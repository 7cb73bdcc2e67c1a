package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/planora/planora/modules/directory/domain/entities/office"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/eventbus"
)

// OfficeDeletedEvent is published after an office is removed.
type OfficeDeletedEvent struct {
	OfficeID uuid.UUID
}

type OfficeService struct {
	repo      office.Repository
	publisher eventbus.EventBus
}

func NewOfficeService(repo office.Repository, publisher eventbus.EventBus) *OfficeService {
	return &OfficeService{repo: repo, publisher: publisher}
}

func (s *OfficeService) GetByID(ctx context.Context, id uuid.UUID) (office.Office, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OfficeService) GetAll(ctx context.Context) ([]office.Office, error) {
	return s.repo.GetAll(ctx)
}

func (s *OfficeService) Create(ctx context.Context, dto *office.OfficeDTO) (office.Office, error) {
	if errs, ok := dto.Ok(); !ok {
		return office.Office{}, errs
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return office.Office{}, err
	}

	var created office.Office
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, office.Office{
			TenantID: tenantID,
			Name:     strings.TrimSpace(dto.Name),
			City:     strings.TrimSpace(dto.City),
			Code:     strings.TrimSpace(dto.Code),
		})
		return err
	})
	return created, err
}

func (s *OfficeService) Update(ctx context.Context, id uuid.UUID, dto *office.OfficeDTO) (office.Office, error) {
	if errs, ok := dto.Ok(); !ok {
		return office.Office{}, errs
	}

	var updated office.Office
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		existing.Name = strings.TrimSpace(dto.Name)
		existing.City = strings.TrimSpace(dto.City)
		existing.Code = strings.TrimSpace(dto.Code)
		updated, err = s.repo.Update(txCtx, existing)
		return err
	})
	return updated, err
}

// Delete removes an office. Offices still owning spaces are kept; the
// spaces must be deleted first.
func (s *OfficeService) Delete(ctx context.Context, id uuid.UUID) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetByID(txCtx, id); err != nil {
			return err
		}
		count, err := s.repo.CountSpaces(txCtx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return office.ErrHasSpaces
		}
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(OfficeDeletedEvent{OfficeID: id})
	return nil
}

func (s *OfficeService) ListSpaces(ctx context.Context, officeID uuid.UUID) ([]office.Space, error) {
	return s.repo.ListSpaces(ctx, officeID)
}

func (s *OfficeService) AddSpace(ctx context.Context, officeID uuid.UUID, dto *office.SpaceDTO) (office.Space, error) {
	if errs, ok := dto.Ok(); !ok {
		return office.Space{}, errs
	}

	var created office.Space
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetByID(txCtx, officeID); err != nil {
			return err
		}
		var err error
		created, err = s.repo.CreateSpace(txCtx, office.Space{
			OfficeID: officeID,
			Name:     strings.TrimSpace(dto.Name),
			Capacity: dto.Capacity,
		})
		return err
	})
	return created, err
}

func (s *OfficeService) RemoveSpace(ctx context.Context, id uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteSpace(txCtx, id)
	})
}

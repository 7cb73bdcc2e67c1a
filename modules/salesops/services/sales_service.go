package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/planora/planora/modules/salesops/domain/entities/account"
	"github.com/planora/planora/modules/salesops/domain/entities/stage"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/eventbus"
)

// AccountStageChangedEvent is published when an account moves to a
// different pipeline stage.
type AccountStageChangedEvent struct {
	AccountID   uuid.UUID
	FromStageID uuid.UUID
	ToStageID   uuid.UUID
}

// SalesService manages the sales pipeline of a tenant: accounts and the
// stages they move through.
type SalesService struct {
	accounts  account.Repository
	stages    stage.Repository
	publisher eventbus.EventBus
}

func NewSalesService(
	accounts account.Repository,
	stages stage.Repository,
	publisher eventbus.EventBus,
) *SalesService {
	return &SalesService{accounts: accounts, stages: stages, publisher: publisher}
}

func (s *SalesService) GetAccount(ctx context.Context, id uuid.UUID) (account.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *SalesService) GetAccounts(
	ctx context.Context,
	params *account.FindParams,
) ([]account.Account, int64, error) {
	return s.accounts.GetPaginated(ctx, params)
}

func (s *SalesService) CreateAccount(ctx context.Context, dto *account.DTO) (account.Account, error) {
	if errs, ok := dto.Ok(); !ok {
		return account.Account{}, errs
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return account.Account{}, err
	}

	var created account.Account
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.stages.GetByID(txCtx, dto.StageID); err != nil {
			return err
		}
		var err error
		created, err = s.accounts.Create(txCtx, account.Account{
			TenantID:      tenantID,
			Name:          strings.TrimSpace(dto.Name),
			StageID:       dto.StageID,
			OwnerID:       dto.OwnerID,
			AnnualRevenue: dto.AnnualRevenue,
		})
		return err
	})
	return created, err
}

func (s *SalesService) UpdateAccount(ctx context.Context, id uuid.UUID, dto *account.DTO) (account.Account, error) {
	if errs, ok := dto.Ok(); !ok {
		return account.Account{}, errs
	}

	var updated account.Account
	var fromStageID uuid.UUID
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.accounts.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if existing.StageID != dto.StageID {
			if _, err := s.stages.GetByID(txCtx, dto.StageID); err != nil {
				return err
			}
			fromStageID = existing.StageID
		}
		existing.Name = strings.TrimSpace(dto.Name)
		existing.StageID = dto.StageID
		existing.OwnerID = dto.OwnerID
		existing.AnnualRevenue = dto.AnnualRevenue
		updated, err = s.accounts.Update(txCtx, existing)
		return err
	})
	if err != nil {
		return account.Account{}, err
	}
	if fromStageID != uuid.Nil {
		s.publisher.Publish(AccountStageChangedEvent{
			AccountID:   updated.ID,
			FromStageID: fromStageID,
			ToStageID:   updated.StageID,
		})
	}
	return updated, nil
}

func (s *SalesService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.accounts.Delete(txCtx, id)
	})
}

func (s *SalesService) GetStage(ctx context.Context, id uuid.UUID) (stage.Stage, error) {
	return s.stages.GetByID(ctx, id)
}

func (s *SalesService) GetStages(ctx context.Context) ([]stage.Stage, error) {
	return s.stages.GetAll(ctx)
}

func (s *SalesService) CreateStage(ctx context.Context, dto *stage.DTO) (stage.Stage, error) {
	if errs, ok := dto.Ok(); !ok {
		return stage.Stage{}, errs
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return stage.Stage{}, err
	}

	var created stage.Stage
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.stages.Create(txCtx, stage.Stage{
			TenantID:  tenantID,
			Name:      strings.TrimSpace(dto.Name),
			SortOrder: dto.SortOrder,
			IsClosed:  dto.IsClosed,
		})
		return err
	})
	return created, err
}

func (s *SalesService) UpdateStage(ctx context.Context, id uuid.UUID, dto *stage.DTO) (stage.Stage, error) {
	if errs, ok := dto.Ok(); !ok {
		return stage.Stage{}, errs
	}

	var updated stage.Stage
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.stages.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		existing.Name = strings.TrimSpace(dto.Name)
		existing.SortOrder = dto.SortOrder
		existing.IsClosed = dto.IsClosed
		updated, err = s.stages.Update(txCtx, existing)
		return err
	})
	return updated, err
}

// DeleteStage removes a pipeline stage. Stages still holding accounts
// are kept; the accounts must be moved first.
func (s *SalesService) DeleteStage(ctx context.Context, id uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.stages.GetByID(txCtx, id); err != nil {
			return err
		}
		count, err := s.accounts.CountByStage(txCtx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return stage.ErrInUse
		}
		return s.stages.Delete(txCtx, id)
	})
}

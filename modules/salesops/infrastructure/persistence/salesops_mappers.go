package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/planora/planora/modules/salesops/domain/entities/account"
	"github.com/planora/planora/modules/salesops/domain/entities/stage"
	"github.com/planora/planora/modules/salesops/infrastructure/persistence/models"
)

func toDomainStage(row *models.Stage) (stage.Stage, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return stage.Stage{}, errors.Wrap(err, "parse stage id")
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return stage.Stage{}, errors.Wrap(err, "parse tenant id")
	}
	return stage.Stage{
		ID:        id,
		TenantID:  tenantID,
		Name:      row.Name,
		SortOrder: row.SortOrder,
		IsClosed:  row.IsClosed,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func toDomainAccount(row *models.Account) (account.Account, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return account.Account{}, errors.Wrap(err, "parse account id")
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return account.Account{}, errors.Wrap(err, "parse tenant id")
	}
	stageID, err := uuid.Parse(row.StageID)
	if err != nil {
		return account.Account{}, errors.Wrap(err, "parse stage id")
	}
	var ownerID *uuid.UUID
	if row.OwnerID != nil {
		parsed, err := uuid.Parse(*row.OwnerID)
		if err != nil {
			return account.Account{}, errors.Wrap(err, "parse owner id")
		}
		ownerID = &parsed
	}
	return account.Account{
		ID:            id,
		TenantID:      tenantID,
		Name:          row.Name,
		StageID:       stageID,
		OwnerID:       ownerID,
		AnnualRevenue: row.AnnualRevenue,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

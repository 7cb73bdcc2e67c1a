package mappers

import (
	"github.com/planora/planora/modules/salesops/domain/entities/account"
	"github.com/planora/planora/modules/salesops/domain/entities/stage"
	"github.com/planora/planora/modules/salesops/presentation/viewmodels"
)

func AccountToViewModel(a account.Account) viewmodels.Account {
	var ownerID *string
	if a.OwnerID != nil {
		s := a.OwnerID.String()
		ownerID = &s
	}
	return viewmodels.Account{
		ID:            a.ID.String(),
		TenantID:      a.TenantID.String(),
		Name:          a.Name,
		StageID:       a.StageID.String(),
		OwnerID:       ownerID,
		AnnualRevenue: a.AnnualRevenue,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func StageToViewModel(s stage.Stage) viewmodels.Stage {
	return viewmodels.Stage{
		ID:        s.ID.String(),
		TenantID:  s.TenantID.String(),
		Name:      s.Name,
		SortOrder: s.SortOrder,
		IsClosed:  s.IsClosed,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

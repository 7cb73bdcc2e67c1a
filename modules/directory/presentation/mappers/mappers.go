package mappers

import (
	"github.com/planora/planora/modules/directory/domain/entities/office"
	"github.com/planora/planora/modules/directory/domain/entities/person"
	"github.com/planora/planora/modules/directory/presentation/viewmodels"
)

func PersonToViewModel(p person.Person) viewmodels.Person {
	var officeID *string
	if p.OfficeID != nil {
		s := p.OfficeID.String()
		officeID = &s
	}
	return viewmodels.Person{
		ID:          p.ID.String(),
		TenantID:    p.TenantID.String(),
		Pernr:       p.Pernr,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		OfficeID:    officeID,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func OfficeToViewModel(o office.Office) viewmodels.Office {
	return viewmodels.Office{
		ID:        o.ID.String(),
		TenantID:  o.TenantID.String(),
		Name:      o.Name,
		City:      o.City,
		Code:      o.Code,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func SpaceToViewModel(s office.Space) viewmodels.Space {
	return viewmodels.Space{
		ID:       s.ID.String(),
		OfficeID: s.OfficeID.String(),
		Name:     s.Name,
		Capacity: s.Capacity,
	}
}

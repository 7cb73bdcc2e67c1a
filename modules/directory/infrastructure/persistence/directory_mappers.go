package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/planora/planora/modules/directory/domain/entities/office"
	"github.com/planora/planora/modules/directory/domain/entities/person"
	"github.com/planora/planora/modules/directory/infrastructure/persistence/models"
)

func toDomainPerson(row *models.Person) (person.Person, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return person.Person{}, errors.Wrap(err, "parse person id")
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return person.Person{}, errors.Wrap(err, "parse tenant id")
	}
	var officeID *uuid.UUID
	if row.OfficeID != nil {
		parsed, err := uuid.Parse(*row.OfficeID)
		if err != nil {
			return person.Person{}, errors.Wrap(err, "parse office id")
		}
		officeID = &parsed
	}
	status, ok := person.ParseStatus(row.Status)
	if !ok {
		return person.Person{}, errors.Errorf("unknown person status %q", row.Status)
	}
	return person.Person{
		ID:          id,
		TenantID:    tenantID,
		Pernr:       row.Pernr,
		DisplayName: row.DisplayName,
		Email:       row.Email,
		OfficeID:    officeID,
		Status:      status,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func toDomainOffice(row *models.Office) (office.Office, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return office.Office{}, errors.Wrap(err, "parse office id")
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return office.Office{}, errors.Wrap(err, "parse tenant id")
	}
	return office.Office{
		ID:        id,
		TenantID:  tenantID,
		Name:      row.Name,
		City:      row.City,
		Code:      row.Code,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func toDomainSpace(row *models.Space) (office.Space, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return office.Space{}, errors.Wrap(err, "parse space id")
	}
	officeID, err := uuid.Parse(row.OfficeID)
	if err != nil {
		return office.Space{}, errors.Wrap(err, "parse office id")
	}
	return office.Space{
		ID:       id,
		OfficeID: officeID,
		Name:     row.Name,
		Capacity: row.Capacity,
	}, nil
}

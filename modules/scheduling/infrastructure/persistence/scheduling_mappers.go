package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/planora/planora/modules/scheduling/domain/aggregates/assignment"
	"github.com/planora/planora/modules/scheduling/domain/entities/holiday"
	"github.com/planora/planora/modules/scheduling/infrastructure/persistence/models"
)

func toDomainAssignment(row *models.Assignment) (assignment.Assignment, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "parse assignment id")
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "parse tenant id")
	}
	personID, err := uuid.Parse(row.PersonID)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "parse person id")
	}
	wbsElementID, err := uuid.Parse(row.WbsElementID)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "parse wbs element id")
	}

	var approvedBy *uuid.UUID
	if row.ApprovedBy != nil {
		parsed, err := uuid.Parse(*row.ApprovedBy)
		if err != nil {
			return assignment.Assignment{}, errors.Wrap(err, "parse approver id")
		}
		approvedBy = &parsed
	}

	status, ok := assignment.ParseStatus(row.Status)
	if !ok {
		return assignment.Assignment{}, errors.Errorf("unknown assignment status %q", row.Status)
	}

	rng, err := assignment.NewDateRange(row.StartDate, row.EndDate)
	if err != nil {
		return assignment.Assignment{}, err
	}

	return assignment.Hydrate(
		id, tenantID, personID, wbsElementID,
		rng, status, approvedBy, row.Note,
		row.CreatedAt, row.UpdatedAt,
	), nil
}

func toDomainHoliday(row *models.Holiday) (holiday.Holiday, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return holiday.Holiday{}, errors.Wrap(err, "parse holiday id")
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return holiday.Holiday{}, errors.Wrap(err, "parse tenant id")
	}
	return holiday.Holiday{
		ID:       id,
		TenantID: tenantID,
		Day:      row.Day,
		Name:     row.Name,
	}, nil
}

package mappers

import (
	"time"

	"github.com/planora/planora/modules/scheduling/domain/aggregates/assignment"
	"github.com/planora/planora/modules/scheduling/domain/entities/holiday"
	"github.com/planora/planora/modules/scheduling/presentation/viewmodels"
)

func AssignmentToViewModel(a assignment.Assignment) viewmodels.Assignment {
	var approvedBy *string
	if by := a.ApprovedBy(); by != nil {
		s := by.String()
		approvedBy = &s
	}
	return viewmodels.Assignment{
		ID:           a.ID().String(),
		TenantID:     a.TenantID().String(),
		PersonID:     a.PersonID().String(),
		WbsElementID: a.WbsElementID().String(),
		StartDate:    a.DateRange().Start.Format(time.DateOnly),
		EndDate:      a.DateRange().End.Format(time.DateOnly),
		Status:       string(a.Status()),
		ApprovedBy:   approvedBy,
		Note:         a.Note(),
		CreatedAt:    a.CreatedAt(),
		UpdatedAt:    a.UpdatedAt(),
	}
}

func HolidayToViewModel(h holiday.Holiday) viewmodels.Holiday {
	return viewmodels.Holiday{
		ID:   h.ID.String(),
		Day:  h.Day.Format(time.DateOnly),
		Name: h.Name,
	}
}

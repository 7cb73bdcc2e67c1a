package assignment

import (
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora/pkg/serrors"
)

type CreateDTO struct {
	PersonID     uuid.UUID `json:"personId"`
	WbsElementID uuid.UUID `json:"wbsElementId"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Status       string    `json:"status"`
	Note         string    `json:"note"`
}

type UpdateDTO struct {
	PersonID     uuid.UUID `json:"personId"`
	WbsElementID uuid.UUID `json:"wbsElementId"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Status       string    `json:"status"`
	Note         string    `json:"note"`
}

// Ok validates the DTO and resolves its parsed fields.
func (d *CreateDTO) Ok() (DateRange, Status, serrors.ValidationErrors, bool) {
	return validateAssignmentFields(d.PersonID, d.WbsElementID, d.StartDate, d.EndDate, d.Status)
}

func (d *UpdateDTO) Ok() (DateRange, Status, serrors.ValidationErrors, bool) {
	return validateAssignmentFields(d.PersonID, d.WbsElementID, d.StartDate, d.EndDate, d.Status)
}

func validateAssignmentFields(
	personID, wbsElementID uuid.UUID,
	startDate, endDate, status string,
) (DateRange, Status, serrors.ValidationErrors, bool) {
	errs := make(serrors.ValidationErrors)

	if personID == uuid.Nil {
		errs["personId"] = serrors.NewFieldRequiredError("personId")
	}
	if wbsElementID == uuid.Nil {
		errs["wbsElementId"] = serrors.NewFieldRequiredError("wbsElementId")
	}

	var rng DateRange
	start, startErr := parseDay(startDate)
	if startErr != nil {
		errs["startDate"] = serrors.NewValidation("FIELD_INVALID_DATE", "startDate must be a date in YYYY-MM-DD form")
	}
	end, endErr := parseDay(endDate)
	if endErr != nil {
		errs["endDate"] = serrors.NewValidation("FIELD_INVALID_DATE", "endDate must be a date in YYYY-MM-DD form")
	}
	if startErr == nil && endErr == nil {
		parsed, err := NewDateRange(start, end)
		if err != nil {
			errs["endDate"] = serrors.NewValidation("RANGE_INVERTED", "end date must not be before start date")
		} else {
			rng = parsed
		}
	}

	parsedStatus := StatusPending
	if status != "" {
		s, ok := ParseStatus(status)
		if !ok {
			errs["status"] = serrors.NewValidation("STATUS_UNKNOWN", "status must be Active, Pending or Completed")
		} else {
			parsedStatus = s
		}
	}

	if len(errs) > 0 {
		return DateRange{}, "", errs, false
	}
	return rng, parsedStatus, nil, true
}

func parseDay(v string) (time.Time, error) {
	return time.Parse(time.DateOnly, v)
}

package person

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora/pkg/serrors"
)

var (
	ErrNotFound   = serrors.NewNotFound("PERSON_NOT_FOUND", "person not found")
	ErrPernrTaken = serrors.NewConflict("PERSON_PERNR_TAKEN", "personnel number already in use in this tenant")
)

// Status mirrors the person's employment state. Inactive people stay
// listed but should not receive new assignments.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

func ParseStatus(v string) (Status, bool) {
	switch Status(v) {
	case StatusActive, StatusInactive:
		return Status(v), true
	}
	return "", false
}

// Person is a schedulable employee. Pernr is the personnel number and
// is unique per tenant.
type Person struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Pernr       string
	DisplayName string
	Email       string
	OfficeID    *uuid.UUID
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type FindParams struct {
	Q        string
	OfficeID uuid.UUID
	Status   Status
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Person, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Person, int64, error)
	Create(ctx context.Context, p Person) (Person, error)
	Update(ctx context.Context, p Person) (Person, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateDTO struct {
	Pernr       string     `json:"pernr"`
	DisplayName string     `json:"displayName"`
	Email       string     `json:"email"`
	OfficeID    *uuid.UUID `json:"officeId"`
	Status      string     `json:"status"`
}

type UpdateDTO struct {
	Pernr       string     `json:"pernr"`
	DisplayName string     `json:"displayName"`
	Email       string     `json:"email"`
	OfficeID    *uuid.UUID `json:"officeId"`
	Status      string     `json:"status"`
}

func (d *CreateDTO) Ok() (Status, serrors.ValidationErrors, bool) {
	return validatePersonFields(d.Pernr, d.DisplayName, d.Status)
}

func (d *UpdateDTO) Ok() (Status, serrors.ValidationErrors, bool) {
	return validatePersonFields(d.Pernr, d.DisplayName, d.Status)
}

func validatePersonFields(pernr, displayName, status string) (Status, serrors.ValidationErrors, bool) {
	errs := make(serrors.ValidationErrors)
	if strings.TrimSpace(pernr) == "" {
		errs["pernr"] = serrors.NewFieldRequiredError("pernr")
	}
	if strings.TrimSpace(displayName) == "" {
		errs["displayName"] = serrors.NewFieldRequiredError("displayName")
	}
	parsed := StatusActive
	if status != "" {
		s, ok := ParseStatus(status)
		if !ok {
			errs["status"] = serrors.NewValidation("STATUS_UNKNOWN", "status must be Active or Inactive")
		} else {
			parsed = s
		}
	}
	if len(errs) > 0 {
		return "", errs, false
	}
	return parsed, nil, true
}

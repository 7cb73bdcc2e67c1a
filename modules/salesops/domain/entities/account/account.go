package account

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora/pkg/serrors"
)

var ErrNotFound = serrors.NewNotFound("ACCOUNT_NOT_FOUND", "account not found")

// Account is a customer record moving through the sales pipeline.
type Account struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	Name          string
	StageID       uuid.UUID
	OwnerID       *uuid.UUID
	AnnualRevenue float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type FindParams struct {
	Q       string
	StageID uuid.UUID
	Limit   int
	Offset  int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Account, int64, error)
	Create(ctx context.Context, a Account) (Account, error)
	Update(ctx context.Context, a Account) (Account, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStage reports how many accounts sit in the given stage.
	CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error)
}

type DTO struct {
	Name          string     `json:"name"`
	StageID       uuid.UUID  `json:"stageId"`
	OwnerID       *uuid.UUID `json:"ownerId"`
	AnnualRevenue float64    `json:"annualRevenue"`
}

func (d *DTO) Ok() (serrors.ValidationErrors, bool) {
	errs := make(serrors.ValidationErrors)
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = serrors.NewFieldRequiredError("name")
	}
	if d.StageID == uuid.Nil {
		errs["stageId"] = serrors.NewFieldRequiredError("stageId")
	}
	if d.AnnualRevenue < 0 {
		errs["annualRevenue"] = serrors.NewValidation("FIELD_INVALID", "annualRevenue must not be negative")
	}
	if len(errs) > 0 {
		return errs, false
	}
	return nil, true
}

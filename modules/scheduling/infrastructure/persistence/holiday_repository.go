package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/planora/planora/modules/scheduling/domain/entities/holiday"
	"github.com/planora/planora/modules/scheduling/infrastructure/persistence/models"
	"github.com/planora/planora/pkg/composables"
)

const (
	holidayListQuery = `
        SELECT id, tenant_id, day, name
        FROM holidays
        WHERE tenant_id = $1 AND day BETWEEN $2 AND $3
        ORDER BY day`

	holidayInsertQuery = `
        INSERT INTO holidays (tenant_id, day, name)
        VALUES ($1, $2, $3)
        RETURNING id`

	holidayDeleteQuery = `DELETE FROM holidays WHERE id = $1 AND tenant_id = $2`
)

type PgHolidayRepository struct{}

func NewHolidayRepository() holiday.Repository {
	return &PgHolidayRepository{}
}

func (g *PgHolidayRepository) ListRange(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, holidayListQuery, tenantID, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "query holidays")
	}
	defer rows.Close()

	var results []holiday.Holiday
	for rows.Next() {
		var m models.Holiday
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Day, &m.Name); err != nil {
			return nil, err
		}
		h, err := toDomainHoliday(&m)
		if err != nil {
			return nil, err
		}
		results = append(results, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *PgHolidayRepository) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return holiday.Holiday{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return holiday.Holiday{}, err
	}

	var id string
	if err := tx.QueryRow(ctx, holidayInsertQuery, tenantID, h.Day, h.Name).Scan(&id); err != nil {
		return holiday.Holiday{}, errors.Wrap(err, "insert holiday")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return holiday.Holiday{}, errors.Wrap(err, "parse holiday id")
	}
	h.ID = parsed
	h.TenantID = tenantID
	return h, nil
}

func (g *PgHolidayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, holidayDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "delete holiday")
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrNotFound
	}
	return nil
}

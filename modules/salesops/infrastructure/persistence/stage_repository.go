package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/planora/planora/modules/salesops/domain/entities/stage"
	"github.com/planora/planora/modules/salesops/infrastructure/persistence/models"
	"github.com/planora/planora/pkg/composables"
)

const (
	stageFindQuery = `
        SELECT s.id, s.tenant_id, s.name, s.sort_order, s.is_closed, s.created_at, s.updated_at
        FROM sales_stages s`

	stageInsertQuery = `
        INSERT INTO sales_stages (tenant_id, name, sort_order, is_closed)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	stageUpdateQuery = `
        UPDATE sales_stages
        SET name = $2, sort_order = $3, is_closed = $4, updated_at = now()
        WHERE id = $1 AND tenant_id = $5
        RETURNING updated_at`

	stageDeleteQuery = `DELETE FROM sales_stages WHERE id = $1 AND tenant_id = $2`
)

type PgStageRepository struct{}

func NewStageRepository() stage.Repository {
	return &PgStageRepository{}
}

func (g *PgStageRepository) GetByID(ctx context.Context, id uuid.UUID) (stage.Stage, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return stage.Stage{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return stage.Stage{}, err
	}

	var m models.Stage
	err = tx.QueryRow(ctx, stageFindQuery+" WHERE s.id = $1 AND s.tenant_id = $2", id, tenantID).Scan(
		&m.ID, &m.TenantID, &m.Name, &m.SortOrder, &m.IsClosed, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stage.Stage{}, stage.ErrNotFound
		}
		return stage.Stage{}, errors.Wrap(err, "query stage")
	}
	return toDomainStage(&m)
}

func (g *PgStageRepository) GetAll(ctx context.Context) ([]stage.Stage, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, stageFindQuery+" WHERE s.tenant_id = $1 ORDER BY s.sort_order, s.name", tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "query stages")
	}
	defer rows.Close()

	var results []stage.Stage
	for rows.Next() {
		var m models.Stage
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Name, &m.SortOrder, &m.IsClosed, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		s, err := toDomainStage(&m)
		if err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *PgStageRepository) Create(ctx context.Context, s stage.Stage) (stage.Stage, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return stage.Stage{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return stage.Stage{}, err
	}

	err = tx.QueryRow(ctx, stageInsertQuery, tenantID, s.Name, s.SortOrder, s.IsClosed).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return stage.Stage{}, errors.Wrap(err, "insert stage")
	}
	s.TenantID = tenantID
	return s, nil
}

func (g *PgStageRepository) Update(ctx context.Context, s stage.Stage) (stage.Stage, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return stage.Stage{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return stage.Stage{}, err
	}

	err = tx.QueryRow(ctx, stageUpdateQuery, s.ID, s.Name, s.SortOrder, s.IsClosed, tenantID).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stage.Stage{}, stage.ErrNotFound
		}
		return stage.Stage{}, errors.Wrap(err, "update stage")
	}
	return s, nil
}

func (g *PgStageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, stageDeleteQuery, id, tenantID)
	if err != nil {
		// The accounts FK backs up the service-level reference check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return stage.ErrInUse
		}
		return errors.Wrap(err, "delete stage")
	}
	if tag.RowsAffected() == 0 {
		return stage.ErrNotFound
	}
	return nil
}

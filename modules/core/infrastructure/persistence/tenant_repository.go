package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/planora/planora/modules/core/domain/entities/tenant"
	"github.com/planora/planora/modules/core/infrastructure/persistence/models"
	"github.com/planora/planora/pkg/composables"
)

const (
	tenantFindQuery = `
        SELECT id, name, is_active, created_at, updated_at FROM tenants`

	tenantInsertQuery = `
        INSERT INTO tenants (name, is_active) VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
)

type PgTenantRepository struct{}

func NewTenantRepository() tenant.Repository {
	return &PgTenantRepository{}
}

func (g *PgTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return tenant.Tenant{}, err
	}

	var m models.Tenant
	err = tx.QueryRow(ctx, tenantFindQuery+" WHERE id = $1", id).
		Scan(&m.ID, &m.Name, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tenant.Tenant{}, tenant.ErrNotFound
		}
		return tenant.Tenant{}, errors.Wrap(err, "query tenant")
	}
	return toDomainTenant(m), nil
}

func (g *PgTenantRepository) GetAll(ctx context.Context) ([]tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, tenantFindQuery+" ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "query tenants")
	}
	defer rows.Close()

	var out []tenant.Tenant
	for rows.Next() {
		var m models.Tenant
		if err := rows.Scan(&m.ID, &m.Name, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan tenant")
		}
		out = append(out, toDomainTenant(m))
	}
	return out, rows.Err()
}

func (g *PgTenantRepository) Create(ctx context.Context, t tenant.Tenant) (tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return tenant.Tenant{}, err
	}

	var m models.Tenant
	m.Name = t.Name()
	m.IsActive = t.IsActive()
	err = tx.QueryRow(ctx, tenantInsertQuery, m.Name, m.IsActive).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return tenant.Tenant{}, errors.Wrap(err, "create tenant")
	}
	return toDomainTenant(m), nil
}

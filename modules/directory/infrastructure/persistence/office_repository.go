package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/planora/planora/modules/directory/domain/entities/office"
	"github.com/planora/planora/modules/directory/infrastructure/persistence/models"
	"github.com/planora/planora/pkg/composables"
)

const (
	officeFindQuery = `
        SELECT o.id, o.tenant_id, o.name, o.city, o.code, o.created_at, o.updated_at
        FROM offices o`

	officeInsertQuery = `
        INSERT INTO offices (tenant_id, name, city, code)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	officeUpdateQuery = `
        UPDATE offices
        SET name = $2, city = $3, code = $4, updated_at = now()
        WHERE id = $1 AND tenant_id = $5
        RETURNING updated_at`

	officeDeleteQuery = `DELETE FROM offices WHERE id = $1 AND tenant_id = $2`

	spaceListQuery = `
        SELECT s.id, s.office_id, s.name, s.capacity
        FROM spaces s
        JOIN offices o ON o.id = s.office_id
        WHERE s.office_id = $1 AND o.tenant_id = $2
        ORDER BY s.name`

	spaceCountQuery = `
        SELECT COUNT(s.id)
        FROM spaces s
        JOIN offices o ON o.id = s.office_id
        WHERE s.office_id = $1 AND o.tenant_id = $2`

	spaceInsertQuery = `
        INSERT INTO spaces (office_id, name, capacity)
        VALUES ($1, $2, $3)
        RETURNING id`

	spaceDeleteQuery = `
        DELETE FROM spaces s
        USING offices o
        WHERE s.id = $1 AND o.id = s.office_id AND o.tenant_id = $2`
)

type PgOfficeRepository struct{}

func NewOfficeRepository() office.Repository {
	return &PgOfficeRepository{}
}

func (g *PgOfficeRepository) GetByID(ctx context.Context, id uuid.UUID) (office.Office, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return office.Office{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return office.Office{}, err
	}

	var m models.Office
	err = tx.QueryRow(ctx, officeFindQuery+" WHERE o.id = $1 AND o.tenant_id = $2", id, tenantID).Scan(
		&m.ID, &m.TenantID, &m.Name, &m.City, &m.Code, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return office.Office{}, office.ErrNotFound
		}
		return office.Office{}, errors.Wrap(err, "query office")
	}
	return toDomainOffice(&m)
}

func (g *PgOfficeRepository) GetAll(ctx context.Context) ([]office.Office, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, officeFindQuery+" WHERE o.tenant_id = $1 ORDER BY o.name", tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "query offices")
	}
	defer rows.Close()

	var results []office.Office
	for rows.Next() {
		var m models.Office
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Name, &m.City, &m.Code, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		o, err := toDomainOffice(&m)
		if err != nil {
			return nil, err
		}
		results = append(results, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *PgOfficeRepository) Create(ctx context.Context, o office.Office) (office.Office, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return office.Office{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return office.Office{}, err
	}

	err = tx.QueryRow(ctx, officeInsertQuery, tenantID, o.Name, o.City, o.Code).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return office.Office{}, errors.Wrap(err, "insert office")
	}
	o.TenantID = tenantID
	return o, nil
}

func (g *PgOfficeRepository) Update(ctx context.Context, o office.Office) (office.Office, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return office.Office{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return office.Office{}, err
	}

	err = tx.QueryRow(ctx, officeUpdateQuery, o.ID, o.Name, o.City, o.Code, tenantID).Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return office.Office{}, office.ErrNotFound
		}
		return office.Office{}, errors.Wrap(err, "update office")
	}
	return o, nil
}

func (g *PgOfficeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, officeDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "delete office")
	}
	if tag.RowsAffected() == 0 {
		return office.ErrNotFound
	}
	return nil
}

func (g *PgOfficeRepository) ListSpaces(ctx context.Context, officeID uuid.UUID) ([]office.Space, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, spaceListQuery, officeID, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "query spaces")
	}
	defer rows.Close()

	var results []office.Space
	for rows.Next() {
		var m models.Space
		if err := rows.Scan(&m.ID, &m.OfficeID, &m.Name, &m.Capacity); err != nil {
			return nil, err
		}
		s, err := toDomainSpace(&m)
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

func (g *PgOfficeRepository) CountSpaces(ctx context.Context, officeID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.QueryRow(ctx, spaceCountQuery, officeID, tenantID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count spaces")
	}
	return count, nil
}

func (g *PgOfficeRepository) CreateSpace(ctx context.Context, s office.Space) (office.Space, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return office.Space{}, err
	}

	var id string
	if err := tx.QueryRow(ctx, spaceInsertQuery, s.OfficeID, s.Name, s.Capacity).Scan(&id); err != nil {
		return office.Space{}, errors.Wrap(err, "insert space")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return office.Space{}, errors.Wrap(err, "parse space id")
	}
	s.ID = parsed
	return s, nil
}

func (g *PgOfficeRepository) DeleteSpace(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, spaceDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "delete space")
	}
	if tag.RowsAffected() == 0 {
		return office.ErrSpaceNotFound
	}
	return nil
}

package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/planora/planora/modules/directory/domain/entities/person"
	"github.com/planora/planora/modules/directory/infrastructure/persistence/models"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/repo"
)

const (
	personFindQuery = `
        SELECT p.id, p.tenant_id, p.pernr, p.display_name, p.email, p.office_id, p.status, p.created_at, p.updated_at
        FROM people p`

	personCountQuery = `SELECT COUNT(p.id) FROM people p`

	personInsertQuery = `
        INSERT INTO people (tenant_id, pernr, display_name, email, office_id, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	personUpdateQuery = `
        UPDATE people
        SET pernr = $2,
            display_name = $3,
            email = $4,
            office_id = $5,
            status = $6,
            updated_at = now()
        WHERE id = $1 AND tenant_id = $7
        RETURNING updated_at`

	personDeleteQuery = `DELETE FROM people WHERE id = $1 AND tenant_id = $2`
)

type PgPersonRepository struct{}

func NewPersonRepository() person.Repository {
	return &PgPersonRepository{}
}

func (g *PgPersonRepository) GetByID(ctx context.Context, id uuid.UUID) (person.Person, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return person.Person{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return person.Person{}, err
	}

	var m models.Person
	err = tx.QueryRow(ctx, personFindQuery+" WHERE p.id = $1 AND p.tenant_id = $2", id, tenantID).Scan(
		&m.ID, &m.TenantID, &m.Pernr, &m.DisplayName, &m.Email, &m.OfficeID, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return person.Person{}, person.ErrNotFound
		}
		return person.Person{}, errors.Wrap(err, "query person")
	}
	return toDomainPerson(&m)
}

func (g *PgPersonRepository) GetPaginated(
	ctx context.Context,
	params *person.FindParams,
) ([]person.Person, int64, error) {
	if params == nil {
		params = &person.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"p.tenant_id = $1"}
	args := []interface{}{tenantID}
	if params.Q != "" {
		args = append(args, "%"+strings.ToLower(params.Q)+"%")
		where = append(where, fmt.Sprintf(
			"(LOWER(p.display_name) LIKE $%d OR LOWER(p.email) LIKE $%d OR p.pernr LIKE $%d)",
			len(args), len(args), len(args),
		))
	}
	if params.OfficeID != uuid.Nil {
		args = append(args, params.OfficeID)
		where = append(where, fmt.Sprintf("p.office_id = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := tx.QueryRow(ctx, personCountQuery+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count people")
	}

	rows, err := tx.Query(
		ctx,
		personFindQuery+whereClause+" ORDER BY p.display_name "+repo.FormatLimitOffset(params.Limit, params.Offset),
		args...,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "query people")
	}
	defer rows.Close()

	var results []person.Person
	for rows.Next() {
		var m models.Person
		if err := rows.Scan(
			&m.ID, &m.TenantID, &m.Pernr, &m.DisplayName, &m.Email, &m.OfficeID, &m.Status, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		p, err := toDomainPerson(&m)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (g *PgPersonRepository) Create(ctx context.Context, p person.Person) (person.Person, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return person.Person{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return person.Person{}, err
	}

	var officeID *string
	if p.OfficeID != nil {
		s := p.OfficeID.String()
		officeID = &s
	}
	err = tx.QueryRow(
		ctx,
		personInsertQuery,
		tenantID, p.Pernr, p.DisplayName, p.Email, officeID, string(p.Status),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return person.Person{}, person.ErrPernrTaken
		}
		return person.Person{}, errors.Wrap(err, "insert person")
	}
	p.TenantID = tenantID
	return p, nil
}

func (g *PgPersonRepository) Update(ctx context.Context, p person.Person) (person.Person, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return person.Person{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return person.Person{}, err
	}

	var officeID *string
	if p.OfficeID != nil {
		s := p.OfficeID.String()
		officeID = &s
	}
	err = tx.QueryRow(
		ctx,
		personUpdateQuery,
		p.ID, p.Pernr, p.DisplayName, p.Email, officeID, string(p.Status), tenantID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return person.Person{}, person.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return person.Person{}, person.ErrPernrTaken
		}
		return person.Person{}, errors.Wrap(err, "update person")
	}
	return p, nil
}

func (g *PgPersonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, personDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "delete person")
	}
	if tag.RowsAffected() == 0 {
		return person.ErrNotFound
	}
	return nil
}

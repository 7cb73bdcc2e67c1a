package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/planora/planora/modules/scheduling/domain/aggregates/assignment"
	"github.com/planora/planora/modules/scheduling/infrastructure/persistence/models"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/repo"
)

const (
	assignmentFindQuery = `
        SELECT
            a.id,
            a.tenant_id,
            a.person_id,
            a.wbs_element_id,
            a.start_date,
            a.end_date,
            a.status,
            a.approved_by,
            a.note,
            a.created_at,
            a.updated_at
        FROM assignments a`

	assignmentCountQuery = `SELECT COUNT(a.id) FROM assignments a`

	assignmentInsertQuery = `
        INSERT INTO assignments (tenant_id, person_id, wbs_element_id, start_date, end_date, status, note)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	assignmentUpdateQuery = `
        UPDATE assignments
        SET person_id = $2,
            wbs_element_id = $3,
            start_date = $4,
            end_date = $5,
            status = $6,
            approved_by = $7,
            note = $8,
            updated_at = now()
        WHERE id = $1 AND tenant_id = $9
        RETURNING updated_at`

	assignmentDeleteQuery = `DELETE FROM assignments WHERE id = $1 AND tenant_id = $2`

	assignmentOverlapQuery = `
        SELECT EXISTS (
            SELECT 1 FROM assignments
            WHERE tenant_id = $1
              AND person_id = $2
              AND status = 'Active'
              AND id <> $3
              AND start_date <= $5
              AND end_date >= $4
        )`
)

// exclusionViolation is the SQLSTATE raised by the gist constraint that
// backstops the overlap check under concurrency.
const exclusionViolation = "23P01"

type PgAssignmentRepository struct{}

func NewAssignmentRepository() assignment.Repository {
	return &PgAssignmentRepository{}
}

func (g *PgAssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (assignment.Assignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return assignment.Assignment{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return assignment.Assignment{}, err
	}

	row := tx.QueryRow(ctx, assignmentFindQuery+" WHERE a.id = $1 AND a.tenant_id = $2", id, tenantID)
	found, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "query assignment")
	}
	return found, nil
}

func (g *PgAssignmentRepository) GetPaginated(
	ctx context.Context,
	params *assignment.FindParams,
) ([]assignment.Assignment, int64, error) {
	if params == nil {
		params = &assignment.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"a.tenant_id = $1"}
	args := []interface{}{tenantID}
	if params.PersonID != uuid.Nil {
		args = append(args, params.PersonID)
		where = append(where, fmt.Sprintf("a.person_id = $%d", len(args)))
	}
	if params.WbsElementID != uuid.Nil {
		args = append(args, params.WbsElementID)
		where = append(where, fmt.Sprintf("a.wbs_element_id = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := tx.QueryRow(ctx, assignmentCountQuery+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count assignments")
	}

	query := assignmentFindQuery + whereClause + " ORDER BY a.start_date DESC, a.id " +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "query assignments")
	}
	defer rows.Close()

	var results []assignment.Assignment
	for rows.Next() {
		found, err := scanAssignment(rows)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, found)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (g *PgAssignmentRepository) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return assignment.Assignment{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return assignment.Assignment{}, err
	}

	row := models.Assignment{
		TenantID:     tenantID.String(),
		PersonID:     a.PersonID().String(),
		WbsElementID: a.WbsElementID().String(),
		StartDate:    a.DateRange().Start,
		EndDate:      a.DateRange().End,
		Status:       string(a.Status()),
		Note:         a.Note(),
	}
	err = tx.QueryRow(
		ctx,
		assignmentInsertQuery,
		row.TenantID, row.PersonID, row.WbsElementID,
		row.StartDate, row.EndDate, row.Status, row.Note,
	).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if isExclusionViolation(err) {
			return assignment.Assignment{}, assignment.ErrOverlap
		}
		return assignment.Assignment{}, errors.Wrap(err, "insert assignment")
	}
	return toDomainAssignment(&row)
}

func (g *PgAssignmentRepository) Update(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return assignment.Assignment{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return assignment.Assignment{}, err
	}

	var approvedBy *string
	if by := a.ApprovedBy(); by != nil {
		s := by.String()
		approvedBy = &s
	}
	updatedAt := a.UpdatedAt()
	err = tx.QueryRow(
		ctx,
		assignmentUpdateQuery,
		a.ID(), a.PersonID(), a.WbsElementID(),
		a.DateRange().Start, a.DateRange().End,
		string(a.Status()), approvedBy, a.Note(), tenantID,
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		if isExclusionViolation(err) {
			return assignment.Assignment{}, assignment.ErrOverlap
		}
		return assignment.Assignment{}, errors.Wrap(err, "update assignment")
	}

	var approvedByID *uuid.UUID
	if by := a.ApprovedBy(); by != nil {
		id := *by
		approvedByID = &id
	}
	return assignment.Hydrate(
		a.ID(), a.TenantID(), a.PersonID(), a.WbsElementID(),
		a.DateRange(), a.Status(), approvedByID, a.Note(),
		a.CreatedAt(), updatedAt,
	), nil
}

func (g *PgAssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, assignmentDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "delete assignment")
	}
	if tag.RowsAffected() == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

func (g *PgAssignmentRepository) HasOverlap(
	ctx context.Context,
	personID uuid.UUID,
	r assignment.DateRange,
	excludeID uuid.UUID,
) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	err = tx.QueryRow(
		ctx,
		assignmentOverlapQuery,
		tenantID, personID, excludeID, r.Start, r.End,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check assignment overlap")
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (assignment.Assignment, error) {
	var m models.Assignment
	if err := row.Scan(
		&m.ID, &m.TenantID, &m.PersonID, &m.WbsElementID,
		&m.StartDate, &m.EndDate, &m.Status, &m.ApprovedBy, &m.Note,
		&m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return assignment.Assignment{}, err
	}
	return toDomainAssignment(&m)
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}

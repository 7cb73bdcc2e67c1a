package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/planora/planora/modules/salesops/domain/entities/account"
	"github.com/planora/planora/modules/salesops/infrastructure/persistence/models"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/repo"
)

const (
	accountFindQuery = `
        SELECT a.id, a.tenant_id, a.name, a.stage_id, a.owner_id, a.annual_revenue, a.created_at, a.updated_at
        FROM sales_accounts a`

	accountCountQuery = `SELECT COUNT(a.id) FROM sales_accounts a`

	accountInsertQuery = `
        INSERT INTO sales_accounts (tenant_id, name, stage_id, owner_id, annual_revenue)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	accountUpdateQuery = `
        UPDATE sales_accounts
        SET name = $2, stage_id = $3, owner_id = $4, annual_revenue = $5, updated_at = now()
        WHERE id = $1 AND tenant_id = $6
        RETURNING updated_at`

	accountDeleteQuery = `DELETE FROM sales_accounts WHERE id = $1 AND tenant_id = $2`

	accountCountByStageQuery = `SELECT COUNT(a.id) FROM sales_accounts a WHERE a.stage_id = $1 AND a.tenant_id = $2`
)

type PgAccountRepository struct{}

func NewAccountRepository() account.Repository {
	return &PgAccountRepository{}
}

func (g *PgAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return account.Account{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return account.Account{}, err
	}

	var m models.Account
	err = tx.QueryRow(ctx, accountFindQuery+" WHERE a.id = $1 AND a.tenant_id = $2", id, tenantID).Scan(
		&m.ID, &m.TenantID, &m.Name, &m.StageID, &m.OwnerID, &m.AnnualRevenue, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, errors.Wrap(err, "query account")
	}
	return toDomainAccount(&m)
}

func (g *PgAccountRepository) GetPaginated(
	ctx context.Context,
	params *account.FindParams,
) ([]account.Account, int64, error) {
	if params == nil {
		params = &account.FindParams{}
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
	if params.Q != "" {
		args = append(args, "%"+strings.ToLower(params.Q)+"%")
		where = append(where, fmt.Sprintf("LOWER(a.name) LIKE $%d", len(args)))
	}
	if params.StageID != uuid.Nil {
		args = append(args, params.StageID)
		where = append(where, fmt.Sprintf("a.stage_id = $%d", len(args)))
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := tx.QueryRow(ctx, accountCountQuery+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count accounts")
	}

	rows, err := tx.Query(
		ctx,
		accountFindQuery+whereClause+" ORDER BY a.name "+repo.FormatLimitOffset(params.Limit, params.Offset),
		args...,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "query accounts")
	}
	defer rows.Close()

	var results []account.Account
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(
			&m.ID, &m.TenantID, &m.Name, &m.StageID, &m.OwnerID, &m.AnnualRevenue, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		a, err := toDomainAccount(&m)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (g *PgAccountRepository) Create(ctx context.Context, a account.Account) (account.Account, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return account.Account{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return account.Account{}, err
	}

	var ownerID *string
	if a.OwnerID != nil {
		s := a.OwnerID.String()
		ownerID = &s
	}
	err = tx.QueryRow(
		ctx,
		accountInsertQuery,
		tenantID, a.Name, a.StageID, ownerID, a.AnnualRevenue,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return account.Account{}, errors.Wrap(err, "insert account")
	}
	a.TenantID = tenantID
	return a, nil
}

func (g *PgAccountRepository) Update(ctx context.Context, a account.Account) (account.Account, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return account.Account{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return account.Account{}, err
	}

	var ownerID *string
	if a.OwnerID != nil {
		s := a.OwnerID.String()
		ownerID = &s
	}
	err = tx.QueryRow(
		ctx,
		accountUpdateQuery,
		a.ID, a.Name, a.StageID, ownerID, a.AnnualRevenue, tenantID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, errors.Wrap(err, "update account")
	}
	return a, nil
}

func (g *PgAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, accountDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "delete account")
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (g *PgAccountRepository) CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.QueryRow(ctx, accountCountByStageQuery, stageID, tenantID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count accounts by stage")
	}
	return count, nil
}

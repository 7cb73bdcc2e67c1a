package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora/modules/logging/domain/entities/loginaudit"
	"github.com/planora/planora/modules/logging/infrastructure/persistence/models"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/repo"
)

const loginAuditInsertQuery = `
	INSERT INTO login_audits (tenant_id, user_id, email, ip, user_agent, success, reason, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`

type LoginAuditRepository struct{}

func NewLoginAuditRepository() loginaudit.Repository {
	return &LoginAuditRepository{}
}

func (r *LoginAuditRepository) List(
	ctx context.Context,
	params *loginaudit.FindParams,
) ([]*loginaudit.LoginAudit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildLoginAuditFilters(params, tenantID.String())
	query := `
		SELECT id, tenant_id, user_id, email, ip, user_agent, success, reason, created_at
		FROM login_audits
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*loginaudit.LoginAudit
	for rows.Next() {
		var row models.LoginAudit
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.UserID, &row.Email,
			&row.IP, &row.UserAgent, &row.Success, &row.Reason, &row.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry, err := toDomainLoginAudit(&row)
		if err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *LoginAuditRepository) Count(ctx context.Context, params *loginaudit.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildLoginAuditFilters(params, tenantID.String())

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM login_audits
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LoginAuditRepository) Create(ctx context.Context, entry *loginaudit.LoginAudit) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if entry.TenantID == uuid.Nil {
		tenantID, err := composables.UseTenantID(ctx)
		if err != nil {
			return err
		}
		entry.TenantID = tenantID
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var userID *string
	if entry.UserID != nil {
		s := entry.UserID.String()
		userID = &s
	}
	return tx.QueryRow(
		ctx,
		loginAuditInsertQuery,
		entry.TenantID.String(),
		userID,
		entry.Email,
		entry.IP,
		entry.UserAgent,
		entry.Success,
		entry.Reason,
		entry.CreatedAt,
	).Scan(&entry.ID)
}

func buildLoginAuditFilters(params *loginaudit.FindParams, tenantID string) ([]string, []interface{}) {
	where := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}

	if params == nil {
		return where, args
	}
	if params.Email != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(params.Email)))
		where = append(where, fmt.Sprintf("LOWER(email) = $%d", len(args)))
	}
	if params.UserID != nil {
		args = append(args, params.UserID.String())
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if params.Success != nil {
		args = append(args, *params.Success)
		where = append(where, fmt.Sprintf("success = $%d", len(args)))
	}
	if params.From != nil {
		args = append(args, *params.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if params.To != nil {
		args = append(args, *params.To)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return where, args
}

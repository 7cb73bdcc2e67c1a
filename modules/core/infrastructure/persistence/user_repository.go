package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/planora/planora/modules/core/domain/aggregates/user"
	"github.com/planora/planora/modules/core/infrastructure/persistence/models"
	"github.com/planora/planora/pkg/composables"
)

const (
	userFindQuery = `
        SELECT
            u.id,
            u.email,
            u.external_id,
            u.first_name,
            u.last_name,
            u.is_active,
            u.is_system_admin,
            u.deactivated_at,
            u.deactivated_by,
            u.created_at,
            u.updated_at
        FROM users u`

	userCountQuery = `SELECT COUNT(u.id) FROM users u`

	userInsertQuery = `
        INSERT INTO users (email, external_id, first_name, last_name, is_active, is_system_admin)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	userUpdateQuery = `
        UPDATE users
        SET first_name = $2,
            last_name = $3,
            is_active = $4,
            deactivated_at = $5,
            deactivated_by = $6,
            updated_at = now()
        WHERE id = $1
        RETURNING updated_at`

	membershipsByUserQuery = `
        SELECT id, user_id, tenant_id, roles, is_active
        FROM tenant_memberships
        WHERE user_id = ANY($1)
        ORDER BY tenant_id`

	membershipInsertQuery = `
        INSERT INTO tenant_memberships (user_id, tenant_id, roles, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	membershipSetActiveQuery = `
        UPDATE tenant_memberships SET is_active = $2, updated_at = now() WHERE id = $1`

	membershipDeactivateAllQuery = `
        UPDATE tenant_memberships SET is_active = false, updated_at = now()
        WHERE user_id = $1 AND is_active = true`
)

type PgUserRepository struct{}

func NewUserRepository() user.Repository {
	return &PgUserRepository{}
}

func (g *PgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return g.getOne(ctx, userFindQuery+" WHERE u.id = $1", id)
}

func (g *PgUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return g.getOne(ctx, userFindQuery+" WHERE u.email = $1", strings.ToLower(strings.TrimSpace(email)))
}

func (g *PgUserRepository) getOne(ctx context.Context, query string, arg any) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}

	rows, err := tx.Query(ctx, query, arg)
	if err != nil {
		return user.User{}, errors.Wrap(err, "query user")
	}
	users, err := g.scanUsers(ctx, rows)
	if err != nil {
		return user.User{}, err
	}
	if len(users) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return users[0], nil
}

func (g *PgUserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, int64, error) {
	if params == nil {
		params = &user.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"1 = 1"}
	args := []any{}

	if params.TenantID != uuid.Nil {
		args = append(args, params.TenantID)
		where = append(where, fmt.Sprintf(
			"u.id IN (SELECT user_id FROM tenant_memberships WHERE tenant_id = $%d)", len(args)))
	}
	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		idx := len(args)
		where = append(where, fmt.Sprintf(
			"(u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d)", idx, idx, idx))
	}

	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := tx.QueryRow(ctx, userCountQuery+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count users")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(
		"%s%s ORDER BY u.last_name, u.first_name LIMIT $%d OFFSET $%d",
		userFindQuery, whereClause, len(args)-1, len(args),
	)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "query users")
	}
	users, err := g.scanUsers(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (g *PgUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}

	row := tx.QueryRow(ctx, userInsertQuery,
		u.Email(), u.ExternalID(), u.FirstName(), u.LastName(), u.IsActive(), u.IsSystemAdmin())

	var m models.User
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "external") {
				return user.User{}, user.ErrExternalIDTaken
			}
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, errors.Wrap(err, "create user")
	}

	return user.Hydrate(
		m.ID, u.Email(), u.ExternalID(), u.FirstName(), u.LastName(),
		u.IsActive(), u.IsSystemAdmin(), u.DeactivatedAt(), u.DeactivatedBy(),
		nil, m.CreatedAt, m.UpdatedAt,
	), nil
}

func (g *PgUserRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}

	row := tx.QueryRow(ctx, userUpdateQuery,
		u.ID(), u.FirstName(), u.LastName(), u.IsActive(), u.DeactivatedAt(), u.DeactivatedBy())

	var m models.User
	if err := row.Scan(&m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "update user")
	}

	return g.GetByID(ctx, u.ID())
}

func (g *PgUserRepository) AddMembership(ctx context.Context, m user.Membership) (user.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.Membership{}, err
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx, membershipInsertQuery,
		m.UserID(), m.TenantID(), user.RoleNames(m.Roles()), m.IsActive()).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.Membership{}, errors.Wrap(err, "membership already exists")
		}
		return user.Membership{}, errors.Wrap(err, "add membership")
	}

	return user.HydrateMembership(id, m.UserID(), m.TenantID(), m.Roles(), m.IsActive()), nil
}

func (g *PgUserRepository) SetMembershipActive(ctx context.Context, membershipID uuid.UUID, active bool) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, membershipSetActiveQuery, membershipID, active)
	if err != nil {
		return errors.Wrap(err, "set membership active")
	}
	if tag.RowsAffected() == 0 {
		return user.ErrMembershipNotFound
	}
	return nil
}

func (g *PgUserRepository) DeactivateMemberships(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, membershipDeactivateAllQuery, userID)
	if err != nil {
		return 0, errors.Wrap(err, "deactivate memberships")
	}
	return tag.RowsAffected(), nil
}

func (g *PgUserRepository) scanUsers(ctx context.Context, rows pgx.Rows) ([]user.User, error) {
	defer rows.Close()

	var userRows []models.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(
			&m.ID, &m.Email, &m.ExternalID, &m.FirstName, &m.LastName,
			&m.IsActive, &m.IsSystemAdmin, &m.DeactivatedAt, &m.DeactivatedBy,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		userRows = append(userRows, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(userRows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(userRows))
	for _, m := range userRows {
		ids = append(ids, m.ID)
	}
	memberships, err := g.membershipsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]user.User, 0, len(userRows))
	for _, m := range userRows {
		out = append(out, toDomainUser(m, memberships[m.ID]))
	}
	return out, nil
}

func (g *PgUserRepository) membershipsFor(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]user.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, membershipsByUserQuery, userIDs)
	if err != nil {
		return nil, errors.Wrap(err, "query memberships")
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]user.Membership, len(userIDs))
	for rows.Next() {
		var m models.TenantMembership
		if err := rows.Scan(&m.ID, &m.UserID, &m.TenantID, &m.Roles, &m.IsActive); err != nil {
			return nil, errors.Wrap(err, "scan membership")
		}
		out[m.UserID] = append(out[m.UserID], toDomainMembership(m))
	}
	return out, rows.Err()
}

package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/planora/planora/modules/core/domain/entities/upload"
	"github.com/planora/planora/modules/core/infrastructure/persistence/models"
	"github.com/planora/planora/pkg/composables"
)

const (
	uploadFindQuery = `
        SELECT id, tenant_id, hash, path, name, size, mimetype, created_at
        FROM uploads`

	uploadCountQuery = `SELECT COUNT(id) FROM uploads WHERE tenant_id = $1`

	uploadInsertQuery = `
        INSERT INTO uploads (tenant_id, hash, path, name, size, mimetype)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	uploadDeleteQuery = `DELETE FROM uploads WHERE id = $1 AND tenant_id = $2`
)

type PgUploadRepository struct{}

func NewUploadRepository() upload.Repository {
	return &PgUploadRepository{}
}

func (g *PgUploadRepository) GetByID(ctx context.Context, id uuid.UUID) (upload.Upload, error) {
	return g.getOne(ctx, " AND id = $2", id)
}

func (g *PgUploadRepository) GetByHash(ctx context.Context, hash string) (upload.Upload, error) {
	return g.getOne(ctx, " AND hash = $2", hash)
}

func (g *PgUploadRepository) getOne(ctx context.Context, cond string, arg any) (upload.Upload, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return upload.Upload{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return upload.Upload{}, err
	}

	var m models.Upload
	err = tx.QueryRow(ctx, uploadFindQuery+" WHERE tenant_id = $1"+cond, tenantID, arg).
		Scan(&m.ID, &m.TenantID, &m.Hash, &m.Path, &m.Name, &m.Size, &m.Mimetype, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return upload.Upload{}, upload.ErrNotFound
		}
		return upload.Upload{}, errors.Wrap(err, "query upload")
	}
	return toDomainUpload(m), nil
}

func (g *PgUploadRepository) GetPaginated(ctx context.Context, params *upload.FindParams) ([]upload.Upload, int64, error) {
	if params == nil {
		params = &upload.FindParams{}
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, uploadCountQuery, tenantID).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count uploads")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := tx.Query(ctx,
		uploadFindQuery+" WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "query uploads")
	}
	defer rows.Close()

	var out []upload.Upload
	for rows.Next() {
		var m models.Upload
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Hash, &m.Path, &m.Name, &m.Size, &m.Mimetype, &m.CreatedAt); err != nil {
			return nil, 0, errors.Wrap(err, "scan upload")
		}
		out = append(out, toDomainUpload(m))
	}
	return out, total, rows.Err()
}

func (g *PgUploadRepository) Create(ctx context.Context, u upload.Upload) (upload.Upload, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return upload.Upload{}, err
	}

	var m models.Upload
	err = tx.QueryRow(ctx, uploadInsertQuery,
		u.TenantID(), u.Hash(), u.Path(), u.Name(), u.Size(), u.Mimetype()).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Same content already uploaded for this tenant; return the
			// existing row.
			return g.GetByHash(ctx, u.Hash())
		}
		return upload.Upload{}, errors.Wrap(err, "create upload")
	}

	return upload.Hydrate(m.ID, u.TenantID(), u.Hash(), u.Path(), u.Name(), u.Size(), u.Mimetype(), m.CreatedAt), nil
}

func (g *PgUploadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, uploadDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "delete upload")
	}
	if tag.RowsAffected() == 0 {
		return upload.ErrNotFound
	}
	return nil
}

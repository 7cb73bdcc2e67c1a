package upload

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora/pkg/serrors"
)

var (
	ErrNotFound = serrors.NewNotFound("UPLOAD_NOT_FOUND", "upload not found")
	ErrTooLarge = serrors.NewValidation("UPLOAD_TOO_LARGE", "file exceeds the maximum upload size")
	ErrNoFile   = serrors.NewValidation("UPLOAD_NO_FILE", "no file provided")
)

type Upload struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	hash      string
	path      string
	name      string
	size      int64
	mimetype  string
	createdAt time.Time
}

func New(tenantID uuid.UUID, hash, path, name string, size int64, mimetype string) Upload {
	return Upload{
		tenantID: tenantID,
		hash:     hash,
		path:     path,
		name:     name,
		size:     size,
		mimetype: mimetype,
	}
}

func Hydrate(
	id uuid.UUID,
	tenantID uuid.UUID,
	hash, path, name string,
	size int64,
	mimetype string,
	createdAt time.Time,
) Upload {
	return Upload{
		id:        id,
		tenantID:  tenantID,
		hash:      hash,
		path:      path,
		name:      name,
		size:      size,
		mimetype:  mimetype,
		createdAt: createdAt,
	}
}

func (u Upload) ID() uuid.UUID        { return u.id }
func (u Upload) TenantID() uuid.UUID  { return u.tenantID }
func (u Upload) Hash() string         { return u.hash }
func (u Upload) Path() string         { return u.path }
func (u Upload) Name() string         { return u.name }
func (u Upload) Size() int64          { return u.size }
func (u Upload) Mimetype() string     { return u.mimetype }
func (u Upload) CreatedAt() time.Time { return u.createdAt }

type FindParams struct {
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Upload, error)
	GetByHash(ctx context.Context, hash string) (Upload, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Upload, int64, error)
	Create(ctx context.Context, u Upload) (Upload, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Storage persists and removes upload payloads. The only implementation
// here is local disk; cloud blob backends are out of scope.
type Storage interface {
	Save(ctx context.Context, path string, payload []byte) error
	Remove(ctx context.Context, path string) error
}

package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/planora/planora/modules/core/domain/entities/upload"
	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/eventbus"
)

// UploadCreatedEvent is published after an upload is stored.
type UploadCreatedEvent struct {
	Result upload.Upload
}

// UploadDeletedEvent is published after an upload is removed.
type UploadDeletedEvent struct {
	Result upload.Upload
}

// UploadService stores file payloads on disk and their metadata in the
// database. Uploads are content-addressed: the same payload uploaded
// twice within a tenant resolves to the existing record.
type UploadService struct {
	repo      upload.Repository
	storage   upload.Storage
	publisher eventbus.EventBus
	maxSize   int64
}

func NewUploadService(
	repo upload.Repository,
	storage upload.Storage,
	publisher eventbus.EventBus,
	maxSize int64,
) *UploadService {
	return &UploadService{
		repo:      repo,
		storage:   storage,
		publisher: publisher,
		maxSize:   maxSize,
	}
}

func (s *UploadService) GetByID(ctx context.Context, id uuid.UUID) (upload.Upload, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UploadService) GetPaginated(
	ctx context.Context,
	params *upload.FindParams,
) ([]upload.Upload, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

// Create stores the payload and registers its metadata. The content type
// is detected from the payload, never trusted from the client.
func (s *UploadService) Create(
	ctx context.Context,
	name string,
	payload []byte,
) (upload.Upload, error) {
	if len(payload) == 0 {
		return upload.Upload{}, upload.ErrNoFile
	}
	if int64(len(payload)) > s.maxSize {
		return upload.Upload{}, upload.ErrTooLarge
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return upload.Upload{}, err
	}

	sum := sha256.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.repo.GetByHash(ctx, hash)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, upload.ErrNotFound) {
		return upload.Upload{}, err
	}

	mime := mimetype.Detect(payload)
	path := filepath.Join(tenantID.String(), hash+mime.Extension())

	// The payload write joins the transaction so a storage failure never
	// leaves a metadata row pointing at a missing file. A payload stranded
	// by a failed commit is harmless: the path is content-addressed and
	// the next attempt overwrites it.
	var created upload.Upload
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, upload.New(
			tenantID, hash, path, name, int64(len(payload)), mime.String(),
		))
		if err != nil {
			return err
		}
		return s.storage.Save(txCtx, path, payload)
	})
	if err != nil {
		return upload.Upload{}, err
	}
	s.publisher.Publish(UploadCreatedEvent{Result: created})
	return created, nil
}

func (s *UploadService) Delete(ctx context.Context, id uuid.UUID) (upload.Upload, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return upload.Upload{}, err
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return upload.Upload{}, err
	}
	if err := s.storage.Remove(ctx, entity.Path()); err != nil {
		composables.UseLogger(ctx).WithError(err).
			WithField("path", entity.Path()).
			Warn("failed to remove upload payload")
	}
	s.publisher.Publish(UploadDeletedEvent{Result: entity})
	return entity, nil
}

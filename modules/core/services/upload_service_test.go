package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/modules/core/domain/entities/upload"
	"github.com/planora/planora/pkg/composables"
)

type mockUploadRepo struct {
	uploads   map[uuid.UUID]upload.Upload
	createErr error
}

func newMockUploadRepo() *mockUploadRepo {
	return &mockUploadRepo{uploads: map[uuid.UUID]upload.Upload{}}
}

func (m *mockUploadRepo) GetByID(ctx context.Context, id uuid.UUID) (upload.Upload, error) {
	u, ok := m.uploads[id]
	if !ok {
		return upload.Upload{}, upload.ErrNotFound
	}
	return u, nil
}

func (m *mockUploadRepo) GetByHash(ctx context.Context, hash string) (upload.Upload, error) {
	for _, u := range m.uploads {
		if u.Hash() == hash {
			return u, nil
		}
	}
	return upload.Upload{}, upload.ErrNotFound
}

func (m *mockUploadRepo) GetPaginated(ctx context.Context, params *upload.FindParams) ([]upload.Upload, int64, error) {
	out := make([]upload.Upload, 0, len(m.uploads))
	for _, u := range m.uploads {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUploadRepo) Create(ctx context.Context, u upload.Upload) (upload.Upload, error) {
	if m.createErr != nil {
		return upload.Upload{}, m.createErr
	}
	created := upload.Hydrate(
		uuid.New(), u.TenantID(), u.Hash(), u.Path(), u.Name(),
		u.Size(), u.Mimetype(), time.Now(),
	)
	m.uploads[created.ID()] = created
	return created, nil
}

func (m *mockUploadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.uploads, id)
	return nil
}

type stubStorage struct {
	saved   map[string][]byte
	saveErr error
}

func newStubStorage() *stubStorage {
	return &stubStorage{saved: map[string][]byte{}}
}

func (s *stubStorage) Save(ctx context.Context, path string, payload []byte) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[path] = payload
	return nil
}

func (s *stubStorage) Remove(ctx context.Context, path string) error {
	delete(s.saved, path)
	return nil
}

func uploadContext() context.Context {
	return composables.WithTenantID(testContext(), uuid.New())
}

func TestUploadService_CreateStoresPayloadAndMetadata(t *testing.T) {
	repo := newMockUploadRepo()
	store := newStubStorage()
	svc := NewUploadService(repo, store, &stubPublisher{}, 1<<20)

	created, err := svc.Create(uploadContext(), "report.txt", []byte("march utilization"))
	require.NoError(t, err)
	require.NotEmpty(t, created.Hash())
	require.Len(t, repo.uploads, 1)
	require.Contains(t, store.saved, created.Path())
}

func TestUploadService_CreateFailedSaveFailsTheWrite(t *testing.T) {
	repo := newMockUploadRepo()
	store := newStubStorage()
	store.saveErr = errors.New("disk full")
	pub := &stubPublisher{}
	svc := NewUploadService(repo, store, pub, 1<<20)

	// The save runs inside the metadata transaction, so its failure fails
	// the whole write and rolls the row back.
	_, err := svc.Create(uploadContext(), "report.txt", []byte("march utilization"))
	require.Error(t, err)
	require.Empty(t, pub.published)
}

func TestUploadService_CreateFailedInsertWritesNoPayload(t *testing.T) {
	repo := newMockUploadRepo()
	repo.createErr = errors.New("insert failed")
	store := newStubStorage()
	svc := NewUploadService(repo, store, &stubPublisher{}, 1<<20)

	_, err := svc.Create(uploadContext(), "report.txt", []byte("march utilization"))
	require.Error(t, err)
	require.Empty(t, store.saved)
}

func TestUploadService_CreateDedupsByContent(t *testing.T) {
	repo := newMockUploadRepo()
	store := newStubStorage()
	svc := NewUploadService(repo, store, &stubPublisher{}, 1<<20)
	ctx := uploadContext()

	first, err := svc.Create(ctx, "a.txt", []byte("same bytes"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, "b.txt", []byte("same bytes"))
	require.NoError(t, err)
	require.Equal(t, first.ID(), second.ID())
	require.Len(t, repo.uploads, 1)
}

func TestUploadService_CreateRejectsOversizedPayload(t *testing.T) {
	svc := NewUploadService(newMockUploadRepo(), newStubStorage(), &stubPublisher{}, 4)

	_, err := svc.Create(uploadContext(), "big.bin", []byte("12345"))
	require.ErrorIs(t, err, upload.ErrTooLarge)
}

package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/planora/planora/modules/core/domain/entities/upload"
)

// LocalStorage writes upload payloads under a base directory on the
// local filesystem.
type LocalStorage struct {
	base string
}

var _ upload.Storage = (*LocalStorage)(nil)

func NewLocalStorage(base string) *LocalStorage {
	return &LocalStorage{base: base}
}

func (s *LocalStorage) Save(_ context.Context, path string, payload []byte) error {
	full := filepath.Join(s.base, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrap(err, "failed to create upload directory")
	}
	if err := os.WriteFile(full, payload, 0o644); err != nil {
		return errors.Wrap(err, "failed to write upload payload")
	}
	return nil
}

func (s *LocalStorage) Remove(_ context.Context, path string) error {
	err := os.Remove(filepath.Join(s.base, path))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove upload payload")
	}
	return nil
}

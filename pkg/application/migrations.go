package application

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const migrationsTableQuery = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	hash       TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// MigrationManager applies module schema files in registration order.
// Each file is applied once, keyed by its path; a changed hash for an
// already-applied file is an error rather than a silent re-run.
type MigrationManager interface {
	RegisterSchema(fsys *embed.FS)
	Run(ctx context.Context) error
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

type migrationManager struct {
	pool    *pgxpool.Pool
	schemas []*embed.FS
}

func (m *migrationManager) RegisterSchema(fsys *embed.FS) {
	m.schemas = append(m.schemas, fsys)
}

func (m *migrationManager) Run(ctx context.Context) error {
	if _, err := m.pool.Exec(ctx, migrationsTableQuery); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for _, fsys := range m.schemas {
		files, err := sqlFiles(fsys)
		if err != nil {
			return err
		}
		for _, file := range files {
			if err := m.apply(ctx, fsys, file); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *migrationManager) apply(ctx context.Context, fsys *embed.FS, name string) error {
	payload, err := fsys.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", name, err)
	}
	sum := sha256.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var appliedHash string
	err = tx.QueryRow(ctx,
		`SELECT hash FROM schema_migrations WHERE name = $1 FOR UPDATE`, name,
	).Scan(&appliedHash)
	switch {
	case err == nil:
		if appliedHash != hash {
			return fmt.Errorf("migration %s changed after being applied", name)
		}
		return tx.Commit(ctx)
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return fmt.Errorf("failed to check migration %s: %w", name, err)
	}

	if _, err := tx.Exec(ctx, string(payload)); err != nil {
		return fmt.Errorf("failed to apply migration %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (name, hash) VALUES ($1, $2)`, name, hash,
	); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}
	return tx.Commit(ctx)
}

func sqlFiles(fsys *embed.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

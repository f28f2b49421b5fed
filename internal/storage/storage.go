// Package storage owns the process-wide vault database handle: opening the
// SQLite file, running schema migrations, and handing the connection to the
// repositories through an explicit ready-state contract.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/harinadareddy11/account-vault/internal/common"
	"github.com/harinadareddy11/account-vault/internal/filex"
	"github.com/harinadareddy11/account-vault/internal/storage/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Store wraps the shared *sql.DB. There is one database for all users on the
// device; isolation is enforced by owner-scoped queries, not by separate
// files, so every repository query filters by userId.
type Store struct {
	mu    sync.Mutex
	dsn   string
	db    *sql.DB
	ready bool
}

func New(dsn string) *Store {
	return &Store{dsn: dsn}
}

// Init opens the database and brings the schema up to date. Idempotent: safe
// to call multiple times; it must complete before DB() hands the connection
// out. Migration failures are fatal, not silently skipped: better to refuse
// to start than to run against a half-migrated vault.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	if err := filex.EnsureParentDir(s.dsn); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	s.ready = true
	return nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// DB returns the shared handle, or common.ErrStorageNotReady when Init has
// not completed yet.
func (s *Store) DB() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, common.ErrStorageNotReady
	}
	return s.db, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil
	}
	s.ready = false
	return s.db.Close()
}

// Package store handles SQLite persistence of the settings blob.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("settings not saved yet")

// Store wraps SQLite access for the settings blob.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			revision INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Blob is the stored settings document.
type Blob struct {
	Data      []byte
	Revision  int64
	UpdatedAt time.Time
}

// Load returns the stored blob or ErrNotFound.
func (s *Store) Load(ctx context.Context) (Blob, error) {
	var (
		data      string
		blob      Blob
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT data, revision, updated_at FROM settings WHERE id = 1`,
	).Scan(&data, &blob.Revision, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Blob{}, ErrNotFound
	}
	if err != nil {
		return Blob{}, fmt.Errorf("failed to load settings: %w", err)
	}
	blob.Data = []byte(data)
	if t, perr := time.Parse(time.RFC3339Nano, updatedAt); perr == nil {
		blob.UpdatedAt = t
	}
	return blob, nil
}

// Save replaces the stored blob and returns its new revision.
func (s *Store) Save(ctx context.Context, data []byte) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var revision int64
	err = tx.QueryRowContext(ctx, `SELECT revision FROM settings WHERE id = 1`).Scan(&revision)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to read revision: %w", err)
	}
	revision++
	_, err = tx.ExecContext(ctx,
		`INSERT INTO settings (id, data, revision, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, revision = excluded.revision, updated_at = excluded.updated_at`,
		string(data),
		revision,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save settings: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit settings: %w", err)
	}
	return revision, nil
}

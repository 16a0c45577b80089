// Package storage persists raw CSV snapshots to SQLite so the dashboard can
// serve the last known dataset when the spreadsheet is unreachable at startup.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Snapshot kinds stored in the snapshots table.
const (
	KindTransactions = "transactions"
	KindMileage      = "mileage"
)

// ErrNoSnapshot is returned by LoadLatest when no snapshot of the requested
// kind has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores a raw CSV body under the given kind, keeping only the newest
// row per kind so the table does not grow without bound.
func (s *SnapshotStore) Save(ctx context.Context, kind, body string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (kind, body, fetched_at) VALUES (?, ?, ?)",
		kind, body, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM snapshots WHERE kind = ? AND id NOT IN (SELECT id FROM snapshots WHERE kind = ? ORDER BY fetched_at DESC, id DESC LIMIT 1)",
		kind, kind,
	); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved", "kind", kind, "bytes", len(body))
	return nil
}

// LoadLatest returns the newest stored body for the kind along with when it
// was fetched.
func (s *SnapshotStore) LoadLatest(ctx context.Context, kind string) (string, time.Time, error) {
	var (
		body      string
		fetchedAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT body, fetched_at FROM snapshots WHERE kind = ? ORDER BY fetched_at DESC, id DESC LIMIT 1",
		kind,
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("load snapshot: %w", err)
	}
	return body, fetchedAt, nil
}

// Package storage caches the last successfully fetched work-item snapshot in
// a local SQLite database.
//
// The cache is a read-only fallback for browsing and report preview when the
// backend is unreachable. It is never used to queue writes; every mutation
// goes straight to the backend.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kovalyshyn/workvol/internal/model"
	"github.com/kovalyshyn/workvol/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements service.SnapshotStore over a local database file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

var _ service.SnapshotStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if necessary creates) the snapshot database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath must not be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS works (
			id TEXT PRIMARY KEY,
			city TEXT NOT NULL,
			object TEXT NOT NULL,
			subname TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			volume REAL NOT NULL,
			done REAL NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			work_id TEXT NOT NULL REFERENCES works(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			amount REAL NOT NULL,
			date DATETIME NOT NULL,
			PRIMARY KEY (work_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_works_object ON works(object)`,
		`CREATE TABLE IF NOT EXISTS sync_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			synced_at DATETIME NOT NULL
		)`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

// ReplaceSnapshot swaps the cached snapshot for the given items atomically.
// Snapshot order is preserved so the cache replays the backend's ordering.
func (s *SQLiteStore) ReplaceSnapshot(ctx context.Context, items []model.WorkItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM works`); err != nil {
		return fmt.Errorf("failed to clear works: %w", err)
	}

	insertWork, err := tx.PrepareContext(ctx, `INSERT INTO works
		(id, city, object, subname, category, name, unit, volume, done, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare work insert: %w", err)
	}
	defer func() { _ = insertWork.Close() }()

	insertEntry, err := tx.PrepareContext(ctx, `INSERT INTO history
		(work_id, seq, amount, date) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer func() { _ = insertEntry.Close() }()

	for pos, w := range items {
		if _, err := insertWork.ExecContext(ctx,
			w.ID, w.City, w.Object, w.Subname, w.Category,
			w.Name, w.Unit, w.Volume, w.Done, pos); err != nil {
			return fmt.Errorf("failed to insert work %s: %w", w.ID, err)
		}
		for seq, e := range w.History {
			if _, err := insertEntry.ExecContext(ctx,
				w.ID, seq, e.Amount, e.Date.UTC()); err != nil {
				return fmt.Errorf("failed to insert history for %s: %w", w.ID, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO sync_state (id, synced_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET synced_at = excluded.synced_at`, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record sync time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the cached snapshot in its original fetch order, with
// each item's history ordered as appended.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) ([]model.WorkItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, city, object, subname, category,
		name, unit, volume, done FROM works ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query works: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.WorkItem
	index := make(map[string]int)
	for rows.Next() {
		var w model.WorkItem
		if err := rows.Scan(&w.ID, &w.City, &w.Object, &w.Subname, &w.Category,
			&w.Name, &w.Unit, &w.Volume, &w.Done); err != nil {
			return nil, fmt.Errorf("failed to scan work: %w", err)
		}
		index[w.ID] = len(items)
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate works: %w", err)
	}

	entries, err := s.db.QueryContext(ctx, `SELECT work_id, amount, date FROM history
		ORDER BY work_id, seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = entries.Close() }()

	for entries.Next() {
		var workID string
		var e model.HistoryEntry
		if err := entries.Scan(&workID, &e.Amount, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if i, ok := index[workID]; ok {
			items[i].History = append(items[i].History, e)
		}
	}
	if err := entries.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return items, nil
}

// LastSyncedAt returns when the snapshot was last replaced, or the zero time
// when nothing has been cached yet.
func (s *SQLiteStore) LastSyncedAt(ctx context.Context) (time.Time, error) {
	var syncedAt time.Time
	err := s.db.QueryRowContext(ctx, `SELECT synced_at FROM sync_state WHERE id = 1`).Scan(&syncedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read sync time: %w", err)
	}
	return syncedAt, nil
}

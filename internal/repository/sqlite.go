// Package repository provides the SQLite backing for shared thread state.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
)

// SQLiteStore persists one shared-state document per thread. Runs and their
// events are deliberately not stored; only the canvas state survives a
// restart.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dsn and migrates it.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS thread_states (
			thread_id TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			payload TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// LoadState returns the persisted state for a thread, or nil if none exists.
func (s *SQLiteStore) LoadState(ctx context.Context, threadID string) (*domain.SharedState, error) {
	var version int64
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT version, payload FROM thread_states WHERE thread_id = ?`, threadID,
	).Scan(&version, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query thread state: %w", err)
	}

	var todos []domain.TodoItem
	if err := json.Unmarshal([]byte(payload), &todos); err != nil {
		return nil, fmt.Errorf("failed to decode thread state payload: %w", err)
	}
	return &domain.SharedState{Version: version, Todos: todos}, nil
}

// SaveState upserts a thread's state document.
func (s *SQLiteStore) SaveState(ctx context.Context, threadID string, st domain.SharedState) error {
	payload, err := json.Marshal(st.Todos)
	if err != nil {
		return fmt.Errorf("failed to encode thread state payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO thread_states (thread_id, version, payload, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(thread_id) DO UPDATE SET
		   version = excluded.version,
		   payload = excluded.payload,
		   updated_at = CURRENT_TIMESTAMP`,
		threadID, st.Version, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save thread state: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

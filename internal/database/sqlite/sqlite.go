// Package sqlite implements the repository contracts on a local SQLite file.
package sqlite

import (
	"SafetyAgents/internal/lib/sl"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db    *sql.DB
	mutex sync.Mutex // serializes versioned writes to avoid SQLITE_BUSY
	now   func() time.Time
	log   *slog.Logger
}

func New(dbPath string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{
		db:  db,
		now: time.Now,
		log: logger.With(sl.Module("sqlite")),
	}
	if err = s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS workflow_states (
		key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		version INTEGER NOT NULL,
		expires_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_states_expires ON workflow_states(expires_at) WHERE expires_at IS NOT NULL;

	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		hired_agent_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		data TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assessments_agent ON assessments(hired_agent_id, created_at);

	CREATE TABLE IF NOT EXISTS api_keys (
		key TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL,
		company_id TEXT,
		role TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS hired_agents (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		company_id TEXT,
		agent_type TEXT NOT NULL,
		active INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_hired_agents_user ON hired_agents(user_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Sweep deletes expired workflow states and returns how many rows were removed.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM workflow_states WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("sweep states: %w", err)
	}
	return res.RowsAffected()
}

// Run sweeps expired states every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				s.log.With(sl.Err(err)).Error("sweep states")
				continue
			}
			if n > 0 {
				s.log.With(slog.Int64("removed", n)).Debug("expired states swept")
			}
		}
	}
}

func nullableString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

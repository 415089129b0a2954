package sqlite

import (
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

func (s *Store) Get(ctx context.Context, key string) (*entity.WorkflowState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT data, version FROM workflow_states
		 WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		key, s.now().UnixMilli())

	var data string
	var version int64
	err := row.Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan state row: %w", err)
	}

	var state entity.WorkflowState
	if err = json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", key, err)
	}
	state.Version = version
	return &state, nil
}

func (s *Store) Put(ctx context.Context, key string, state *entity.WorkflowState, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now()
	var current int64
	var expiresAt sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT version, expires_at FROM workflow_states WHERE key = ?`, key).
		Scan(&current, &expiresAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = 0
	case err != nil:
		return fmt.Errorf("read state version: %w", err)
	case expiresAt.Valid && expiresAt.Int64 <= now.UnixMilli():
		current = 0
	}
	if state.Version != current {
		return workflow.ErrStateConflict
	}

	next := current + 1
	state.Version = next
	data, err := json.Marshal(state)
	if err != nil {
		state.Version = current
		return fmt.Errorf("encode state %s: %w", key, err)
	}

	var expires interface{}
	if ttl > 0 {
		expires = now.Add(ttl).UnixMilli()
	}
	_, err = tx.ExecContext(ctx, `
	INSERT INTO workflow_states (key, data, version, expires_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		data = excluded.data,
		version = excluded.version,
		expires_at = excluded.expires_at`,
		key, string(data), next, expires)
	if err != nil {
		state.Version = current
		return fmt.Errorf("upsert state: %w", err)
	}
	if err = tx.Commit(); err != nil {
		state.Version = current
		return fmt.Errorf("commit state: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM workflow_states WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

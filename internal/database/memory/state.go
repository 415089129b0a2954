// Package memory is an in-process workflow state store with TTL eviction.
package memory

import (
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	version   int64
	expiresAt time.Time
}

// StateStore keeps serialized states so callers never share mutable values.
type StateStore struct {
	mutex   sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewStateStore() *StateStore {
	return &StateStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *StateStore) Get(_ context.Context, key string) (*entity.WorkflowState, error) {
	s.mutex.Lock()
	e, ok := s.entries[key]
	s.mutex.Unlock()

	if !ok || s.expired(e) {
		return nil, nil
	}

	var state entity.WorkflowState
	if err := json.Unmarshal(e.data, &state); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", key, err)
	}
	state.Version = e.version
	return &state, nil
}

func (s *StateStore) Put(_ context.Context, key string, state *entity.WorkflowState, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var current int64
	if e, ok := s.entries[key]; ok && !s.expired(e) {
		current = e.version
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

	e := entry{data: data, version: next}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *StateStore) Delete(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.entries, key)
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (s *StateStore) Sweep() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := 0
	for k, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// Run sweeps expired entries every interval until ctx is done.
func (s *StateStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *StateStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

package sqlite

import (
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestState_PutGetVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.Get(ctx, "u1-a1")
	require.NoError(t, err)
	assert.Nil(t, got)

	state := entity.NewWorkflowState("u1", "", "a1", "coshh", "upload_sds")
	require.NoError(t, s.Put(ctx, state.Key, state, time.Hour))
	assert.Equal(t, int64(1), state.Version)

	got, err = s.Get(ctx, state.Key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StepID("upload_sds"), got.CurrentStep)
	assert.Equal(t, int64(1), got.Version)

	got.CurrentStep = "confirm_hazard"
	require.NoError(t, s.Put(ctx, got.Key, got, time.Hour))
	assert.Equal(t, int64(2), got.Version)
}

func TestState_Conflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	state := entity.NewWorkflowState("u1", "", "a1", "coshh", "upload_sds")
	require.NoError(t, s.Put(ctx, state.Key, state, time.Hour))

	a, err := s.Get(ctx, state.Key)
	require.NoError(t, err)
	b, err := s.Get(ctx, state.Key)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, a.Key, a, time.Hour))
	err = s.Put(ctx, b.Key, b, time.Hour)
	assert.ErrorIs(t, err, workflow.ErrStateConflict)
	assert.Equal(t, int64(1), b.Version)
}

func TestState_Expiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	s.now = func() time.Time { return now }

	state := entity.NewWorkflowState("u1", "", "a1", "coshh", "upload_sds")
	require.NoError(t, s.Put(ctx, state.Key, state, time.Minute))

	now = now.Add(2 * time.Minute)
	got, err := s.Get(ctx, state.Key)
	require.NoError(t, err)
	assert.Nil(t, got)

	// an expired row counts as missing for a fresh state
	fresh := entity.NewWorkflowState("u1", "", "a1", "coshh", "upload_sds")
	require.NoError(t, s.Put(ctx, fresh.Key, fresh, time.Minute))
	assert.Equal(t, int64(1), fresh.Version)

	now = now.Add(2 * time.Minute)
	n, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestState_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	state := entity.NewWorkflowState("u1", "", "a1", "coshh", "upload_sds")
	require.NoError(t, s.Put(ctx, state.Key, state, 0))
	require.NoError(t, s.Delete(ctx, state.Key))

	got, err := s.Get(ctx, state.Key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAssessments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := &entity.Assessment{Title: "COSHH Assessment: TDI", HiredAgentID: "a1", UserID: "u1", CreatedAt: base}
	id, err := s.SaveAssessment(ctx, first)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	second := &entity.Assessment{Title: "COSHH Assessment: Salt", HiredAgentID: "a1", UserID: "u1", CreatedAt: base.Add(time.Hour)}
	_, err = s.SaveAssessment(ctx, second)
	require.NoError(t, err)
	_, err = s.SaveAssessment(ctx, &entity.Assessment{Title: "other", HiredAgentID: "a2", UserID: "u2", CreatedAt: base})
	require.NoError(t, err)

	got, err := s.GetAssessment(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "COSHH Assessment: TDI", got.Title)

	list, err := s.ListAssessments(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "COSHH Assessment: Salt", list[0].Title)

	missing, err := s.GetAssessment(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestApiKeysAndHiredAgents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := entity.UserAuth{UserID: "u1", Username: "alice", CompanyID: "c1", Role: entity.UserRole}
	key, err := s.GenerateApiKey(ctx, user)
	require.NoError(t, err)
	again, err := s.GenerateApiKey(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, key, again)

	got, err := s.CheckApiKey(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "c1", got.CompanyID)

	unknown, err := s.CheckApiKey(ctx, "bad")
	require.NoError(t, err)
	assert.Nil(t, unknown)

	require.NoError(t, s.UpsertHiredAgent(ctx, &entity.HiredAgent{ID: "a1", UserID: "u1", AgentType: entity.AgentTypeCoshh, Active: true}))
	require.NoError(t, s.UpsertHiredAgent(ctx, &entity.HiredAgent{ID: "a2", UserID: "u9", CompanyID: "c1", AgentType: entity.AgentTypeCoshh, Active: true}))
	require.NoError(t, s.UpsertHiredAgent(ctx, &entity.HiredAgent{ID: "a3", UserID: "u9", AgentType: entity.AgentTypeCoshh}))

	agent, err := s.GetHiredAgent(ctx, "a2")
	require.NoError(t, err)
	require.NotNil(t, agent)
	assert.True(t, agent.Active)
	assert.Equal(t, "c1", agent.CompanyID)

	agents, err := s.ListHiredAgents(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Len(t, agents, 2)

	none, err := s.GetHiredAgent(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, none)
}

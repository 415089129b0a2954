package memory

import (
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestStateStore_PutGetVersioning(t *testing.T) {
	ctx := context.Background()
	s := NewStateStore()

	state := entity.NewWorkflowState("u1", "c1", "a1", "coshh", "upload_sds")
	require.NoError(t, s.Put(ctx, state.Key, state, time.Hour))
	assert.EqualValues(t, 1, state.Version)

	loaded, err := s.Get(ctx, state.Key)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.EqualValues(t, 1, loaded.Version)
	assert.Equal(t, entity.StepID("upload_sds"), loaded.CurrentStep)

	loaded.CurrentStep = "confirm_hazard"
	require.NoError(t, s.Put(ctx, state.Key, loaded, time.Hour))

	// a writer holding the old version loses
	state.CurrentStep = "usage_details"
	assert.ErrorIs(t, s.Put(ctx, state.Key, state, time.Hour), workflow.ErrStateConflict)

	again, err := s.Get(ctx, state.Key)
	require.NoError(t, err)
	assert.Equal(t, entity.StepID("confirm_hazard"), again.CurrentStep)
}

func TestStateStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStateStore()

	state := entity.NewWorkflowState("u1", "", "a1", "coshh", "upload_sds")
	require.NoError(t, s.Put(ctx, state.Key, state, 0))

	a, _ := s.Get(ctx, state.Key)
	a.SubstanceRecords = append(a.SubstanceRecords, entity.SubstanceRecord{ChemicalName: "Acetone"})

	b, _ := s.Get(ctx, state.Key)
	assert.Empty(t, b.SubstanceRecords)
}

func TestStateStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStateStore()
	s.now = func() time.Time { return now }

	state := entity.NewWorkflowState("u1", "", "a1", "coshh", "upload_sds")
	require.NoError(t, s.Put(ctx, state.Key, state, time.Minute))

	now = now.Add(2 * time.Minute)
	got, err := s.Get(ctx, state.Key)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, s.Sweep())
}

func TestStateStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewStateStore()

	state := entity.NewWorkflowState("u1", "", "a1", "coshh", "upload_sds")
	require.NoError(t, s.Put(ctx, state.Key, state, 0))
	require.NoError(t, s.Delete(ctx, state.Key))

	got, err := s.Get(ctx, state.Key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStateStore_RunStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewStateStore().Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	<-done
}

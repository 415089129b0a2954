package workflow_test

import (
	"SafetyAgents/entity"
	"SafetyAgents/internal/database/memory"
	"SafetyAgents/workflow"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stepPurpose  workflow.StepID = "purpose"
	stepQuantity workflow.StepID = "quantity"
	stepDone     workflow.StepID = "done"
)

// textStep stores one answer and advances.
type textStep struct {
	id     workflow.StepID
	prompt string
	field  func(*entity.WorkflowState) *string
	err    error
}

func (s *textStep) ID() workflow.StepID { return s.id }

func (s *textStep) Enter(_ context.Context, m workflow.Messenger, _ *entity.WorkflowState) workflow.StepResult {
	return workflow.StepResult{Error: m.SendText(s.prompt)}
}

func (s *textStep) HandleInput(_ context.Context, _ workflow.Messenger, state *entity.WorkflowState, in workflow.UserInput) workflow.StepResult {
	if s.err != nil {
		*s.field(state) = "mutated"
		return workflow.StepResult{Error: s.err}
	}
	*s.field(state) = in.Text
	return workflow.StepResult{Advance: true}
}

func (s *textStep) Complete(state *entity.WorkflowState) bool {
	return *s.field(state) != ""
}

type testWorkflow struct {
	steps     map[workflow.StepID]workflow.Step
	finishErr error
	finished  int
}

func newTestWorkflow() *testWorkflow {
	return &testWorkflow{steps: map[workflow.StepID]workflow.Step{
		stepPurpose:  &textStep{id: stepPurpose, prompt: "Purpose?", field: func(s *entity.WorkflowState) *string { return &s.UsageData.Purpose }},
		stepQuantity: &textStep{id: stepQuantity, prompt: "Quantity?", field: func(s *entity.WorkflowState) *string { return &s.UsageData.Quantity }},
	}}
}

func (w *testWorkflow) ID() workflow.WorkflowID       { return "test" }
func (w *testWorkflow) InitialStep() workflow.StepID  { return stepPurpose }
func (w *testWorkflow) TerminalStep() workflow.StepID { return stepDone }

func (w *testWorkflow) GetStep(id workflow.StepID) (workflow.Step, bool) {
	s, ok := w.steps[id]
	return s, ok
}

func (w *testWorkflow) Next(state *entity.WorkflowState, current workflow.StepID) workflow.StepID {
	if current == stepPurpose && state.UsageData.Purpose != "skip" {
		return stepQuantity
	}
	return stepDone
}

func (w *testWorkflow) Finish(_ context.Context, m workflow.Messenger, _ *entity.WorkflowState) (string, error) {
	if w.finishErr != nil {
		return "", w.finishErr
	}
	w.finished++
	_ = m.SendText("Saved")
	return "result-1", nil
}

type recorder struct {
	changes   []string
	completed []string
}

func (r *recorder) StepChanged(_ *entity.WorkflowState, from, to workflow.StepID) {
	r.changes = append(r.changes, string(from)+">"+string(to))
}

func (r *recorder) WorkflowCompleted(_ *entity.WorkflowState, id string) {
	r.completed = append(r.completed, id)
}

func newEngine(t *testing.T, w workflow.Workflow) (*workflow.Engine, *memory.StateStore, *recorder) {
	t.Helper()
	store := memory.NewStateStore()
	e := workflow.NewEngine(store, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.RegisterWorkflow(w)
	rec := &recorder{}
	e.SetListener(rec)
	return e, store, rec
}

var session = workflow.Session{UserID: "u1", HiredAgentID: "a1", WorkflowID: "test"}

func turn(t *testing.T, e *workflow.Engine, text string) (*workflow.TurnResult, *workflow.Transcript) {
	t.Helper()
	tr := &workflow.Transcript{}
	res, err := e.HandleInput(context.Background(), session, workflow.UserInput{Text: text}, tr)
	require.NoError(t, err)
	return res, tr
}

func TestEngine_LazyInitAndAdvance(t *testing.T) {
	e, store, rec := newEngine(t, newTestWorkflow())

	res, tr := turn(t, e, "")
	assert.Equal(t, stepPurpose, res.Step)
	assert.Equal(t, []string{"Purpose?"}, tr.Texts())

	res, tr = turn(t, e, "degreasing")
	assert.Equal(t, stepQuantity, res.Step)
	assert.Equal(t, []workflow.StepID{stepPurpose}, res.CompletedSteps)
	assert.Equal(t, []string{"Quantity?"}, tr.Texts())

	res, tr = turn(t, e, "5 litres")
	assert.True(t, res.Completed)
	assert.Equal(t, "result-1", res.ResultID)
	assert.Equal(t, []string{"Saved"}, tr.Texts())

	gone, err := store.Get(context.Background(), session.Key())
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.Equal(t, []string{"purpose>quantity", "quantity>done"}, rec.changes)
	assert.Equal(t, []string{"result-1"}, rec.completed)
}

func TestEngine_FirstTurnWithInputIsHandled(t *testing.T) {
	e, _, _ := newEngine(t, newTestWorkflow())

	res, tr := turn(t, e, "degreasing")
	assert.Equal(t, stepQuantity, res.Step)
	assert.Equal(t, []string{"Purpose?", "Quantity?"}, tr.Texts())
}

func TestEngine_SkipRule(t *testing.T) {
	e, _, _ := newEngine(t, newTestWorkflow())

	res, _ := turn(t, e, "skip")
	assert.True(t, res.Completed)
	assert.Equal(t, []workflow.StepID{stepPurpose}, res.CompletedSteps)
}

func TestEngine_FinishErrorKeepsState(t *testing.T) {
	w := newTestWorkflow()
	e, store, rec := newEngine(t, w)

	turn(t, e, "degreasing")

	w.finishErr = errors.New("db down")
	_, err := e.HandleInput(context.Background(), session, workflow.UserInput{Text: "5 litres"}, &workflow.Transcript{})
	require.Error(t, err)

	state, err := store.Get(context.Background(), session.Key())
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, stepQuantity, state.CurrentStep)
	assert.Empty(t, state.UsageData.Quantity)
	assert.Empty(t, rec.completed)

	w.finishErr = nil
	res, _ := turn(t, e, "5 litres")
	assert.True(t, res.Completed)
	assert.Equal(t, 1, w.finished)
}

func TestEngine_StepErrorIsNotPersisted(t *testing.T) {
	w := newTestWorkflow()
	e, store, _ := newEngine(t, w)
	turn(t, e, "")

	boom := errors.New("boom")
	w.steps[stepPurpose].(*textStep).err = boom

	_, err := e.HandleInput(context.Background(), session, workflow.UserInput{Text: "x"}, &workflow.Transcript{})
	assert.ErrorIs(t, err, boom)

	state, err := store.Get(context.Background(), session.Key())
	require.NoError(t, err)
	assert.Empty(t, state.UsageData.Purpose)
}

func TestEngine_GetStateAndReset(t *testing.T) {
	e, _, _ := newEngine(t, newTestWorkflow())
	ctx := context.Background()

	_, err := e.GetState(ctx, session)
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	turn(t, e, "degreasing")
	state, err := e.GetState(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "degreasing", state.UsageData.Purpose)

	require.NoError(t, e.Reset(ctx, session))
	_, err = e.GetState(ctx, session)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestEngine_UnknownWorkflow(t *testing.T) {
	e, _, _ := newEngine(t, newTestWorkflow())
	s := session
	s.WorkflowID = "missing"
	_, err := e.HandleInput(context.Background(), s, workflow.UserInput{Text: "x"}, &workflow.Transcript{})
	assert.Error(t, err)
}

func TestListeners_FanOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	ls := workflow.Listeners{a, b}
	state := entity.NewWorkflowState("u1", "", "a1", "test", "one")

	ls.StepChanged(state, "one", "two")
	ls.WorkflowCompleted(state, "r1")

	for _, r := range []*recorder{a, b} {
		assert.Equal(t, []string{"one>two"}, r.changes)
		assert.Equal(t, []string{"r1"}, r.completed)
	}
}

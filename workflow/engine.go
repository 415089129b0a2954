package workflow

import (
	"SafetyAgents/entity"
	"SafetyAgents/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"time"
)

const maxTransitions = 20

// Engine is the storage-agnostic conversational workflow orchestrator.
// Turns for one session key are serialized; different keys run in parallel.
type Engine struct {
	workflows   map[WorkflowID]Workflow
	store       StateStore
	locker      *KeyLocker
	ttl         time.Duration
	lockTimeout time.Duration
	listener    Listener
	now         func() time.Time
	log         *slog.Logger
}

// TurnResult summarises a processed turn.
type TurnResult struct {
	Step           StepID   `json:"step"`
	CompletedSteps []StepID `json:"completed_steps"`
	ResultID       string   `json:"assessment_id,omitempty"`
	Completed      bool     `json:"completed"`
}

type stepChange struct {
	from, to StepID
}

// NewEngine creates a new workflow engine.
func NewEngine(store StateStore, ttl time.Duration, log *slog.Logger) *Engine {
	return &Engine{
		workflows: make(map[WorkflowID]Workflow),
		store:     store,
		locker:    NewKeyLocker(),
		ttl:       ttl,
		now:       time.Now,
		log:       log.With(sl.Module("workflow")),
	}
}

// SetListener sets the listener for workflow events.
func (e *Engine) SetListener(l Listener) {
	e.listener = l
}

// SetLockTimeout bounds the wait for a busy session. Zero waits for the request context only.
func (e *Engine) SetLockTimeout(d time.Duration) {
	e.lockTimeout = d
}

// RegisterWorkflow adds a workflow to the engine.
func (e *Engine) RegisterWorkflow(w Workflow) {
	e.workflows[w.ID()] = w
	e.log.Info("registered workflow", slog.String("workflow_id", string(w.ID())))
}

// HandleInput processes one user turn. A returned error means nothing was persisted.
func (e *Engine) HandleInput(ctx context.Context, s Session, input UserInput, m Messenger) (*TurnResult, error) {
	w, ok := e.workflows[s.WorkflowID]
	if !ok {
		return nil, fmt.Errorf("workflow not found: %s", s.WorkflowID)
	}

	unlock, err := e.lock(ctx, s.Key())
	if err != nil {
		return nil, fmt.Errorf("waiting for session %s: %w", s.Key(), err)
	}
	defer unlock()

	state, err := e.store.Get(ctx, s.Key())
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}

	var changes []stepChange

	if state == nil {
		state = entity.NewWorkflowState(s.UserID, s.CompanyID, s.HiredAgentID, s.WorkflowID, w.InitialStep())
		state.CreatedAt = e.now()

		step, ok := w.GetStep(state.CurrentStep)
		if !ok {
			return nil, fmt.Errorf("initial step not found: %s", state.CurrentStep)
		}

		e.log.Info("starting workflow",
			slog.String("key", state.Key),
			slog.String("workflow_id", string(state.WorkflowID)),
		)

		result := step.Enter(ctx, m, state)
		if input.Empty() || result.Error != nil {
			return e.finishTurn(ctx, m, w, state, result, changes)
		}
	}

	step, ok := w.GetStep(state.CurrentStep)
	if !ok {
		return nil, fmt.Errorf("step not found: %s", state.CurrentStep)
	}

	result := step.HandleInput(ctx, m, state, input)
	return e.finishTurn(ctx, m, w, state, result, changes)
}

// finishTurn applies transitions, runs the finisher on the terminal step and persists.
func (e *Engine) finishTurn(ctx context.Context, m Messenger, w Workflow, state *entity.WorkflowState, result StepResult, changes []stepChange) (*TurnResult, error) {
	if result.Error != nil {
		e.log.Error("step error",
			slog.String("key", state.Key),
			slog.String("step_id", string(state.CurrentStep)),
			sl.Err(result.Error),
		)
		return nil, result.Error
	}

	for i := 0; i < maxTransitions; i++ {
		current := state.CurrentStep
		step, ok := w.GetStep(current)
		if !ok {
			return nil, fmt.Errorf("step not found: %s", current)
		}
		if !result.Advance || state.HasCompleted(current) || !step.Complete(state) {
			break
		}

		state.MarkCompleted(current)
		next := w.Next(state, current)
		state.CurrentStep = next
		changes = append(changes, stepChange{from: current, to: next})

		e.log.Debug("transitioning",
			slog.String("key", state.Key),
			slog.String("from", string(current)),
			slog.String("to", string(next)),
		)

		if next == w.TerminalStep() {
			return e.complete(ctx, m, w, state, changes)
		}

		nextStep, ok := w.GetStep(next)
		if !ok {
			return nil, fmt.Errorf("next step not found: %s", next)
		}
		result = nextStep.Enter(ctx, m, state)
		if result.Error != nil {
			e.log.Error("step enter error",
				slog.String("key", state.Key),
				slog.String("step_id", string(next)),
				sl.Err(result.Error),
			)
			return nil, result.Error
		}
	}

	state.UpdatedAt = e.now()
	if err := e.store.Put(ctx, state.Key, state, e.ttl); err != nil {
		return nil, fmt.Errorf("saving state: %w", err)
	}

	e.notify(state, changes, "")
	return turnResult(state, "", false), nil
}

func (e *Engine) complete(ctx context.Context, m Messenger, w Workflow, state *entity.WorkflowState, changes []stepChange) (*TurnResult, error) {
	resultID, err := w.Finish(ctx, m, state)
	if err != nil {
		return nil, fmt.Errorf("finishing workflow: %w", err)
	}

	e.log.Info("workflow completed",
		slog.String("key", state.Key),
		slog.String("workflow_id", string(state.WorkflowID)),
		slog.String("result_id", resultID),
	)

	if err = e.store.Delete(ctx, state.Key); err != nil {
		// the result is already persisted; the state expires with its TTL
		e.log.Error("deleting completed state", slog.String("key", state.Key), sl.Err(err))
	}

	e.notify(state, changes, resultID)
	return turnResult(state, resultID, true), nil
}

// GetState returns the stored state of a session.
func (e *Engine) GetState(ctx context.Context, s Session) (*entity.WorkflowState, error) {
	state, err := e.store.Get(ctx, s.Key())
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return nil, ErrNotFound
	}
	return state, nil
}

// Reset discards the stored state of a session.
func (e *Engine) Reset(ctx context.Context, s Session) error {
	unlock, err := e.lock(ctx, s.Key())
	if err != nil {
		return fmt.Errorf("waiting for session %s: %w", s.Key(), err)
	}
	defer unlock()

	if err = e.store.Delete(ctx, s.Key()); err != nil {
		return fmt.Errorf("deleting state: %w", err)
	}
	e.log.Info("workflow reset", slog.String("key", s.Key()))
	return nil
}

func (e *Engine) lock(ctx context.Context, key string) (func(), error) {
	if e.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.lockTimeout)
		defer cancel()
	}
	return e.locker.Lock(ctx, key)
}

func (e *Engine) notify(state *entity.WorkflowState, changes []stepChange, resultID string) {
	if e.listener == nil {
		return
	}
	for _, c := range changes {
		e.listener.StepChanged(state, c.from, c.to)
	}
	if resultID != "" {
		e.listener.WorkflowCompleted(state, resultID)
	}
}

func turnResult(state *entity.WorkflowState, resultID string, completed bool) *TurnResult {
	return &TurnResult{
		Step:           state.CurrentStep,
		CompletedSteps: append([]StepID(nil), state.CompletedSteps...),
		ResultID:       resultID,
		Completed:      completed,
	}
}

package workflow

import (
	"SafetyAgents/entity"
	"context"
	"errors"
	"time"
)

// StepID is a unique identifier for a step within a workflow.
type StepID = entity.StepID

// WorkflowID is a unique identifier for a workflow.
type WorkflowID = entity.WorkflowID

var (
	ErrNotFound      = errors.New("workflow state not found")
	ErrStateConflict = errors.New("workflow state was modified concurrently")
)

// StepResult represents the outcome of handling an event in a step.
// Advance asks the engine to move on; it only does so when the step's
// completion predicate also holds.
type StepResult struct {
	Advance bool
	Error   error
}

// Step defines the interface for a single workflow step.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// Enter is called when the user enters this step.
	Enter(ctx context.Context, m Messenger, state *entity.WorkflowState) StepResult

	// HandleInput processes user input (text, callback or document).
	HandleInput(ctx context.Context, m Messenger, state *entity.WorkflowState, input UserInput) StepResult

	// Complete is the completion predicate of the step.
	Complete(state *entity.WorkflowState) bool
}

// Workflow defines the interface for a complete workflow.
type Workflow interface {
	ID() WorkflowID
	InitialStep() StepID
	TerminalStep() StepID
	GetStep(id StepID) (Step, bool)

	// Next returns the step following current, applying any skip rules.
	Next(state *entity.WorkflowState, current StepID) StepID

	// Finish runs when the terminal step is reached and returns the id of
	// the persisted result. An error fails the turn.
	Finish(ctx context.Context, m Messenger, state *entity.WorkflowState) (string, error)
}

// StateStore persists workflow states with a time to live.
// Get returns nil, nil for a missing key. Put rejects a state whose Version
// does not match the stored one with ErrStateConflict and increments Version
// on success.
type StateStore interface {
	Get(ctx context.Context, key string) (*entity.WorkflowState, error)
	Put(ctx context.Context, key string, state *entity.WorkflowState, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Listener receives workflow events after a turn has been persisted.
type Listener interface {
	StepChanged(state *entity.WorkflowState, from, to StepID)
	WorkflowCompleted(state *entity.WorkflowState, resultID string)
}

// Listeners fans events out to several listeners in order.
type Listeners []Listener

func (ls Listeners) StepChanged(state *entity.WorkflowState, from, to StepID) {
	for _, l := range ls {
		l.StepChanged(state, from, to)
	}
}

func (ls Listeners) WorkflowCompleted(state *entity.WorkflowState, resultID string) {
	for _, l := range ls {
		l.WorkflowCompleted(state, resultID)
	}
}

// Session identifies who a turn belongs to.
type Session struct {
	UserID       string
	CompanyID    string
	HiredAgentID string
	WorkflowID   WorkflowID
}

// Key returns the state store key of the session.
func (s Session) Key() string {
	return entity.StateKey(s.UserID, s.HiredAgentID)
}

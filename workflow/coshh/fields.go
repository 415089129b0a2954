package coshh

import (
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"context"
	"strings"
)

// FieldSchema is one positional answer slot of a data-collection step.
type FieldSchema struct {
	Name   string
	Prompt string
	Value  func(*entity.WorkflowState) string
	Apply  func(*entity.WorkflowState, string)
	// Skip drops the slot when it returns true.
	Skip func(*entity.WorkflowState) bool
}

func (f FieldSchema) open(state *entity.WorkflowState) bool {
	if f.Skip != nil && f.Skip(state) {
		return false
	}
	return f.Value(state) == ""
}

// NextField returns the first open slot, or nil when all are filled.
func NextField(fields []FieldSchema, state *entity.WorkflowState) *FieldSchema {
	for i := range fields {
		if fields[i].open(state) {
			return &fields[i]
		}
	}
	return nil
}

// fieldStep fills its slots in order, one user message per slot.
type fieldStep struct {
	id     workflow.StepID
	intro  string
	fields []FieldSchema
	// prepare runs on entry before the first prompt.
	prepare func(*entity.WorkflowState)
	// done runs once all slots are filled, before advancing.
	done func(m workflow.Messenger, state *entity.WorkflowState) error
}

func (s *fieldStep) ID() workflow.StepID { return s.id }

func (s *fieldStep) Enter(_ context.Context, m workflow.Messenger, state *entity.WorkflowState) workflow.StepResult {
	if s.prepare != nil {
		s.prepare(state)
	}
	next := NextField(s.fields, state)
	if next == nil {
		return s.finish(m, state)
	}
	prompt := next.Prompt
	if s.intro != "" {
		prompt = s.intro + "\n" + prompt
	}
	return workflow.StepResult{Error: m.SendText(prompt)}
}

func (s *fieldStep) Complete(state *entity.WorkflowState) bool {
	return NextField(s.fields, state) == nil
}

func (s *fieldStep) HandleInput(_ context.Context, m workflow.Messenger, state *entity.WorkflowState, input workflow.UserInput) workflow.StepResult {
	next := NextField(s.fields, state)
	if next == nil {
		return s.finish(m, state)
	}

	answer := strings.TrimSpace(input.Text)
	if answer == "" {
		return workflow.StepResult{Error: m.SendText(next.Prompt)}
	}
	next.Apply(state, answer)

	if following := NextField(s.fields, state); following != nil {
		return workflow.StepResult{Error: m.SendText(following.Prompt)}
	}
	return s.finish(m, state)
}

func (s *fieldStep) finish(m workflow.Messenger, state *entity.WorkflowState) workflow.StepResult {
	if s.done != nil {
		if err := s.done(m, state); err != nil {
			return workflow.StepResult{Error: err}
		}
	}
	return workflow.StepResult{Advance: true}
}

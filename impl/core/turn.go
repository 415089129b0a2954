package core

import (
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"SafetyAgents/workflow/coshh"
	"context"
	"fmt"
	"log/slog"
)

// TurnResponse is what the transport returns for one turn.
type TurnResponse struct {
	Step           workflow.StepID    `json:"step"`
	CompletedSteps []workflow.StepID  `json:"completed_steps"`
	Messages       []workflow.Message `json:"messages"`
	AssessmentID   string             `json:"assessment_id,omitempty"`
	Completed      bool               `json:"completed"`
}

func session(user *entity.UserAuth, agent *entity.HiredAgent) workflow.Session {
	return workflow.Session{
		UserID:       user.UserID,
		CompanyID:    user.CompanyID,
		HiredAgentID: agent.ID,
		WorkflowID:   coshh.WorkflowID,
	}
}

// Turn runs one user turn of the COSHH workflow and returns the messages it produced.
func (c *Core) Turn(ctx context.Context, user *entity.UserAuth, turn *entity.HttpTurn) (*TurnResponse, error) {
	agent, err := c.checkHire(ctx, user, turn.HiredAgentID)
	if err != nil {
		return nil, err
	}

	doc, err := turn.DecodeDocument()
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	input := workflow.UserInput{
		Text:     turn.Message,
		Callback: turn.Callback,
		Document: doc,
	}

	transcript := &workflow.Transcript{}
	result, err := c.engine.HandleInput(ctx, session(user, agent), input, transcript)
	if err != nil {
		return nil, err
	}

	c.log.With(
		slog.String("user_id", user.UserID),
		slog.String("hired_agent_id", agent.ID),
		slog.String("step", string(result.Step)),
		slog.Int("messages", len(transcript.Messages)),
	).Debug("turn handled")

	messages := transcript.Messages
	if messages == nil {
		messages = []workflow.Message{}
	}
	return &TurnResponse{
		Step:           result.Step,
		CompletedSteps: result.CompletedSteps,
		Messages:       messages,
		AssessmentID:   result.ResultID,
		Completed:      result.Completed,
	}, nil
}

// State returns the in-progress workflow state of the user and hired agent.
func (c *Core) State(ctx context.Context, user *entity.UserAuth, hiredAgentID string) (*entity.WorkflowState, error) {
	agent, err := c.checkHire(ctx, user, hiredAgentID)
	if err != nil {
		return nil, err
	}
	state, err := c.engine.GetState(ctx, session(user, agent))
	if err != nil {
		return nil, err
	}
	return state, nil
}

// ResetState discards the in-progress workflow so the next turn starts over.
func (c *Core) ResetState(ctx context.Context, user *entity.UserAuth, hiredAgentID string) error {
	agent, err := c.checkHire(ctx, user, hiredAgentID)
	if err != nil {
		return err
	}
	return c.engine.Reset(ctx, session(user, agent))
}

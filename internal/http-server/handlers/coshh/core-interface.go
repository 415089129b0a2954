package coshh

import (
	"SafetyAgents/entity"
	"SafetyAgents/impl/core"
	"context"
)

type Core interface {
	Turn(ctx context.Context, user *entity.UserAuth, turn *entity.HttpTurn) (*core.TurnResponse, error)
	State(ctx context.Context, user *entity.UserAuth, hiredAgentID string) (*entity.WorkflowState, error)
	ResetState(ctx context.Context, user *entity.UserAuth, hiredAgentID string) error
}

package admin

import (
	"SafetyAgents/entity"
	"context"
)

type Core interface {
	HireAgent(ctx context.Context, admin *entity.UserAuth, agent entity.HiredAgent) (*entity.HiredAgent, error)
	ListHiredAgents(ctx context.Context, user *entity.UserAuth) ([]entity.HiredAgent, error)
	GenerateApiKey(ctx context.Context, admin *entity.UserAuth, user entity.UserAuth) (string, error)
}

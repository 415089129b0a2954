package core

import (
	"SafetyAgents/entity"
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// AuthenticateByToken resolves a bearer token. The configured service key
// authenticates as admin; other tokens are looked up as stored api keys.
func (c *Core) AuthenticateByToken(ctx context.Context, token string) (*entity.UserAuth, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	if c.authKey != "" && subtle.ConstantTimeCompare([]byte(token), []byte(c.authKey)) == 1 {
		return &entity.UserAuth{
			UserID:   "admin",
			Username: "admin",
			Role:     entity.AdminRole,
			Token:    token,
		}, nil
	}
	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}

	user, err := c.repo.CheckApiKey(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("check api key: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	if user.Role == "" {
		user.Role = entity.UserRole
	}
	return user, nil
}

// GenerateApiKey issues a key for another user. Only admins may do this.
func (c *Core) GenerateApiKey(ctx context.Context, admin *entity.UserAuth, user entity.UserAuth) (string, error) {
	if !admin.IsAdmin() {
		return "", ErrForbidden
	}
	if user.Role == "" {
		user.Role = entity.UserRole
	}
	key, err := c.repo.GenerateApiKey(ctx, user)
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}
	c.log.With(
		slog.String("user_id", user.UserID),
		slog.String("by", admin.Username),
	).Info("api key issued")
	return key, nil
}

// HireAgent creates or updates a hired agent. Only admins may do this.
func (c *Core) HireAgent(ctx context.Context, admin *entity.UserAuth, agent entity.HiredAgent) (*entity.HiredAgent, error) {
	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	if agent.AgentType == "" {
		agent.AgentType = entity.AgentTypeCoshh
	}
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = c.now()
	}
	if err := c.repo.UpsertHiredAgent(ctx, &agent); err != nil {
		return nil, fmt.Errorf("failed to hire agent: %w", err)
	}
	return &agent, nil
}

func (c *Core) ListHiredAgents(ctx context.Context, user *entity.UserAuth) ([]entity.HiredAgent, error) {
	agents, err := c.repo.ListHiredAgents(ctx, user.UserID, user.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hired agents: %w", err)
	}
	return agents, nil
}

// checkHire returns the hired agent when the user may use it.
func (c *Core) checkHire(ctx context.Context, user *entity.UserAuth, hiredAgentID string) (*entity.HiredAgent, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}
	agent, err := c.repo.GetHiredAgent(ctx, hiredAgentID)
	if err != nil {
		return nil, fmt.Errorf("get hired agent: %w", err)
	}
	if !agent.AllowedFor(user) || agent.AgentType != entity.AgentTypeCoshh {
		return nil, ErrNotHired
	}
	return agent, nil
}

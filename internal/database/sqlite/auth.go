package sqlite

import (
	"SafetyAgents/entity"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CheckApiKey(ctx context.Context, key string) (*entity.UserAuth, error) {
	var user entity.UserAuth
	var companyID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT key, user_id, username, company_id, role FROM api_keys WHERE key = ?`, key).
		Scan(&user.Token, &user.UserID, &user.Username, &companyID, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan api key row: %w", err)
	}
	user.CompanyID = companyID.String
	return &user, nil
}

// GenerateApiKey returns the user's existing key or stores a new one.
func (s *Store) GenerateApiKey(ctx context.Context, user entity.UserAuth) (string, error) {
	var key string
	err := s.db.QueryRowContext(ctx, `SELECT key FROM api_keys WHERE user_id = ?`, user.UserID).Scan(&key)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("read api key: %w", err)
	}

	key = uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO api_keys (key, user_id, username, company_id, role, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		key, user.UserID, user.Username, nullableString(user.CompanyID), user.Role, s.now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert api key: %w", err)
	}
	return key, nil
}

func (s *Store) UpsertHiredAgent(ctx context.Context, agent *entity.HiredAgent) error {
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO hired_agents (id, user_id, company_id, agent_type, active, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		user_id = excluded.user_id,
		company_id = excluded.company_id,
		agent_type = excluded.agent_type,
		active = excluded.active`,
		agent.ID, agent.UserID, nullableString(agent.CompanyID), agent.AgentType, agent.Active,
		agent.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert hired agent: %w", err)
	}
	return nil
}

func (s *Store) GetHiredAgent(ctx context.Context, id string) (*entity.HiredAgent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, company_id, agent_type, active, created_at FROM hired_agents WHERE id = ?`, id)
	agent, err := scanHiredAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return agent, err
}

func (s *Store) ListHiredAgents(ctx context.Context, userID, companyID string) ([]entity.HiredAgent, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, user_id, company_id, agent_type, active, created_at FROM hired_agents
	WHERE user_id = ? OR (company_id IS NOT NULL AND company_id = ?)
	ORDER BY created_at`, userID, companyID)
	if err != nil {
		return nil, fmt.Errorf("query hired agents: %w", err)
	}
	defer rows.Close()

	agents := make([]entity.HiredAgent, 0)
	for rows.Next() {
		agent, err := scanHiredAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *agent)
	}
	return agents, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHiredAgent(row scanner) (*entity.HiredAgent, error) {
	var agent entity.HiredAgent
	var companyID sql.NullString
	var createdAt int64
	err := row.Scan(&agent.ID, &agent.UserID, &companyID, &agent.AgentType, &agent.Active, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan hired agent row: %w", err)
	}
	agent.CompanyID = companyID.String
	agent.CreatedAt = time.Unix(createdAt, 0)
	return &agent, nil
}

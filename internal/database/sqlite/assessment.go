package sqlite

import (
	"SafetyAgents/entity"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) SaveAssessment(ctx context.Context, assessment *entity.Assessment) (string, error) {
	if assessment.ID == "" {
		assessment.ID = uuid.NewString()
	}
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = s.now()
	}
	data, err := json.Marshal(assessment)
	if err != nil {
		return "", fmt.Errorf("encode assessment: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO assessments (id, hired_agent_id, user_id, title, data, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		assessment.ID, assessment.HiredAgentID, assessment.UserID, assessment.Title,
		string(data), assessment.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("insert assessment: %w", err)
	}
	return assessment.ID, nil
}

func (s *Store) GetAssessment(ctx context.Context, id string) (*entity.Assessment, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM assessments WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan assessment row: %w", err)
	}

	var assessment entity.Assessment
	if err = json.Unmarshal([]byte(data), &assessment); err != nil {
		return nil, fmt.Errorf("decode assessment %s: %w", id, err)
	}
	return &assessment, nil
}

func (s *Store) ListAssessments(ctx context.Context, hiredAgentID string) ([]entity.Assessment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM assessments WHERE hired_agent_id = ? ORDER BY created_at DESC`, hiredAgentID)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	assessments := make([]entity.Assessment, 0)
	for rows.Next() {
		var data string
		if err = rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan assessment row: %w", err)
		}
		var a entity.Assessment
		if err = json.Unmarshal([]byte(data), &a); err != nil {
			return nil, fmt.Errorf("decode assessment: %w", err)
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

package core

import (
	"SafetyAgents/entity"
	"SafetyAgents/internal/lib/fileurl"
	"context"
	"fmt"
)

func (c *Core) ListAssessments(ctx context.Context, user *entity.UserAuth, hiredAgentID string) ([]entity.Assessment, error) {
	if _, err := c.checkHire(ctx, user, hiredAgentID); err != nil {
		return nil, err
	}
	assessments, err := c.repo.ListAssessments(ctx, hiredAgentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}

func (c *Core) GetAssessment(ctx context.Context, user *entity.UserAuth, id string) (*entity.Assessment, error) {
	assessment, err := c.loadAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err = c.checkHire(ctx, user, assessment.HiredAgentID); err != nil {
		return nil, err
	}
	return assessment, nil
}

// ExportURL returns a signed, expiring download link for an assessment.
func (c *Core) ExportURL(ctx context.Context, user *entity.UserAuth, id string) (string, error) {
	if c.filesSecret == "" {
		return "", fmt.Errorf("file signing secret is not set")
	}
	if _, err := c.GetAssessment(ctx, user, id); err != nil {
		return "", err
	}
	return fileurl.SignURL(id, c.filesSecret, c.urlTTL), nil
}

// ExportAssessment returns the assessment behind a signed download link.
func (c *Core) ExportAssessment(ctx context.Context, id, expires, sig string) (*entity.Assessment, error) {
	if c.filesSecret == "" || !fileurl.Verify(id, expires, sig, c.filesSecret) {
		return nil, ErrUnauthorized
	}
	return c.loadAssessment(ctx, id)
}

func (c *Core) loadAssessment(ctx context.Context, id string) (*entity.Assessment, error) {
	assessment, err := c.repo.GetAssessment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	if assessment == nil {
		return nil, ErrNotFound
	}
	return assessment, nil
}

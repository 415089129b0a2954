package assessment

import (
	"SafetyAgents/entity"
	"context"
)

type Core interface {
	ListAssessments(ctx context.Context, user *entity.UserAuth, hiredAgentID string) ([]entity.Assessment, error)
	GetAssessment(ctx context.Context, user *entity.UserAuth, id string) (*entity.Assessment, error)
	ExportURL(ctx context.Context, user *entity.UserAuth, id string) (string, error)
	ExportAssessment(ctx context.Context, id, expires, sig string) (*entity.Assessment, error)
}

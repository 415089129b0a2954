package core

import (
	"SafetyAgents/entity"
	"SafetyAgents/internal/lib/sl"
	"SafetyAgents/workflow"
	"context"
	"errors"
	"log/slog"
	"time"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotHired     = errors.New("agent is not hired by this user")
	ErrNotFound     = errors.New("not found")
)

type Repository interface {
	CheckApiKey(ctx context.Context, key string) (*entity.UserAuth, error)
	GenerateApiKey(ctx context.Context, user entity.UserAuth) (string, error)

	UpsertHiredAgent(ctx context.Context, agent *entity.HiredAgent) error
	GetHiredAgent(ctx context.Context, id string) (*entity.HiredAgent, error)
	ListHiredAgents(ctx context.Context, userID, companyID string) ([]entity.HiredAgent, error)

	GetAssessment(ctx context.Context, id string) (*entity.Assessment, error)
	ListAssessments(ctx context.Context, hiredAgentID string) ([]entity.Assessment, error)
}

// Engine runs conversational turns.
type Engine interface {
	HandleInput(ctx context.Context, s workflow.Session, input workflow.UserInput, m workflow.Messenger) (*workflow.TurnResult, error)
	GetState(ctx context.Context, s workflow.Session) (*entity.WorkflowState, error)
	Reset(ctx context.Context, s workflow.Session) error
}

type Catalog interface {
	SearchByKeyword(text string) []entity.ProcessGeneratedHazard
	All() []entity.ProcessGeneratedHazard
}

type Core struct {
	repo        Repository
	engine      Engine
	catalog     Catalog
	authKey     string
	filesSecret string
	urlTTL      time.Duration
	now         func() time.Time
	log         *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		urlTTL: 15 * time.Minute,
		now:    time.Now,
		log:    log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetEngine(engine Engine) {
	c.engine = engine
}

func (c *Core) SetCatalog(catalog Catalog) {
	c.catalog = catalog
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

// SetFiles configures signing of export download links.
func (c *Core) SetFiles(secret string, ttl time.Duration) {
	c.filesSecret = secret
	if ttl > 0 {
		c.urlTTL = ttl
	}
}

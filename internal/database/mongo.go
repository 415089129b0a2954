package repository

import (
	"SafetyAgents/entity"
	"SafetyAgents/internal/config"
	"SafetyAgents/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	apiKeysCollection     = "api-keys"
	hiredAgentsCollection = "hired-agents"
	assessmentsCollection = "assessments"
	statesCollection      = "workflow_states"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
	log           *slog.Logger
}

func NewMongoClient(conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
		log:           logger.With(sl.Module("mongodb")),
	}
	return client, nil
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find error: %w", err)
}

// EnsureIndexes creates the unique and TTL indexes the repository relies on.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	db := connection.Database(m.database)
	indexes := map[string][]mongo.IndexModel{
		apiKeysCollection: {
			{Keys: bson.D{{"key", 1}}, Options: options.Index().SetUnique(true)},
		},
		hiredAgentsCollection: {
			{Keys: bson.D{{"id", 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{"user_id", 1}}},
		},
		assessmentsCollection: {
			{Keys: bson.D{{"id", 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{"hired_agent_id", 1}, {"created_at", -1}}},
		},
		statesCollection: {
			{Keys: bson.D{{"expires_at", 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}
	for name, models := range indexes {
		if _, err = db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	m.log.Debug("indexes ensured")
	return nil
}

type apiKeyDocument struct {
	Key       string    `bson:"key"`
	UserID    string    `bson:"user_id"`
	Username  string    `bson:"username"`
	CompanyID string    `bson:"company_id,omitempty"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"created_at"`
}

// CheckApiKey returns the user owning key, or nil when the key is unknown.
func (m *MongoDB) CheckApiKey(ctx context.Context, key string) (*entity.UserAuth, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(apiKeysCollection)
	filter := bson.D{{"key", key}}

	var doc apiKeyDocument
	err = collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, m.findError(err)
	}

	return &entity.UserAuth{
		UserID:    doc.UserID,
		Username:  doc.Username,
		CompanyID: doc.CompanyID,
		Role:      doc.Role,
		Token:     doc.Key,
	}, nil
}

func (m *MongoDB) getKeyByUser(ctx context.Context, userID string) (string, error) {
	connection, err := m.connect()
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(apiKeysCollection)
	filter := bson.D{{"user_id", userID}}

	var doc apiKeyDocument
	err = collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return "", m.findError(err)
	}

	return doc.Key, nil
}

// GenerateApiKey returns the existing key of the user or issues a new one.
func (m *MongoDB) GenerateApiKey(ctx context.Context, user entity.UserAuth) (string, error) {
	k, err := m.getKeyByUser(ctx, user.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to get existing API key: %w", err)
	}
	if k != "" {
		return k, nil
	}

	connection, err := m.connect()
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(apiKeysCollection)
	doc := apiKeyDocument{
		Key:       uuid.NewString(),
		UserID:    user.UserID,
		Username:  user.Username,
		CompanyID: user.CompanyID,
		Role:      user.Role,
		CreatedAt: time.Now(),
	}

	_, err = collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("mongodb insert error: %w", err)
	}

	return doc.Key, nil
}

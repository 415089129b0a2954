package repository

import (
	"SafetyAgents/entity"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveAssessment inserts a completed assessment and returns its id.
func (m *MongoDB) SaveAssessment(ctx context.Context, assessment *entity.Assessment) (string, error) {
	connection, err := m.connect()
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	if assessment.ID == "" {
		assessment.ID = uuid.NewString()
	}
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now()
	}

	collection := connection.Database(m.database).Collection(assessmentsCollection)
	_, err = collection.InsertOne(ctx, assessment)
	if err != nil {
		return "", fmt.Errorf("mongodb insert error: %w", err)
	}
	return assessment.ID, nil
}

func (m *MongoDB) GetAssessment(ctx context.Context, id string) (*entity.Assessment, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(assessmentsCollection)

	var assessment entity.Assessment
	err = collection.FindOne(ctx, bson.D{{"id", id}}).Decode(&assessment)
	if err != nil {
		return nil, m.findError(err)
	}
	return &assessment, nil
}

// ListAssessments returns the assessments of a hired agent, newest first.
func (m *MongoDB) ListAssessments(ctx context.Context, hiredAgentID string) ([]entity.Assessment, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(assessmentsCollection)
	opts := options.Find().SetSort(bson.D{{"created_at", -1}})

	cursor, err := collection.Find(ctx, bson.D{{"hired_agent_id", hiredAgentID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	assessments := make([]entity.Assessment, 0)
	if err = cursor.All(ctx, &assessments); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return assessments, nil
}

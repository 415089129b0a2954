package repository

import (
	"SafetyAgents/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) UpsertHiredAgent(ctx context.Context, agent *entity.HiredAgent) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(hiredAgentsCollection)
	filter := bson.D{{"id", agent.ID}}
	update := bson.D{{"$set", agent}}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}

func (m *MongoDB) GetHiredAgent(ctx context.Context, id string) (*entity.HiredAgent, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(hiredAgentsCollection)

	var agent entity.HiredAgent
	err = collection.FindOne(ctx, bson.D{{"id", id}}).Decode(&agent)
	if err != nil {
		return nil, m.findError(err)
	}
	return &agent, nil
}

// ListHiredAgents returns agents hired by the user or by the user's company.
func (m *MongoDB) ListHiredAgents(ctx context.Context, userID, companyID string) ([]entity.HiredAgent, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(hiredAgentsCollection)
	or := bson.A{bson.D{{"user_id", userID}}}
	if companyID != "" {
		or = append(or, bson.D{{"company_id", companyID}})
	}

	cursor, err := collection.Find(ctx, bson.D{{"$or", or}})
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	agents := make([]entity.HiredAgent, 0)
	if err = cursor.All(ctx, &agents); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return agents, nil
}

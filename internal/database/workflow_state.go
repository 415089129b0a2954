package repository

import (
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stateDocument struct {
	Key       string               `bson:"_id"`
	State     entity.WorkflowState `bson:"state"`
	Version   int64                `bson:"version"`
	ExpiresAt *time.Time           `bson:"expires_at,omitempty"`
}

// StateStore keeps workflow states in the workflow_states collection.
// Expired documents are hidden on read and removed by the expires_at TTL index.
type StateStore struct {
	m *MongoDB
}

func (m *MongoDB) States() *StateStore {
	return &StateStore{m: m}
}

func (s *StateStore) Get(ctx context.Context, key string) (*entity.WorkflowState, error) {
	connection, err := s.m.connect()
	if err != nil {
		return nil, err
	}
	defer s.m.disconnect(connection)

	collection := connection.Database(s.m.database).Collection(statesCollection)
	filter := bson.D{
		{"_id", key},
		{"$or", bson.A{
			bson.D{{"expires_at", bson.D{{"$exists", false}}}},
			bson.D{{"expires_at", bson.D{{"$gt", time.Now()}}}},
		}},
	}

	var doc stateDocument
	err = collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, s.m.findError(err)
	}

	doc.State.Version = doc.Version
	return &doc.State, nil
}

func (s *StateStore) Put(ctx context.Context, key string, state *entity.WorkflowState, ttl time.Duration) error {
	connection, err := s.m.connect()
	if err != nil {
		return err
	}
	defer s.m.disconnect(connection)

	collection := connection.Database(s.m.database).Collection(statesCollection)

	current := state.Version
	next := current + 1
	doc := stateDocument{Key: key, Version: next}
	if ttl > 0 {
		expires := time.Now().Add(ttl)
		doc.ExpiresAt = &expires
	}
	state.Version = next
	doc.State = *state

	// a fresh state may replace an expired document the TTL monitor has not removed yet
	filter := bson.D{{"_id", key}, {"version", current}}
	if current == 0 {
		filter = bson.D{{"_id", key}, {"expires_at", bson.D{{"$lte", time.Now()}}}}
	}

	res, err := collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(current == 0))
	if err != nil {
		state.Version = current
		if mongo.IsDuplicateKeyError(err) {
			return workflow.ErrStateConflict
		}
		return fmt.Errorf("mongodb replace error: %w", err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		state.Version = current
		return workflow.ErrStateConflict
	}
	return nil
}

func (s *StateStore) Delete(ctx context.Context, key string) error {
	connection, err := s.m.connect()
	if err != nil {
		return err
	}
	defer s.m.disconnect(connection)

	collection := connection.Database(s.m.database).Collection(statesCollection)
	_, err = collection.DeleteOne(ctx, bson.D{{"_id", key}})
	return err
}

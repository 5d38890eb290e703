package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionsCollection holds session documents. A TTL index on expiresAt
// removes them after expiry.
const SessionsCollection = "sessions"

type sessionDocument struct {
	ID        string    `bson:"_id"`
	Identity  Identity  `bson:"identity"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoStore keeps sessions in MongoDB so they survive restarts.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a MongoStore over db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(SessionsCollection)}
}

func (s *MongoStore) Save(ctx context.Context, sid string, identity Identity, expiresAt time.Time) error {
	doc := sessionDocument{ID: sid, Identity: identity, ExpiresAt: expiresAt.UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sid}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, sid string) (Identity, error) {
	var doc sessionDocument
	filter := bson.M{"_id": sid, "expiresAt": bson.M{"$gt": time.Now().UTC()}}
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Identity{}, ErrSessionNotFound
		}
		return Identity{}, fmt.Errorf("failed to load session: %w", err)
	}
	return doc.Identity, nil
}

func (s *MongoStore) Delete(ctx context.Context, sid string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": sid}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

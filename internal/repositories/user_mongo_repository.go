package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ratlist/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UsersCollection is the collection holding user documents.
const UsersCollection = "users"

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ProviderID   string             `bson:"id,omitempty"`
	Username     string             `bson:"username"`
	FirstName    string             `bson:"firstName,omitempty"`
	LastName     string             `bson:"lastName,omitempty"`
	PasswordHash string             `bson:"hash,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func (d userDocument) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		ProviderID:   d.ProviderID,
		Username:     d.Username,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

// MongoUserRepository stores users in a MongoDB collection with a unique
// index on username.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new instance of MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(UsersCollection)}
}

// Create inserts a new user document.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	doc := userDocument{
		ID:           primitive.NewObjectID(),
		ProviderID:   user.ProviderID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", user.Username, ErrDuplicateUsername)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

// GetByUsername retrieves a user by username.
func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user with username %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return doc.toModel(), nil
}

// FindOrCreate upserts with $setOnInsert so an existing document is never
// modified. A duplicate key error means a concurrent upsert won the insert.
func (r *MongoUserRepository) FindOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error) {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	onInsert := bson.M{"createdAt": createdAt}
	if user.ProviderID != "" {
		onInsert["id"] = user.ProviderID
	}
	if user.FirstName != "" {
		onInsert["firstName"] = user.FirstName
	}
	if user.LastName != "" {
		onInsert["lastName"] = user.LastName
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": user.Username},
		bson.M{"$setOnInsert": onInsert},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("failed to upsert user %s: %w", user.Username, err)
	}
	if err == nil && res.UpsertedCount == 1 {
		created := *user
		created.CreatedAt = createdAt
		if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
			created.ID = oid.Hex()
		}
		return &created, true, nil
	}

	stored, err := r.GetByUsername(ctx, user.Username)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

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

// TasksCollection is the collection holding task documents.
const TasksCollection = "tasks"

type taskDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	Text       string             `bson:"task"`
	Completion string             `bson:"completion"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (d taskDocument) toModel() models.Task {
	return models.Task{
		ID:         d.ID.Hex(),
		Username:   d.Username,
		Text:       d.Text,
		Completion: models.TaskStatus(d.Completion),
		CreatedAt:  d.CreatedAt,
	}
}

// MongoTaskRepository stores tasks in a MongoDB collection.
type MongoTaskRepository struct {
	coll *mongo.Collection
}

// NewMongoTaskRepository creates a new instance of MongoTaskRepository.
func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{coll: db.Collection(TasksCollection)}
}

// List returns the tasks matching filter in natural order.
func (r *MongoTaskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query := bson.M{"username": filter.Username}
	if filter.Status != nil {
		query["completion"] = string(*filter.Status)
	}

	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for %s: %w", filter.Username, err)
	}
	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode tasks for %s: %w", filter.Username, err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, doc.toModel())
	}
	return tasks, nil
}

// Create inserts a new task document.
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.Completion == "" {
		task.Completion = models.StatusIncomplete
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	doc := taskDocument{
		ID:         primitive.NewObjectID(),
		Username:   task.Username,
		Text:       task.Text,
		Completion: string(task.Completion),
		CreatedAt:  task.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = doc.ID.Hex()
	return nil
}

// Delete removes a task by id.
func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// ToggleCompletion flips the status with an update pipeline so the read and
// write happen in one findAndModify.
func (r *MongoTaskRepository) ToggleCompletion(ctx context.Context, id string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
	}

	flip := bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$completion", string(models.StatusFinished)}}},
		string(models.StatusIncomplete),
		string(models.StatusFinished),
	}}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "completion", Value: flip}}}},
	}

	var doc taskDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to toggle task %s: %w", id, err)
	}
	task := doc.toModel()
	return &task, nil
}

package repositories

import (
	"context"

	"ratlist/internal/models"
)

// TaskRepository defines the interface for task data access.
type TaskRepository interface {
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	// ToggleCompletion flips the completion status in one store operation and
	// returns the updated task.
	ToggleCompletion(ctx context.Context, id string) (*models.Task, error)
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"ratlist/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTaskRepository is a GORM implementation of TaskRepository.
type GORMTaskRepository struct {
	db *gorm.DB
}

// NewGORMTaskRepository creates a new instance of GORMTaskRepository.
func NewGORMTaskRepository(db *gorm.DB) *GORMTaskRepository {
	return &GORMTaskRepository{
		db: db,
	}
}

// List retrieves the tasks matching filter.
func (r *GORMTaskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query := r.db.WithContext(ctx).Where("username = ?", filter.Username)
	if filter.Status != nil {
		query = query.Where("completion = ?", string(*filter.Status))
	}

	tasks := []models.Task{}
	if err := query.Order("created_at").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks for %s: %w", filter.Username, err)
	}
	return tasks, nil
}

// Create creates a new task in the database.
func (r *GORMTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Completion == "" {
		task.Completion = models.StatusIncomplete
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Delete deletes a task by its ID from the database.
func (r *GORMTaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// ToggleCompletion flips the status with a single conditional UPDATE.
func (r *GORMTaskRepository) ToggleCompletion(ctx context.Context, id string) (*models.Task, error) {
	flip := gorm.Expr("CASE WHEN completion = ? THEN ? ELSE ? END",
		string(models.StatusFinished), string(models.StatusIncomplete), string(models.StatusFinished))

	res := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Update("completion", flip)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to toggle task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
	}

	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to reload task %s: %w", id, err)
	}
	return &task, nil
}

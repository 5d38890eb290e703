package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ratlist/internal/models"

	"github.com/google/uuid"
)

// MemoryTaskRepository is an in-memory implementation of TaskRepository.
// Tasks are listed in insertion order.
type MemoryTaskRepository struct {
	tasks map[string]models.Task
	order []string
	mu    sync.RWMutex
}

// NewMemoryTaskRepository creates a new instance of MemoryTaskRepository.
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[string]models.Task),
	}
}

// List returns the tasks matching filter.
func (r *MemoryTaskRepository) List(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	taskList := make([]models.Task, 0)
	for _, id := range r.order {
		task := r.tasks[id]
		if task.Username != filter.Username {
			continue
		}
		if filter.Status != nil && task.Completion != *filter.Status {
			continue
		}
		taskList = append(taskList, task)
	}
	return taskList, nil
}

// Create adds a new task.
func (r *MemoryTaskRepository) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Completion == "" {
		task.Completion = models.StatusIncomplete
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	r.tasks[task.ID] = *task
	r.order = append(r.order, task.ID)
	return nil
}

// Delete removes a task by its ID.
func (r *MemoryTaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
	}
	delete(r.tasks, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ToggleCompletion flips the status of a task.
func (r *MemoryTaskRepository) ToggleCompletion(_ context.Context, id string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task with ID %s: %w", id, ErrNotFound)
	}
	task.Completion = task.Completion.Toggled()
	r.tasks[id] = task
	return &task, nil
}

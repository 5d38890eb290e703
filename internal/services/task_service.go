package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ratlist/internal/models"
	"ratlist/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// EventPublisher publishes task change events.
type EventPublisher interface {
	PublishTaskEvent(event models.TaskEvent) error
}

// TaskService handles business logic related to tasks.
type TaskService struct {
	repo      repositories.TaskRepository
	publisher EventPublisher
	validate  *validator.Validate
}

// NewTaskService creates a new TaskService. publisher may be nil.
func NewTaskService(repo repositories.TaskRepository, publisher EventPublisher) *TaskService {
	return &TaskService{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
	}
}

// ListTasks returns the user's tasks, optionally restricted to one status.
// Each call builds a fresh slice.
func (s *TaskService) ListTasks(ctx context.Context, username string, status *models.TaskStatus) ([]models.Task, error) {
	return s.repo.List(ctx, models.TaskFilter{Username: username, Status: status})
}

// AddTask creates an incomplete task owned by username.
func (s *TaskService) AddTask(ctx context.Context, username, text string) (*models.Task, error) {
	task := &models.Task{
		Username:   username,
		Text:       strings.TrimSpace(text),
		Completion: models.StatusIncomplete,
	}
	if err := s.validate.Struct(task); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publish(models.TaskEvent{Type: models.TaskCreated, TaskID: task.ID, Username: task.Username, Completion: task.Completion})
	return task, nil
}

// DeleteTask removes a task by id. Ownership is not checked.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(models.TaskEvent{Type: models.TaskDeleted, TaskID: id})
	return nil
}

// ToggleTask flips a task between incomplete and finished. Ownership is not checked.
func (s *TaskService) ToggleTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.repo.ToggleCompletion(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(models.TaskEvent{Type: models.TaskToggled, TaskID: task.ID, Username: task.Username, Completion: task.Completion})
	return task, nil
}

func (s *TaskService) publish(event models.TaskEvent) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.PublishTaskEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for task %s: %v", event.Type, event.TaskID, err)
	}
}

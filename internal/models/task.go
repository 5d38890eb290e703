package models

import (
	"fmt"
	"time"
)

// TaskStatus is the two-valued completion state of a task.
type TaskStatus string

const (
	StatusIncomplete TaskStatus = "incomplete"
	StatusFinished   TaskStatus = "finished"
)

// Toggled returns the opposite status.
func (s TaskStatus) Toggled() TaskStatus {
	if s == StatusFinished {
		return StatusIncomplete
	}
	return StatusFinished
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s == StatusIncomplete || s == StatusFinished
}

// ParseTaskStatus converts a raw string into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid task status: %q", raw)
	}
	return s, nil
}

// Task represents one to-do item owned by a user, referenced by username.
type Task struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username   string     `json:"username" gorm:"index;type:varchar(255);not null" validate:"required"`
	Text       string     `json:"task" gorm:"column:task;type:text;not null" validate:"required,max=500"`
	Completion TaskStatus `json:"completion" gorm:"type:varchar(16);not null;default:incomplete" validate:"required,oneof=incomplete finished"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Finished reports whether the task is completed.
func (t *Task) Finished() bool {
	return t.Completion == StatusFinished
}

// TaskFilter selects tasks for listing. A nil Status matches every task.
type TaskFilter struct {
	Username string
	Status   *TaskStatus
}

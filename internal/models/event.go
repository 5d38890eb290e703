package models

import "time"

// Task event types published to the message broker.
const (
	TaskCreated = "task.created"
	TaskDeleted = "task.deleted"
	TaskToggled = "task.toggled"
)

// TaskEvent describes a change to a task.
type TaskEvent struct {
	Type       string     `json:"type"`
	TaskID     string     `json:"task_id"`
	Username   string     `json:"username,omitempty"`
	Completion TaskStatus `json:"completion,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

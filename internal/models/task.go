package models

import (
	"time"

	"github.com/google/uuid"
)

// Task status constants
const (
	StatusTodo  = "todo"
	StatusDoing = "doing"
	StatusDone  = "done"
)

// Task priority levels. Higher is more urgent.
const (
	PriorityLow    = 1
	PriorityNormal = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

// TaskList is an ordered column of tasks within a workspace.
type TaskList struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Task is a unit of work. Position orders tasks within their list; the
// reorder operation keeps positions dense starting at zero.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	ListID      uuid.UUID  `json:"list_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    int        `json:"priority"`
	Position    int        `json:"position"`
	Labels      []string   `json:"labels"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	CreatedBy   *uuid.UUID `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsDone returns true once the task is completed.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

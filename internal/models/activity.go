package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity event kinds
const (
	EventTaskCreated   = "task_created"
	EventTaskMoved     = "task_moved"
	EventTaskUpdated   = "task_updated"
	EventTaskCompleted = "task_completed"
	EventTaskAssigned  = "task_assigned"
	EventListCreated   = "list_created"
)

// ActivityEvent records something that happened in a workspace. Priority
// mirrors the priority of the task involved so notification preferences can
// filter on it.
type ActivityEvent struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	ActorID     uuid.UUID  `json:"actor_id"`
	Kind        string     `json:"kind"`
	TaskID      *uuid.UUID `json:"task_id"`
	ListID      *uuid.UUID `json:"list_id"`
	Detail      string     `json:"detail"`
	Priority    int        `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
}

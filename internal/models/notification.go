package models

import (
	"time"

	"github.com/google/uuid"
)

// PrefKindAll matches every event kind in a notification preference.
const PrefKindAll = "all"

// Notification is an in-app notification delivered to one user for one
// activity event.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	EventID   uuid.UUID  `json:"event_id"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`

	// Populated on list queries for rendering without extra lookups.
	Event *ActivityEvent `json:"event,omitempty"`
}

// NotificationPreference is one delivery rule. A nil WorkspaceID applies to
// every workspace; a workspace-specific rule overrides the global one for
// the same kind.
type NotificationPreference struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	WorkspaceID *uuid.UUID `json:"workspace_id"`
	Kind        string     `json:"kind"`
	Muted       bool       `json:"muted"`
	MinPriority int        `json:"min_priority"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is the top-level container for task lists, tasks, and activity.
type Workspace struct {
	ID        uuid.UUID  `json:"id"`
	Slug      string     `json:"slug"`
	Name      string     `json:"name"`
	CreatedBy *uuid.UUID `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

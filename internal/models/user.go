package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership role constants
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User represents an account. Identity is established upstream by the
// fronting proxy; taskhub only stores the profile.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkspaceMember ties a user to a workspace with a role.
type WorkspaceMember struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	AddedAt     time.Time `json:"added_at"`
}

// IsAdmin returns true if the member can administer the workspace.
func (m *WorkspaceMember) IsAdmin() bool {
	return m.Role == RoleAdmin
}

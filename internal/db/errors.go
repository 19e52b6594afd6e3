package db

import "errors"

// Domain-level database error sentinels.
var (
	// User errors
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateHandle = errors.New("handle already taken")

	// Workspace errors
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrDuplicateSlug     = errors.New("workspace slug already exists")
	ErrNotAMember        = errors.New("user is not a member of this workspace")

	// Task list errors
	ErrListNotFound      = errors.New("task list not found")
	ErrDuplicateListName = errors.New("a list with this name already exists in the workspace")

	// Task errors
	ErrTaskNotFound       = errors.New("task not found")
	ErrListNotInWorkspace = errors.New("target list belongs to a different workspace")

	// Activity errors
	ErrEventNotFound = errors.New("activity event not found")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPreferenceNotFound   = errors.New("notification preference not found")
)

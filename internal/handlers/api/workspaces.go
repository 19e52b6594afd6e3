package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/models"
	"taskhub/internal/validation"
)

// WorkspaceHandler handles workspace CRUD and membership via JSON API.
type WorkspaceHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewWorkspaceHandler creates a new workspace handler.
func NewWorkspaceHandler(database *db.DB, cfg *config.Config) *WorkspaceHandler {
	return &WorkspaceHandler{db: database, cfg: cfg}
}

// List returns the caller's workspaces.
func (h *WorkspaceHandler) List(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	workspaces, err := h.db.ListWorkspacesForUser(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch workspaces")
	}
	return jsonSuccess(c, workspaces)
}

// Create creates a workspace with the caller as admin.
func (h *WorkspaceHandler) Create(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if !validation.ValidateSlug(body.Slug) {
		return jsonError(c, fiber.StatusBadRequest, "slug must be lowercase alphanumeric with hyphens")
	}
	if valid, msg := validation.ValidateTitle(body.Name); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	ws := &models.Workspace{
		Slug:      body.Slug,
		Name:      body.Name,
		CreatedBy: &user.ID,
	}
	if err := h.db.CreateWorkspace(c.Context(), ws); err != nil {
		if errors.Is(err, db.ErrDuplicateSlug) {
			return jsonError(c, fiber.StatusConflict, "a workspace with this slug already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create workspace")
	}
	return jsonSuccess(c, ws)
}

// Get returns one workspace the caller belongs to.
func (h *WorkspaceHandler) Get(c fiber.Ctx) error {
	ws, _, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}
	return jsonSuccess(c, ws)
}

// Members returns a workspace's member list.
func (h *WorkspaceHandler) Members(c fiber.Ctx) error {
	ws, _, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	members, err := h.db.ListMembers(c.Context(), ws.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch members")
	}
	return jsonSuccess(c, members)
}

// AddMember adds a user to the workspace. Admin only.
func (h *WorkspaceHandler) AddMember(c fiber.Ctx) error {
	ws, member, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}
	if !member.IsAdmin() {
		return jsonError(c, fiber.StatusForbidden, "workspace admin access required")
	}

	var body struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	role := body.Role
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleMember && role != models.RoleAdmin {
		return jsonError(c, fiber.StatusBadRequest, "invalid role")
	}

	if _, err := h.db.GetUserByID(c.Context(), userID); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch user")
	}

	if err := h.db.AddMember(c.Context(), ws.ID, userID, role); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to add member")
	}
	return jsonSuccess(c, fiber.Map{"workspace_id": ws.ID, "user_id": userID, "role": role})
}

// RemoveMember removes a user from the workspace. Admin only.
func (h *WorkspaceHandler) RemoveMember(c fiber.Ctx) error {
	ws, member, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}
	if !member.IsAdmin() {
		return jsonError(c, fiber.StatusForbidden, "workspace admin access required")
	}

	userID, err := uuid.Parse(c.Params("userID"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.db.RemoveMember(c.Context(), ws.ID, userID); err != nil {
		if errors.Is(err, db.ErrNotAMember) {
			return jsonError(c, fiber.StatusNotFound, "member not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to remove member")
	}
	return jsonSuccess(c, fiber.Map{"removed": userID})
}

package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"taskhub/internal/db"
	"taskhub/internal/models"
	"taskhub/internal/validation"
)

// PreferenceHandler manages the caller's notification delivery rules.
type PreferenceHandler struct {
	db *db.DB
}

// NewPreferenceHandler creates a new preference handler.
func NewPreferenceHandler(database *db.DB) *PreferenceHandler {
	return &PreferenceHandler{db: database}
}

// List returns all of the caller's notification preferences.
func (h *PreferenceHandler) List(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	prefs, err := h.db.ListPreferencesForUser(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch preferences")
	}
	if prefs == nil {
		prefs = []models.NotificationPreference{}
	}
	return jsonSuccess(c, prefs)
}

// Upsert creates or replaces one delivery rule. An empty workspace_id makes
// the rule global.
func (h *PreferenceHandler) Upsert(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		WorkspaceID string `json:"workspace_id"`
		Kind        string `json:"kind"`
		Muted       bool   `json:"muted"`
		MinPriority int    `json:"min_priority"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Kind == "" {
		body.Kind = models.PrefKindAll
	}
	if !validation.ValidEventKind(body.Kind) {
		return jsonError(c, fiber.StatusBadRequest, "invalid event kind")
	}
	if body.MinPriority != 0 && !validation.ValidPriority(body.MinPriority) {
		return jsonError(c, fiber.StatusBadRequest, "invalid minimum priority")
	}

	pref := &models.NotificationPreference{
		UserID:      user.ID,
		Kind:        body.Kind,
		Muted:       body.Muted,
		MinPriority: body.MinPriority,
	}
	if body.WorkspaceID != "" {
		workspaceID, err := uuid.Parse(body.WorkspaceID)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid workspace id")
		}
		if _, err := h.db.GetWorkspaceByID(c.Context(), workspaceID); err != nil {
			if errors.Is(err, db.ErrWorkspaceNotFound) {
				return jsonError(c, fiber.StatusNotFound, "workspace not found")
			}
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch workspace")
		}
		pref.WorkspaceID = &workspaceID
	}

	if err := h.db.UpsertPreference(c.Context(), pref); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save preference")
	}
	return jsonSuccess(c, pref)
}

// Delete removes one of the caller's delivery rules.
func (h *PreferenceHandler) Delete(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid preference id")
	}

	if err := h.db.DeletePreference(c.Context(), id, user.ID); err != nil {
		if errors.Is(err, db.ErrPreferenceNotFound) {
			return jsonError(c, fiber.StatusNotFound, "preference not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete preference")
	}
	return jsonSuccess(c, fiber.Map{"deleted": id})
}

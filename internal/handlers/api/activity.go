package api

import (
	"github.com/gofiber/fiber/v3"

	"taskhub/internal/db"
	"taskhub/internal/models"
	"taskhub/internal/validation"
)

// ActivityHandler serves the workspace activity feed.
type ActivityHandler struct {
	db *db.DB
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(database *db.DB) *ActivityHandler {
	return &ActivityHandler{db: database}
}

// Feed returns a page of the workspace's activity events, newest first.
func (h *ActivityHandler) Feed(c fiber.Ctx) error {
	ws, _, errResp := resolveMembership(c, h.db)
	if errResp != nil {
		return errResp
	}

	limit := validation.ClampLimit(fiber.Query(c, "limit", 0), 50, 200)
	offset := fiber.Query(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	events, err := h.db.ListEvents(c.Context(), ws.ID, limit, offset)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch activity")
	}
	if events == nil {
		events = []models.ActivityEvent{}
	}

	return jsonSuccess(c, fiber.Map{
		"events": events,
		"limit":  limit,
		"offset": offset,
	})
}

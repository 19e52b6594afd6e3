package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"taskhub/internal/db"
	"taskhub/internal/models"
	"taskhub/internal/validation"
)

// NotificationHandler serves the caller's notification inbox.
type NotificationHandler struct {
	db *db.DB
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(database *db.DB) *NotificationHandler {
	return &NotificationHandler{db: database}
}

// List returns the caller's notifications, newest first. Pass unread=true to
// restrict to unread ones.
func (h *NotificationHandler) List(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	unreadOnly := c.Query("unread") == "true"
	limit := validation.ClampLimit(fiber.Query(c, "limit", 0), 50, 200)

	notifications, err := h.db.ListNotifications(c.Context(), user.ID, unreadOnly, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch notifications")
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return jsonSuccess(c, notifications)
}

// UnreadCount returns how many unread notifications the caller has.
func (h *NotificationHandler) UnreadCount(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	count, err := h.db.CountUnreadNotifications(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to count notifications")
	}
	return jsonSuccess(c, fiber.Map{"unread": count})
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	if err := h.db.MarkNotificationRead(c.Context(), id, user.ID); err != nil {
		if errors.Is(err, db.ErrNotificationNotFound) {
			return jsonError(c, fiber.StatusNotFound, "notification not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to mark notification read")
	}
	return jsonSuccess(c, fiber.Map{"read": id})
}

// MarkAllRead marks all the caller's notifications as read.
func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.db.MarkAllNotificationsRead(c.Context(), user.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to mark notifications read")
	}
	return jsonSuccess(c, fiber.Map{"read": "all"})
}

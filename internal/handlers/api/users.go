package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"

	"taskhub/internal/db"
	"taskhub/internal/models"
	"taskhub/internal/validation"
)

// UserHandler manages user profiles. Registration is open because identity
// is asserted by the fronting proxy; the profile record just has to exist
// before the forwarded ID resolves.
type UserHandler struct {
	db *db.DB
}

// NewUserHandler creates a new user handler.
func NewUserHandler(database *db.DB) *UserHandler {
	return &UserHandler{db: database}
}

// Register creates a user profile.
func (h *UserHandler) Register(c fiber.Ctx) error {
	var body struct {
		Email  string `json:"email"`
		Name   string `json:"name"`
		Handle string `json:"handle"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if !validation.ValidateHandle(body.Handle) {
		return jsonError(c, fiber.StatusBadRequest, "handle must be alphanumeric with hyphens or underscores")
	}
	if body.Email == "" {
		return jsonError(c, fiber.StatusBadRequest, "email is required")
	}
	if body.Name == "" {
		body.Name = body.Handle
	}

	user := &models.User{Email: body.Email, Name: body.Name, Handle: body.Handle}
	if err := h.db.CreateUser(c.Context(), user); err != nil {
		if errors.Is(err, db.ErrDuplicateHandle) {
			return jsonError(c, fiber.StatusConflict, "handle or email already taken")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create user")
	}
	return jsonSuccess(c, user)
}

// Me returns the caller's profile.
func (h *UserHandler) Me(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return jsonSuccess(c, user)
}

// UpdateMe updates the caller's name and email.
func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Email *string `json:"email"`
		Name  *string `json:"name"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Email != nil {
		if *body.Email == "" {
			return jsonError(c, fiber.StatusBadRequest, "email is required")
		}
		user.Email = *body.Email
	}
	if body.Name != nil {
		if *body.Name == "" {
			return jsonError(c, fiber.StatusBadRequest, "name is required")
		}
		user.Name = *body.Name
	}

	if err := h.db.UpdateUserProfile(c.Context(), user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update profile")
	}
	return jsonSuccess(c, user)
}

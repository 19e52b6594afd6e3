// Package api implements the JSON REST surface. Handlers are thin: they
// validate input, call the db layer, and wrap results in the response
// envelope. The suggestion engine is consumed through its public operations
// only.
package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"taskhub/internal/db"
	"taskhub/internal/models"
)

// currentUser returns the identity resolved by the middleware.
func currentUser(c fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok
}

// resolveMembership loads the workspace named by the :slug param and the
// caller's membership in it. A nil error response means both are valid.
func resolveMembership(c fiber.Ctx, database *db.DB) (*models.Workspace, *models.WorkspaceMember, error) {
	user, ok := currentUser(c)
	if !ok {
		return nil, nil, jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	ws, err := database.GetWorkspaceBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, db.ErrWorkspaceNotFound) {
			return nil, nil, jsonError(c, fiber.StatusNotFound, "workspace not found")
		}
		return nil, nil, jsonError(c, fiber.StatusInternalServerError, "failed to fetch workspace")
	}

	member, err := database.GetMember(c.Context(), ws.ID, user.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotAMember) {
			return nil, nil, jsonError(c, fiber.StatusForbidden, "you are not a member of this workspace")
		}
		return nil, nil, jsonError(c, fiber.StatusInternalServerError, "failed to check membership")
	}

	return ws, member, nil
}

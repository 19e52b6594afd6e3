package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"taskhub/internal/config"
	"taskhub/internal/db"
)

// IdentityMiddleware resolves the authenticated user from the trusted header
// set by the fronting proxy. Authentication itself happens upstream; taskhub
// only maps the forwarded ID to a stored profile.
type IdentityMiddleware struct {
	db  *db.DB
	cfg *config.Config
}

// NewIdentityMiddleware creates a new identity middleware instance.
func NewIdentityMiddleware(database *db.DB, cfg *config.Config) *IdentityMiddleware {
	return &IdentityMiddleware{db: database, cfg: cfg}
}

// RequireIdentity ensures the request carries a resolvable user ID.
func (m *IdentityMiddleware) RequireIdentity(c fiber.Ctx) error {
	raw := c.Get(m.cfg.UserIDHeader)
	if raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "missing " + m.cfg.UserIDHeader + " header",
		})
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "invalid user id",
		})
	}

	user, err := m.db.GetUserByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "unknown user",
		})
	}

	c.Locals("user", user)
	return c.Next()
}

// OptionalIdentity loads the user if the header is present, but doesn't
// require it.
func (m *IdentityMiddleware) OptionalIdentity(c fiber.Ctx) error {
	raw := c.Get(m.cfg.UserIDHeader)
	if raw == "" {
		return c.Next()
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return c.Next()
	}

	if user, err := m.db.GetUserByID(c.Context(), userID); err == nil {
		c.Locals("user", user)
	}
	return c.Next()
}

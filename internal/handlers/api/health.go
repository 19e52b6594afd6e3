package api

import (
	"github.com/gofiber/fiber/v3"

	"taskhub/internal/db"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	db *db.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(database *db.DB) *HealthHandler {
	return &HealthHandler{db: database}
}

// Live reports that the process is up.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return jsonSuccess(c, fiber.Map{"alive": true})
}

// Ready reports whether the database is reachable.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	if err := h.db.Pool.Ping(c.Context()); err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "database unreachable")
	}
	return jsonSuccess(c, fiber.Map{"ready": true})
}

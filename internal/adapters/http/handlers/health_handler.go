package handlers

import (
	"nirman-fieldworks/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root handles the root endpoint. The mobile app's connection test hits
// this with a plain GET, so it must answer without auth.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 Nirman Fieldworks API is running",
		"mode":    config.AppConfig.AppMode,
	})
}

// HealthCheck checks API and database health
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "down"
	}

	status := fiber.StatusOK
	if dbStatus == "down" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status":   "ok",
		"database": dbStatus,
	})
}

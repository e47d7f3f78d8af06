package handlers

import (
	"time"

	"biblioteca-api/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles liveness endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root returns the service banner
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "biblioteca-api",
		"status":  "running",
	})
}

// HealthCheck reports service and database health
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	database := "connected"
	code := fiber.StatusOK

	if err := config.HealthCheck(); err != nil {
		status = "degraded"
		database = "disconnected"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/config"
	"github.com/localnerve/roadmapdb/internal/logger"
	"github.com/localnerve/roadmapdb/internal/services"
	"gorm.io/gorm"
)

// HealthHandler answers the container health probe
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *logger.Logger
}

// Health handles GET /health
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	// the listener is this process; only the database needs probing
	cfg := *h.Config
	cfg.HealthcheckURL = ""

	result := services.HealthCheck(c.UserContext(), &cfg, h.DB, h.Log)
	status := fiber.StatusOK
	if !result.Healthy() {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/middleware"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/utils"
)

// DebugHandler exposes snapshot divergence inspection and repair
type DebugHandler struct {
	Debug *services.GraphDebugService
}

// InspectRoadmap handles GET /debug/roadmaps/:id/inspect
// @Summary Compare a roadmap's JSON snapshot with its node and edge rows
// @Tags Debug
// @Produce json
// @Security BearerAuth
// @Param id path int true "Roadmap ID"
// @Success 200 {object} services.InspectReport
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /debug/roadmaps/{id}/inspect [get]
func (h *DebugHandler) InspectRoadmap(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.Debug.Inspect(c.UserContext(), id)
	if err != nil {
		return serviceError(err, "Roadmap not found")
	}
	return utils.SuccessResponse(c, report, fiber.StatusOK)
}

// RepairRoadmap handles POST /debug/roadmaps/:id/repair
// @Summary Regenerate a roadmap's JSON snapshot from its node and edge rows
// @Tags Debug
// @Produce json
// @Security BearerAuth
// @Param id path int true "Roadmap ID"
// @Success 200 {object} services.RepairResult
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /debug/roadmaps/{id}/repair [post]
func (h *DebugHandler) RepairRoadmap(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.Debug.Repair(c.UserContext(), id)
	if err != nil {
		return serviceError(err, "Roadmap not found")
	}
	if user := middleware.CurrentUser(c); user != nil {
		middleware.RequestLogger(c).Info("Snapshot repaired on request", "roadmapId", id, "userId", user.ID)
	}
	return utils.SuccessResponse(c, result, fiber.StatusOK)
}

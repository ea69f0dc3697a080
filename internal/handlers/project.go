package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/localnerve/ductapedb/internal/services"
	"github.com/localnerve/ductapedb/internal/utils"
)

// ProjectHandler serves the project descriptor and the store health.
type ProjectHandler struct {
	Store *services.Store
}

// GetProject handles GET /api/project
// @Summary Get the project
// @Tags Project
// @Produce json
// @Success 200 {object} models.Project
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /project [get]
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	p, err := h.Store.Project.Get(c.UserContext())
	if err != nil {
		return storeError(c, err, "getProject")
	}
	return utils.SuccessResponse(c, p, fiber.StatusOK)
}

// GetHealth handles GET /api/health
// @Summary Store health
// @Tags Project
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *ProjectHandler) GetHealth(c *fiber.Ctx) error {
	result := h.Store.HealthCheck(c.UserContext())
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return utils.SuccessResponse(c, result, status)
}

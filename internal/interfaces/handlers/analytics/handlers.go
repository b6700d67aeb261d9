package analytics

import (
	analyticssvc "propertyhub-backend/internal/application/analytics"
	"propertyhub-backend/internal/middleware"
	"propertyhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *analyticssvc.Service
}

// GET /api/dashboard/analytics[?scope=mine]
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	mine := c.Query("scope") == "mine"
	out, err := h.Service.Dashboard(c.UserContext(), middleware.CurrentSession(c), mine)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(out)
}

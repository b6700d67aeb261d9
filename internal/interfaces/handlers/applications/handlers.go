package applications

import (
	"encoding/json"

	appsvc "propertyhub-backend/internal/application/applications"
	"propertyhub-backend/internal/middleware"
	"propertyhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *appsvc.Service
}

// POST /api/applications
func (h *Handlers) Create(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session == nil {
		return response.FromError(c, appsvc.ErrUnauthorized)
	}
	var in appsvc.CreateInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	app, err := h.Service.Create(c.UserContext(), session, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, app)
}

// GET /api/applications
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	apps, err := h.Service.ListMine(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"applications": apps})
}

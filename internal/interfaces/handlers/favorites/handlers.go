package favorites

import (
	"encoding/json"
	"strings"

	favsvc "propertyhub-backend/internal/application/favorites"
	"propertyhub-backend/internal/middleware"
	"propertyhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *favsvc.Service
}

type favoriteRequest struct {
	ListingID string `json:"listingId"`
}

// parse reads { listingId }. Anonymous callers are turned away before the body matters.
func (h *Handlers) parse(c *fiber.Ctx) (uuid.UUID, bool, error) {
	if middleware.CurrentSession(c) == nil {
		return uuid.Nil, false, response.FromError(c, favsvc.ErrUnauthorized)
	}
	var req favoriteRequest
	_ = json.Unmarshal(c.Body(), &req)
	if strings.TrimSpace(req.ListingID) == "" {
		return uuid.Nil, false, response.Error(c, "Missing listingId", fiber.StatusBadRequest, nil)
	}
	id, err := uuid.Parse(strings.TrimSpace(req.ListingID))
	if err != nil {
		return uuid.Nil, false, response.FromError(c, favsvc.ErrListingNotFound)
	}
	return id, true, nil
}

// POST /api/favorites
func (h *Handlers) Add(c *fiber.Ctx) error {
	id, ok, err := h.parse(c)
	if !ok {
		return err
	}
	if err := h.Service.Add(c.UserContext(), middleware.CurrentSession(c), id); err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// DELETE /api/favorites
func (h *Handlers) Remove(c *fiber.Ctx) error {
	id, ok, err := h.parse(c)
	if !ok {
		return err
	}
	if err := h.Service.Remove(c.UserContext(), middleware.CurrentSession(c), id); err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GET /api/favorites
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	favorites, err := h.Service.ListMine(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"favorites": favorites})
}

package listings

import (
	"encoding/json"
	"io"
	"strings"

	"propertyhub-backend/internal/application/analytics"
	listsvc "propertyhub-backend/internal/application/listings"
	policies "propertyhub-backend/internal/application/policies/listings"
	"propertyhub-backend/internal/middleware"
	"propertyhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const errMissingUserID = "User ID missing from session"

type Handlers struct {
	Service   *listsvc.Service
	Analytics *analytics.Service
}

// GET /api/properties
func (h *Handlers) List(c *fiber.Ctx) error {
	listings, err := h.Service.List(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(listings)
}

// GET /api/properties/:id counts a view, then returns { property }.
func (h *Handlers) Detail(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return response.FromError(c, listsvc.ErrNotFound)
	}
	if err := h.Analytics.RecordView(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	listing, err := h.Service.Detail(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"property": listing})
}

// POST /api/properties
func (h *Handlers) Create(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if !policies.CanCreate(session) {
		return response.FromError(c, listsvc.ErrUnauthorized)
	}
	var in listsvc.CreateInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Service.Create(c.UserContext(), in, session)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, listing)
}

// PUT /api/properties/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session == nil {
		return response.Error(c, errMissingUserID, fiber.StatusBadRequest, nil)
	}
	id, ok := pathID(c)
	if !ok {
		return response.FromError(c, listsvc.ErrNotFound)
	}
	var patch listsvc.ListingPatch
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &patch); err != nil {
			// 404 and 403 outrank a bad body
			if gerr := h.Service.CheckMutable(c.UserContext(), id, session); gerr != nil {
				return response.FromError(c, gerr)
			}
			return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
		}
	}
	listing, err := h.Service.Update(c.UserContext(), id, patch, session)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(listing)
}

// DELETE /api/properties/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session == nil {
		return response.Error(c, errMissingUserID, fiber.StatusBadRequest, nil)
	}
	id, ok := pathID(c)
	if !ok {
		return response.FromError(c, listsvc.ErrNotFound)
	}
	if err := h.Service.Delete(c.UserContext(), id, session); err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GET /api/properties/bulk-listings
func (h *Handlers) BulkListings(c *fiber.Ctx) error {
	listings, err := h.Service.BulkListings(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"listings": listings})
}

// PUT /api/properties/bulk-update
func (h *Handlers) BulkUpdate(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if !policies.CanManageListings(session) {
		return response.FromError(c, listsvc.ErrUnauthorized)
	}
	var items []listsvc.BulkItem
	if err := json.Unmarshal(c.Body(), &items); err != nil {
		return response.FromError(c, listsvc.ErrNoUpdates)
	}
	out, err := h.Service.BulkUpdate(c.UserContext(), items, session)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(out)
}

// POST /api/properties/images (multipart: propertyId, images)
func (h *Handlers) AttachImages(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session == nil {
		return response.Error(c, errMissingUserID, fiber.StatusBadRequest, nil)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, "Missing propertyId", fiber.StatusBadRequest, nil)
	}
	rawID := strings.TrimSpace(first(form.Value["propertyId"]))
	if rawID == "" {
		return response.Error(c, "Missing propertyId", fiber.StatusBadRequest, nil)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return response.FromError(c, listsvc.ErrListingNotFound)
	}

	files := make([]listsvc.ImageFile, 0, len(form.File["images"]))
	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			return response.Error(c, "Invalid upload", fiber.StatusBadRequest, nil)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return response.Error(c, "Invalid upload", fiber.StatusBadRequest, nil)
		}
		files = append(files, listsvc.ImageFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Data:        data,
		})
	}

	urls, err := h.Service.AttachImages(c.UserContext(), id, files, session)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "urls": urls})
}

type detachRequest struct {
	PropertyID string `json:"propertyId"`
	ImageURL   string `json:"imageUrl"`
}

// DELETE /api/properties/images
func (h *Handlers) DetachImage(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session == nil {
		return response.Error(c, errMissingUserID, fiber.StatusBadRequest, nil)
	}
	var req detachRequest
	_ = json.Unmarshal(c.Body(), &req)
	if strings.TrimSpace(req.PropertyID) == "" || req.ImageURL == "" {
		return response.Error(c, "Missing propertyId or imageUrl", fiber.StatusBadRequest, nil)
	}
	id, err := uuid.Parse(strings.TrimSpace(req.PropertyID))
	if err != nil {
		return response.FromError(c, listsvc.ErrListingNotFound)
	}
	images, err := h.Service.DetachImage(c.UserContext(), id, req.ImageURL, session)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "images": images})
}

// GET /api/properties/:id/events
func (h *Handlers) Events(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session == nil {
		return response.Error(c, errMissingUserID, fiber.StatusBadRequest, nil)
	}
	id, ok := pathID(c)
	if !ok {
		return response.FromError(c, listsvc.ErrNotFound)
	}
	events, err := h.Service.History(c.UserContext(), id, session)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"events": events})
}

func pathID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

package uploads

import (
	uploadsvc "propertyhub-backend/internal/application/uploads"
	"propertyhub-backend/internal/middleware"
	"propertyhub-backend/internal/pkg/apperrors"
	"propertyhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *uploadsvc.Service
}

type uploadRequest struct {
	FileName string `json:"fileName"`
}

// ListingImage POST /api/uploads/listing-image returns a signed PUT URL and the
// public URL the image will have once uploaded.
func (h *Handlers) ListingImage(c *fiber.Ctx) error {
	var req uploadRequest
	_ = c.BodyParser(&req)

	res, err := h.Service.GetSignedUploadURL(c.UserContext(), middleware.CurrentSession(c), req.FileName)
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return response.FromError(c, err)
		}
		log.Error().Err(err).Str("file", req.FileName).Msg("upload: failed to generate signed URL")
		return response.Error(c, "Failed to generate upload URL", fiber.StatusInternalServerError, nil)
	}
	return c.JSON(res)
}

package middleware

import (
	"propertyhub-backend/internal/pkg/constants"
	"propertyhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorizePermission checks the session role against constants.PermissionRoles.
// Anonymous and disallowed roles both get 403, matching the listing endpoints.
func AuthorizePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := constants.PermissionRoles[permission]; !ok {
			return response.Error(c, "Permission configuration error", fiber.StatusInternalServerError, nil)
		}
		session := CurrentSession(c)
		if session == nil || !constants.AllowedRole(permission, session.Role) {
			return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}

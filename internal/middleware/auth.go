package middleware

import (
	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentSession(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the raw session user map (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// GetSessionUser returns the resolved user with the profile fields carried by the
// session or token.
func GetSessionUser(c *fiber.Ctx) (*SessionUser, bool) {
	if CurrentSession(c) == nil {
		return nil, false
	}
	m := GetUser(c).(map[string]interface{})
	str := func(k string) string {
		v, _ := m[k].(string)
		return v
	}
	return &SessionUser{UserID: str("user_id"), Name: str("name"), Email: str("email"), Role: str("role")}, true
}

// CurrentSession resolves the request identity. A user map without a parseable
// user_id counts as anonymous.
func CurrentSession(c *fiber.Ctx) *domain.Session {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return nil
	}
	raw, _ := m["user_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	role, _ := m["role"].(string)
	return &domain.Session{UserID: id, Role: role}
}

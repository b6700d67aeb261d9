package auth

import (
	authsvc "propertyhub-backend/internal/application/auth"
	"propertyhub-backend/internal/middleware"
	"propertyhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Auth   authsvc.Authenticator
	Rdb    *redis.Client
	Config middleware.SessionConfig
}

// Login POST /api/auth/login: verify credentials, start a fresh session and index it
// under user_sessions:<id>.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.Auth == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var req authsvc.Credentials
	if err := c.BodyParser(&req); err != nil {
		return response.FromError(c, authsvc.ErrCredentialsRequired)
	}

	user, err := h.Auth.Authenticate(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}

	sessionID := middleware.RegenerateSessionID(c)
	su := middleware.SessionUser{
		UserID: user.ID.String(),
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}
	middleware.SetSessionUser(c, su)

	if err := h.Rdb.SAdd(c.UserContext(), middleware.UserSessionsPrefix+su.UserID, sessionID).Err(); err != nil {
		log.Error().Err(err).Msg("session index failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)

	return response.JSON(c, fiber.StatusOK, fiber.Map{"user": su})
}

// Me GET /api/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	su, ok := middleware.GetSessionUser(c)
	if !ok {
		if middleware.GetSessionID(c) != "" {
			log.Debug().Msg("auth/me: session id present but no user in session data")
		}
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.JSON(c, fiber.StatusOK, fiber.Map{"user": su})
}

// Logout DELETE /api/auth/logout: drop the session key and its index entry, clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	ctx := c.UserContext()

	if sessionID != "" {
		if s := middleware.CurrentSession(c); s != nil {
			_ = h.Rdb.SRem(ctx, middleware.UserSessionsPrefix+s.UserID.String(), sessionID).Err()
		}
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.JSON(c, fiber.StatusOK, fiber.Map{"success": true})
}

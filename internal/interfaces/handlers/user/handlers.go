package user

import (
	"encoding/json"

	usersvc "propertyhub-backend/internal/application/user"
	"propertyhub-backend/internal/middleware"
	"propertyhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *usersvc.Service
}

// Signup POST /api/auth/signup. It does not log the new user in.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var in usersvc.SignupInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.FromError(c, usersvc.ErrMissingFields)
	}
	u, err := h.Service.Signup(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"message": "User created successfully", "user": u})
}

// List GET /api/users[?role=LANDLORD]
func (h *Handlers) List(c *fiber.Ctx) error {
	users, err := h.Service.ListByRole(c.UserContext(), c.Query("role"))
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(users)
}

// ViewUser GET /api/users/me returns the stored profile of the session user.
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	u, err := h.Service.ViewUser(c.UserContext(), session.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"user": u})
}

package handler

import (
	"go-tailor-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a STAFF account
// POST /api/users
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, user)
}

// Login handles user authentication
// POST /api/users/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	response, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return ok(c, response)
}

// ChangePassword handles password change
// PATCH /api/users/current/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.UserContext(), getActor(c), &req); err != nil {
		return err
	}
	return ok(c, "OK")
}

// DELETE /api/users/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), getActor(c)); err != nil {
		return err
	}
	return ok(c, "OK")
}

// POST /api/users/heartbeat
func (h *AuthHandler) Heartbeat(c *fiber.Ctx) error {
	if err := h.authService.Heartbeat(c.UserContext(), getActor(c)); err != nil {
		return err
	}
	return ok(c, fiber.Map{"status": "online"})
}

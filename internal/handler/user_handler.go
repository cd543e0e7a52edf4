package handler

import (
	"go-tailor-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsers lists every user
// GET /api/admin/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, users)
}

// GET /api/admin/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// UpdateUser changes role and active flag
// PUT /api/admin/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateUser(c.UserContext(), getActor(c), id, &req)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// UpdateUserPrivileges replaces a user's privilege set
// PUT /api/admin/users/:id/privileges
func (h *UserHandler) UpdateUserPrivileges(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdatePrivilegesRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateUserPrivileges(c.UserContext(), getActor(c), id, &req)
	if err != nil {
		return err
	}
	return ok(c, user)
}

package handler

import (
	"go-tailor-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TailorHandler struct {
	service service.TailorService
}

func NewTailorHandler(s service.TailorService) *TailorHandler {
	return &TailorHandler{service: s}
}

// POST /api/tailors
func (h *TailorHandler) Create(c *fiber.Ctx) error {
	var req service.TailorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tailor, err := h.service.Create(c.UserContext(), getActor(c), &req)
	if err != nil {
		return err
	}
	return created(c, tailor)
}

// GET /api/tailors?tailor_name=&page=&size=
func (h *TailorHandler) Search(c *fiber.Ctx) error {
	result, err := h.service.Search(c.UserContext(), searchRequest(c, "tailor_name", ""))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GET /api/tailors/:tailorId
func (h *TailorHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "tailorId")
	if err != nil {
		return err
	}
	tailor, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, tailor)
}

// PUT /api/tailors/:tailorId
func (h *TailorHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "tailorId")
	if err != nil {
		return err
	}
	var req service.TailorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tailor, err := h.service.Update(c.UserContext(), getActor(c), id, &req)
	if err != nil {
		return err
	}
	return ok(c, tailor)
}

// DELETE /api/tailors/:tailorId
func (h *TailorHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "tailorId")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return ok(c, "OK")
}

package handler

import (
	"go-tailor-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ModelHandler struct {
	service service.ModelService
}

func NewModelHandler(s service.ModelService) *ModelHandler {
	return &ModelHandler{service: s}
}

// POST /api/models
func (h *ModelHandler) Create(c *fiber.Ctx) error {
	var req service.ModelRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	m, err := h.service.Create(c.UserContext(), getActor(c), &req)
	if err != nil {
		return err
	}
	return created(c, m)
}

// GET /api/models?model_name=&page=&size=
func (h *ModelHandler) Search(c *fiber.Ctx) error {
	result, err := h.service.Search(c.UserContext(), searchRequest(c, "model_name", ""))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GET /api/models/:modelId
func (h *ModelHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "modelId")
	if err != nil {
		return err
	}
	m, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, m)
}

// PUT /api/models/:modelId
func (h *ModelHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "modelId")
	if err != nil {
		return err
	}
	var req service.ModelRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	m, err := h.service.Update(c.UserContext(), getActor(c), id, &req)
	if err != nil {
		return err
	}
	return ok(c, m)
}

// DELETE /api/models/:modelId
func (h *ModelHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "modelId")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return ok(c, "OK")
}

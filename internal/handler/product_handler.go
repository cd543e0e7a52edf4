package handler

import (
	"go-tailor-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.Create(c.UserContext(), getActor(c), &req)
	if err != nil {
		return err
	}
	return created(c, product)
}

// GET /api/products?product_code=&product_name=&page=&size=
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	result, err := h.service.Search(c.UserContext(), searchRequest(c, "product_name", "product_code"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GET /api/products/:productId
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "productId")
	if err != nil {
		return err
	}
	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, product)
}

// PUT /api/products/:productId
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "productId")
	if err != nil {
		return err
	}
	var req service.UpdateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.Update(c.UserContext(), getActor(c), id, &req)
	if err != nil {
		return err
	}
	return ok(c, product)
}

// DELETE /api/products/:productId
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "productId")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), getActor(c), id); err != nil {
		return err
	}
	return ok(c, "OK")
}

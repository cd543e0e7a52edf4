package handler

import (
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransferHandler struct {
	service service.TransferService
}

func NewTransferHandler(s service.TransferService) *TransferHandler {
	return &TransferHandler{service: s}
}

// POST /api/transfers
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var req service.CreateTransferRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	transfer, err := h.service.PostTransfer(c.UserContext(), getActor(c), &req)
	if err != nil {
		return err
	}
	return created(c, transfer)
}

// GET /api/transfers?product_code=&category=&type=&page=&size=
func (h *TransferHandler) List(c *fiber.Ctx) error {
	result, err := h.service.ListTransfers(c.UserContext(), service.TransferListRequest{
		ProductCode: c.Query("product_code"),
		Category:    model.Category(c.Query("category")),
		Type:        model.TransferType(c.Query("type")),
		Page:        c.QueryInt("page", 1),
		Size:        c.QueryInt("size", 10),
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GET /api/transfers/:productCode
func (h *TransferHandler) ProductStock(c *fiber.Ctx) error {
	stock, err := h.service.GetProductStock(c.UserContext(), c.Params("productCode"))
	if err != nil {
		return err
	}
	return ok(c, stock)
}

// GET /api/balances?product_id=&model_id=&category=
// quantity is null when the key has never been stocked.
func (h *TransferHandler) Balance(c *fiber.Ctx) error {
	productID, err := parseQueryID(c, "product_id")
	if err != nil {
		return err
	}
	modelID, err := parseQueryID(c, "model_id")
	if err != nil {
		return err
	}
	category := model.Category(c.Query("category"))

	quantity, found, err := h.service.GetBalance(c.UserContext(), productID, modelID, category)
	if err != nil {
		return err
	}

	data := fiber.Map{
		"product_id": productID,
		"model_id":   modelID,
		"category":   category,
		"quantity":   nil,
	}
	if found {
		data["quantity"] = quantity
	}
	return ok(c, data)
}

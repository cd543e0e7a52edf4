package handler

import (
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GET /api/reports/stock-card?product_code=&category=
func (h *ReportHandler) StockCard(c *fiber.Ctx) error {
	card, err := h.service.StockCard(c.UserContext(), c.Query("product_code"), model.Category(c.Query("category", string(model.CategoryGood))))
	if err != nil {
		return err
	}
	return ok(c, card)
}

// GET /api/reports/inventory-stock?category=
func (h *ReportHandler) InventoryStock(c *fiber.Ctx) error {
	rows, err := h.service.InventoryStock(c.UserContext(), model.Category(c.Query("category", string(model.CategoryGood))))
	if err != nil {
		return err
	}
	return ok(c, rows)
}

// GET /api/reports/dashboard
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, stats)
}

// StockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *ReportHandler) StockMovement(c *fiber.Ctx) error {
	days := c.QueryInt("days", service.DefaultMovementDays)

	data, err := h.service.StockMovement(c.UserContext(), days)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

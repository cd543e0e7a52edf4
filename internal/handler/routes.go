package handler

import (
	"go-tailor-inventory/internal/middleware"
	"go-tailor-inventory/internal/model"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	User     *UserHandler
	Role     *RoleHandler
	Tailor   *TailorHandler
	Model    *ModelHandler
	Product  *ProductHandler
	Transfer *TransferHandler
	Report   *ReportHandler
}

// SetupRoutes mounts the /api tree. requireAuth guards everything but health, register and login.
func SetupRoutes(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	api.Get("/health-check", h.Health.Check)
	api.Post("/users", h.Auth.Register)
	api.Post("/users/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	// Current user
	protected.Patch("/users/current/password", h.Auth.ChangePassword)
	protected.Post("/users/heartbeat", h.Auth.Heartbeat)
	protected.Delete("/users/logout", h.Auth.Logout)

	// Tailors
	protected.Get("/tailors", h.Tailor.Search)
	protected.Get("/tailors/:tailorId", h.Tailor.Get)
	protected.Post("/tailors", middleware.RequirePrivilege(model.PrivTailorCreate), h.Tailor.Create)
	protected.Put("/tailors/:tailorId", middleware.RequirePrivilege(model.PrivTailorUpdate), h.Tailor.Update)
	protected.Delete("/tailors/:tailorId", middleware.RequirePrivilege(model.PrivTailorDelete), h.Tailor.Delete)

	// Models
	protected.Get("/models", h.Model.Search)
	protected.Get("/models/:modelId", h.Model.Get)
	protected.Post("/models", middleware.RequirePrivilege(model.PrivModelCreate), h.Model.Create)
	protected.Put("/models/:modelId", middleware.RequirePrivilege(model.PrivModelUpdate), h.Model.Update)
	protected.Delete("/models/:modelId", middleware.RequirePrivilege(model.PrivModelDelete), h.Model.Delete)

	// Products
	protected.Get("/products", h.Product.Search)
	protected.Get("/products/:productId", h.Product.Get)
	protected.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), h.Product.Create)
	protected.Put("/products/:productId", middleware.RequirePrivilege(model.PrivProductUpdate), h.Product.Update)
	protected.Delete("/products/:productId", middleware.RequirePrivilege(model.PrivProductDelete), h.Product.Delete)

	// Ledger
	protected.Post("/transfers", middleware.RequirePrivilege(model.PrivTransferCreate), h.Transfer.Create)
	protected.Get("/transfers", middleware.RequirePrivilege(model.PrivTransferView), h.Transfer.List)
	protected.Get("/transfers/:productCode", middleware.RequirePrivilege(model.PrivTransferView), h.Transfer.ProductStock)
	protected.Get("/balances", middleware.RequirePrivilege(model.PrivTransferView), h.Transfer.Balance)

	// Reports
	reports := protected.Group("/reports", middleware.RequirePrivilege(model.PrivReportView))
	reports.Get("/stock-card", h.Report.StockCard)
	reports.Get("/inventory-stock", h.Report.InventoryStock)
	reports.Get("/dashboard", h.Report.Dashboard)
	reports.Get("/stock-movement", h.Report.StockMovement)

	// User management
	admin := protected.Group("/admin")
	admin.Get("/users", middleware.RequirePrivilege(model.PrivUserView), h.User.GetUsers)
	admin.Get("/users/:id", middleware.RequirePrivilege(model.PrivUserView), h.User.GetUser)
	admin.Put("/users/:id", middleware.RequirePrivilege(model.PrivUserUpdatePrivilege), h.User.UpdateUser)
	admin.Put("/users/:id/privileges", middleware.RequirePrivilege(model.PrivUserUpdatePrivilege), h.User.UpdateUserPrivileges)
	admin.Get("/roles", middleware.RequirePrivilege(model.PrivUserView), h.Role.GetRoles)
	admin.Get("/privileges", middleware.RequirePrivilege(model.PrivUserView), h.Role.GetPrivileges)
}

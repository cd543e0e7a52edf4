package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-tailor-inventory/internal/handler"
	"go-tailor-inventory/internal/middleware"
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/repository"
	"go-tailor-inventory/internal/service"
	"go-tailor-inventory/internal/ws"
	"go-tailor-inventory/pkg/config"
	"go-tailor-inventory/pkg/database"
	"go-tailor-inventory/pkg/jwt"
	"go-tailor-inventory/pkg/logger"
	"go-tailor-inventory/pkg/qrcode"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	zl := logger.New(logger.Config{
		Env:        cfg.App.Env,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if envErr != nil {
		zl.Warn().Msg(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DB.ConnectionString(), zl)
	if err != nil {
		zl.Fatal().Err(err).Msg("connect database")
	}
	if err := repository.AutoMigrate(db); err != nil {
		zl.Fatal().Err(err).Msg("migrate database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		zl.Fatal().Err(err).Msg("database handle")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Seed default privileges, roles, and admin user
	if err := seedPrivilegesRolesAndAdmin(ctx, db, cfg.App.AdminPassword, zl); err != nil {
		zl.Fatal().Err(err).Msg("seed defaults")
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zl)
	go wsHub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	tailorRepo := repository.NewTailorRepo(db)
	modelRepo := repository.NewModelRepo(db)
	productRepo := repository.NewProductRepo(db)
	transferRepo := repository.NewTransferRepo(db)
	reportRepo := repository.NewReportRepo(db)

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL(), cfg.JWT.Issuer)
	qrWriter := qrcode.NewWriter(filepath.Join(cfg.App.PublicDir, "qrcodes"))

	authService := service.NewAuthService(userRepo, roleRepo, tokens, cfg.JWT.TTL(), wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	tailorService := service.NewTailorService(tailorRepo)
	modelService := service.NewModelService(modelRepo)
	productService := service.NewProductService(productRepo, tailorRepo, modelRepo, qrWriter, wsHub)
	transferService := service.NewTransferService(transferRepo, productRepo, wsHub)
	reportService := service.NewReportService(reportRepo, productRepo)

	handlers := handler.Handlers{
		Health:   handler.NewHealthHandler(sqlDB),
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Role:     handler.NewRoleHandler(roleRepo, privilegeRepo),
		Tailor:   handler.NewTailorHandler(tailorService),
		Model:    handler.NewModelHandler(modelService),
		Product:  handler.NewProductHandler(productService),
		Transfer: handler.NewTransferHandler(transferService),
		Report:   handler.NewReportHandler(reportService),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Middleware
	app.Use(middleware.RequestLogger(zl))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORS.AllowOrigins}))

	// 7. Routes
	handler.SetupRoutes(app, handlers, middleware.RequireAuth(authService))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(wsHub.Serve))

	// Product images and generated QR codes
	app.Static("/", cfg.App.PublicDir)

	// 8. Graceful Shutdown
	go func() {
		zl.Info().Str("addr", cfg.App.Addr()).Msg("server started")
		if err := app.Listen(cfg.App.Addr()); err != nil {
			zl.Error().Err(err).Msg("listen")
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info().Msg("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := sqlDB.Close(); err != nil {
		zl.Error().Err(err).Msg("close database")
	}
	zl.Info().Msg("server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(ctx context.Context, db *gorm.DB, adminPassword string, zl zerolog.Logger) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		return err
	}

	// 2. Seed roles with their privilege sets
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		return err
	}

	// 3. Create default admin user with MASTER_ADMIN role
	exists, err := userRepo.ExistsByUsername(ctx, "admin")
	if err != nil || exists {
		return err
	}

	masterRole, err := roleRepo.FindByCode(ctx, model.RoleMasterAdmin)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username:   "admin",
		RoleID:     &masterRole.ID,
		IsActive:   true,
		Privileges: masterRole.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(adminPassword); err != nil {
		return err
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	zl.Info().Str("username", admin.Username).Msg("admin user created (MASTER_ADMIN)")
	return nil
}

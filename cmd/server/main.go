package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/saeid-a/TheraConsole/internal/config"
	"github.com/saeid-a/TheraConsole/internal/database"
	"github.com/saeid-a/TheraConsole/internal/logging"
	"github.com/saeid-a/TheraConsole/internal/routes"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		appLogger.Fatal("DB_URL is required")
	}
	pool, err := database.Connect(ctx, cfg.DBUrl, database.DefaultPoolOptions(), appLogger)
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// 3. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:               "TheraConsole",
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	// Middleware
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	routes.RegisterRoutes(ctx, app, cfg, pool, appLogger)

	// 4. Start Server
	go func() {
		<-ctx.Done()
		appLogger.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			appLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	appLogger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
		zap.String("api_base_url", cfg.APIBaseURL),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLogger.Fatal("server failed to start", zap.Error(err))
	}
}

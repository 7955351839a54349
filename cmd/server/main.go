package main

import (
	"os"
	"os/signal"
	"syscall"

	"familybank/internal/adapters/http/middleware"
	"familybank/internal/adapters/http/routes"
	"familybank/internal/adapters/persistence/models"
	"familybank/internal/adapters/persistence/repositories"
	"familybank/internal/config"
	"familybank/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// @title Family Bank API
// @version 1.0
// @description Family savings and loan ledger API

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Info("✅ Database migration completed")

	// Seed the initial admin account
	if err := config.SeedAdmin(db); err != nil {
		log.Warnf("⚠️ Failed to seed admin account: %v", err)
	}

	// Scheduled jobs: overdue penalty sweep + token cleanup
	if cfg.CronOn {
		loanRepo := repositories.NewLoanRepository(db)
		penaltyRepo := repositories.NewLoanPenaltyRepository(db)
		refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
		loanService := services.NewLoanService(loanRepo, penaltyRepo, log)

		cronService := services.NewCronService(loanService, refreshTokenRepo, log)
		if err := cronService.Start(); err != nil {
			log.Fatalf("❌ Failed to start cron scheduler: %v", err)
		}
		defer cronService.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Family Bank API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, log)

	// Graceful shutdown
	go gracefulShutdown(app, log)

	// Start server
	log.Infof("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, log *logrus.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Errorf("❌ Error during shutdown: %v", err)
	}
	log.Info("✅ Server stopped gracefully")
}

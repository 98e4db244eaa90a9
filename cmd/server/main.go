package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"nirman-fieldworks/internal/adapters/http/middleware"
	"nirman-fieldworks/internal/adapters/http/routes"
	"nirman-fieldworks/internal/adapters/persistence/models"
	"nirman-fieldworks/internal/adapters/persistence/repositories"
	"nirman-fieldworks/internal/config"
	"nirman-fieldworks/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
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
	log.Println("✅ Database migration completed")

	// Seed sample data in development mode
	if err := config.SeedDevData(db, cfg); err != nil {
		log.Printf("⚠️ Warning: Failed to seed dev data: %v", err)
	}

	// Start nightly upload cleanup
	cleanupService := services.NewCleanupService(repositories.NewProgressRepository(db), cfg)
	cleanupService.Start()
	defer cleanupService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Nirman Fieldworks API",
		BodyLimit:    ((cfg.Upload.MaxImages+1)*cfg.Upload.MaxFileSizeMB + 2) << 20,
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}

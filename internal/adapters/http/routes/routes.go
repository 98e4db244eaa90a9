package routes

import (
	"time"

	"nirman-fieldworks/internal/adapters/http/handlers"
	"nirman-fieldworks/internal/adapters/http/middleware"
	"nirman-fieldworks/internal/adapters/persistence/repositories"
	"nirman-fieldworks/internal/config"
	"nirman-fieldworks/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	workRepo := repositories.NewWorkProposalRepository(db)
	progressRepo := repositories.NewProgressRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	workService := services.NewWorkService(workRepo, progressRepo, cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	workHandler := handlers.NewWorkHandler(workService)

	Register(app, cfg, healthHandler, authHandler, workHandler)
}

// Register wires handlers onto the app. Split from Setup so tests can mount
// handlers backed by fake repositories without a database connection.
func Register(app *fiber.App, cfg *config.Config, healthHandler *handlers.HealthHandler, authHandler *handlers.AuthHandler, workHandler *handlers.WorkHandler) {
	// Health endpoints (no auth - the app's connection test uses these)
	app.Get("/", healthHandler.Root)

	api := app.Group("/api")
	api.Get("/health", healthHandler.HealthCheck)

	// Auth endpoints
	auth := api.Group("/auth", middleware.AuthRateLimiter(), middleware.NoCacheHeaders())
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)

	// Work proposal endpoints (bearer token required)
	works := api.Group("/work-proposals", middleware.AuthMiddleware(cfg))
	works.Get("/", middleware.PrivateCacheHeaders(30*time.Second), workHandler.List)
	works.Post("/", middleware.SupervisorOrAdmin(), workHandler.Create)
	works.Get("/:id", workHandler.Get)
	works.Put("/:id", workHandler.Update)
	works.Post("/:id/progress", workHandler.SubmitProgress)
	works.Get("/:id/progress", workHandler.GetProgress)
}

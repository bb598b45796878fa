package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/reviewtracker/backend/internal/config"
	"github.com/reviewtracker/backend/internal/database"
	"github.com/reviewtracker/backend/internal/handlers"
	"github.com/reviewtracker/backend/internal/middleware"
	"github.com/reviewtracker/backend/internal/models"
	"github.com/reviewtracker/backend/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations (seeds default notification rules)
	if err := models.AutoMigrate(database.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Keep token signing stable across restarts
	cfg.JWTSecret = database.EnsureJWTSecret(cfg)

	// Start periodic services
	notificationCountService := services.NewNotificationCountService()
	notificationCountService.Start()

	backupService := services.NewBackupService(cfg)
	backupService.Start()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ReviewTracker API v1.0",
		ServerHeader: "ReviewTracker",
		BodyLimit:    20 * 1024 * 1024, // 20MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "reviewtracker-api",
		})
	})

	// Uploaded proof files
	app.Static("/uploads", cfg.UploadDir)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	reviewHandler := handlers.NewReviewHandler()
	lookupHandler := handlers.NewLookupHandler()
	viewHandler := handlers.NewViewHandler()
	notificationHandler := handlers.NewNotificationHandler()
	dashboardHandler := handlers.NewDashboardHandler()
	mediaHandler := handlers.NewMediaHandler(cfg)

	api := app.Group("/api")

	// Public routes
	api.Post("/auth/login", authHandler.Login)
	api.Get("/views/shared/:slug", viewHandler.Shared)

	// Everything else requires a token when AUTH_PASSWORD is set
	api.Use(middleware.AuthRequired(cfg))

	// Review routes
	reviews := api.Group("/reviews")
	reviews.Get("/", reviewHandler.List)
	reviews.Get("/search", reviewHandler.Search)
	reviews.Get("/aggregates", reviewHandler.Aggregates)
	reviews.Post("/aggregates", reviewHandler.Aggregates)
	reviews.Get("/export", reviewHandler.Export)
	reviews.Post("/import", reviewHandler.Import)
	reviews.Get("/metrics/overdue-count", reviewHandler.OverdueCount)
	reviews.Get("/dashboard-stats", dashboardHandler.Stats)
	reviews.Post("/bulk-advance", reviewHandler.BulkAdvance)
	reviews.Post("/bulk-update", reviewHandler.BulkUpdate)
	reviews.Post("/bulk-delete", reviewHandler.BulkDelete)
	reviews.Post("/:srcId/copy/:targetId", reviewHandler.CopyFields)
	reviews.Post("/:id/clone", reviewHandler.Clone)
	reviews.Post("/:id/advance", reviewHandler.Advance)
	reviews.Get("/:id/history", reviewHandler.History)
	reviews.Get("/:id", reviewHandler.Get)
	reviews.Post("/", reviewHandler.Create)
	reviews.Put("/:id", reviewHandler.Update)
	reviews.Delete("/:id", reviewHandler.Delete)

	// Lookup routes
	lookups := api.Group("/lookups")
	lookups.Get("/platforms", lookupHandler.ListPlatforms)
	lookups.Post("/platforms", lookupHandler.CreatePlatform)
	lookups.Delete("/platforms/:id", lookupHandler.DeletePlatform)
	lookups.Get("/mediators", lookupHandler.ListMediators)
	lookups.Post("/mediators", lookupHandler.CreateMediator)
	lookups.Delete("/mediators/:id", lookupHandler.DeleteMediator)
	lookups.Get("/statuses", lookupHandler.ListStatuses)

	// Saved view routes
	views := api.Group("/views")
	views.Get("/", viewHandler.List)
	views.Post("/", viewHandler.Save)
	views.Delete("/:id", viewHandler.Delete)
	views.Post("/:id/share", viewHandler.Share)
	views.Post("/:id/unshare", viewHandler.Unshare)

	// Notification routes
	api.Get("/notifications", notificationHandler.List)
	api.Get("/notifications/count", notificationHandler.Count)
	rules := api.Group("/notification-rules")
	rules.Get("/", notificationHandler.ListRules)
	rules.Post("/", notificationHandler.CreateRule)
	rules.Put("/:id", notificationHandler.UpdateRule)
	rules.Delete("/:id", notificationHandler.DeleteRule)

	// Media upload
	api.Post("/media/upload", mediaHandler.Upload)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		notificationCountService.Stop()
		backupService.Stop()
		app.Shutdown()
	}()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	log.Printf("Starting ReviewTracker API server on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/config"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/database"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/handlers"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/middleware"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/services"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/types"

	_ "github.com/sdxshuai/Epicourier-Web-sub001/docs/api" // Swagger docs
)

// @title Epicourier API
// @version 1.0.0
// @description Meal planning and grocery service: shopping lists generated from planned meals, inventory transfer, share links
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/sdxshuai/Epicourier-Web-sub001

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Gemini client for recipe recommendations; nil when no API key is set
	llmClient, err := services.NewGeminiClient(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	if llmClient != nil {
		defer llmClient.Close()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("epicourier")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/healthz", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// Create handlers
	listHandler := &handlers.ShoppingListHandler{DB: db}
	itemHandler := &handlers.ShoppingItemHandler{DB: db}
	inventoryHandler := &handlers.InventoryHandler{DB: db}
	shareHandler := &handlers.ShareHandler{DB: db}
	recommendHandler := &handlers.RecommendHandler{DB: db, Client: llmClient}

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Public share resolution. Token possession is the credential, so the
	// response is safe to cache for a few minutes.
	api.Get("/shopping-lists/share", cache.New(cache.Config{
		Expiration: 5 * time.Minute,
	}), shareHandler.ResolveSharedList)

	// Shopping list routes (all require user authentication)
	lists := api.Group("/shopping-lists", middleware.RequireUser(cfg))
	lists.Post("/generate", listHandler.GenerateShoppingList)
	lists.Post("/share", shareHandler.ShareShoppingList)
	lists.Get("/", listHandler.GetShoppingLists)
	lists.Post("/", listHandler.CreateShoppingList)
	lists.Get("/:id", listHandler.GetShoppingList)
	lists.Put("/:id", listHandler.UpdateShoppingList)
	lists.Delete("/:id", listHandler.DeleteShoppingList)
	lists.Post("/:id/transfer", listHandler.TransferCheckedItems)
	lists.Post("/:id/transfer/undo", listHandler.UndoTransfer)
	lists.Post("/:id/items", itemHandler.AddShoppingItem)
	lists.Put("/:id/items/:itemId", itemHandler.UpdateShoppingItem)
	lists.Delete("/:id/items/:itemId", itemHandler.DeleteShoppingItem)

	// Inventory routes
	inventory := api.Group("/inventory", middleware.RequireUser(cfg))
	inventory.Get("/", inventoryHandler.GetInventory)
	inventory.Post("/", inventoryHandler.CreateInventoryItem)
	inventory.Put("/:id", inventoryHandler.UpdateInventoryItem)
	inventory.Delete("/:id", inventoryHandler.DeleteInventoryItem)

	// Recommendation routes
	recommendations := api.Group("/recommendations", middleware.RequireUser(cfg))
	recommendations.Post("/inventory", recommendHandler.RecommendFromInventory)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Authorizer session validation is initialized lazily by the auth
	// middleware on the first authenticated request.
	log.Printf("Authorizer will be initialized on first authenticated request")

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Check for typed application errors (auth middleware)
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// main.go
package main

import (
	"log"
	"os"
	"time"

	"codex/achievements"
	"codex/auth"
	"codex/handlers"
	"codex/middleware"
	"codex/notify"
	"codex/progress"
	"codex/storage"
	"codex/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize storage
	db, err := storage.Connect()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	store, err := storage.NewGorm(db)
	if err != nil {
		log.Fatal("Failed to initialize key-value store:", err)
	}

	// Wire the core services once and pass them down. No package globals.
	catalog := achievements.Catalog()
	accounts := auth.NewManager(store, auth.Bcrypt{})
	tracker := progress.NewTracker(store, notify.Log{}, catalog)
	codec := transfer.NewCodec(store, accounts)

	authHandler := handlers.NewAuthHandler(accounts)
	progressionHandler := handlers.NewProgressionHandler(tracker, catalog)
	contentHandler := handlers.NewContentHandler(store)
	transferHandler := handlers.NewTransferHandler(codec, accounts)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB, export documents can be large
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimit())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimit())
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", middleware.Auth, authHandler.Logout)
	authGroup.Get("/me", middleware.Auth, authHandler.Me)
	authGroup.Delete("/account", middleware.Auth, authHandler.DeleteAccount)

	// Progression routes
	progressionGroup := api.Group("/progression")
	progressionGroup.Use(middleware.Auth)
	progressionGroup.Post("/complete", progressionHandler.CompleteLevel)
	progressionGroup.Post("/xp", progressionHandler.AwardXP)
	progressionGroup.Post("/reset", progressionHandler.Reset)
	progressionGroup.Get("/", progressionHandler.GetProgression)
	progressionGroup.Get("/stats", progressionHandler.GetStats)
	progressionGroup.Get("/achievements", progressionHandler.GetAchievements)

	// Code artifact routes
	codeGroup := api.Group("/code")
	codeGroup.Use(middleware.Auth)
	codeGroup.Get("/:language/:level", contentHandler.GetCode)
	codeGroup.Put("/:language/:level", contentHandler.SaveCode)

	// Settings routes
	settingsGroup := api.Group("/settings")
	settingsGroup.Use(middleware.Auth)
	settingsGroup.Get("/", contentHandler.GetSettings)
	settingsGroup.Put("/", contentHandler.SaveSettings)

	// Level catalog (public)
	api.Get("/levels/:language", contentHandler.GetLevels)

	// Transfer routes. Import stays open: it is the recovery path for a
	// fresh install with no accounts yet.
	api.Get("/transfer/export", middleware.Auth, transferHandler.Export)
	api.Post("/transfer/import", transferHandler.Import)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	// Start Fiber HTTP/REST server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("📚 Level tracks loaded: html, css, js")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	appEnv := os.Getenv("APP_ENV")

	if appEnv == "production" {
		if jwtSecret == "" {
			log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
		}
		if len(jwtSecret) < 32 {
			log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
		}
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
		return
	}

	if jwtSecret == "" {
		log.Println("WARNING: JWT_SECRET not set, using development default")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

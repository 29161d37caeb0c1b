package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quill/cache"
	"quill/config"
	"quill/database"
	"quill/handlers"
	"quill/middleware"
	"quill/repository"
	"quill/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)
	defer cache.Close()

	// Connect to database
	db := database.Connect(cfg)

	// Wire repositories into handlers and middleware
	postRepo := repository.NewPostRepository(db)
	userRepo := repository.NewUserRepository(db)
	handlers.InitPostHandlers(postRepo)
	middleware.InitMiddleware(cfg, userRepo)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Quill Blog API",
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Setup routes
	routes.Setup(app)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

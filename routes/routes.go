package routes

import (
	"quill/handlers"
	"quill/middleware"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "quill is up",
			"version": "1.0.0",
		})
	})

	// Post routes
	posts := api.Group("/posts")
	// Public post routes
	posts.Get("/", handlers.GetAllPosts)
	posts.Get("/:id", handlers.GetPost)
	// Protected post routes
	posts.Post("/", middleware.AuthRequired, handlers.CreatePost)
	posts.Put("/:id", middleware.AuthRequired, handlers.UpdatePost)
	posts.Patch("/:id", middleware.AuthRequired, handlers.UpdatePost)
	posts.Delete("/:id", middleware.AuthRequired, handlers.DeletePost)
}

package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/posthubapp/posthub-backend/internal/config"
	"github.com/posthubapp/posthub-backend/internal/handlers"
	"github.com/posthubapp/posthub-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	postHandler *handlers.PostHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register/init", authHandler.RegisterInit)
	auth.Post("/register/confirm", authHandler.RegisterConfirm)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Users — directory is public, account flows require a session
	users := api.Group("/users")
	users.Get("/", userHandler.List)
	users.Get("/me", middleware.JWTProtected(cfg), userHandler.Me)
	users.Post("/me/update/init", middleware.JWTProtected(cfg), userHandler.UpdateInit)
	users.Post("/me/update/confirm", middleware.JWTProtected(cfg), userHandler.UpdateConfirm)
	users.Post("/me/delete/init", middleware.JWTProtected(cfg), userHandler.DeleteInit)
	users.Post("/me/delete/confirm", middleware.JWTProtected(cfg), userHandler.DeleteConfirm)
	users.Get("/:id", userHandler.Get)

	// Posts — detail and feed are identity-aware but open; everything
	// else needs a session
	posts := api.Group("/posts")
	posts.Get("/", postHandler.ListPublic)
	posts.Get("/feed", middleware.JWTOptional(cfg), postHandler.Feed)
	posts.Get("/my/drafts", middleware.JWTProtected(cfg), postHandler.MyDrafts)
	posts.Get("/my/published", middleware.JWTProtected(cfg), postHandler.MyPublished)
	posts.Post("/", middleware.JWTProtected(cfg), postHandler.Create)
	posts.Get("/:id", middleware.JWTOptional(cfg), postHandler.Get)
	posts.Put("/:id", middleware.JWTProtected(cfg), postHandler.Update)
	posts.Delete("/:id", middleware.JWTProtected(cfg), postHandler.Delete)

	posts.Get("/:id/likes", middleware.JWTProtected(cfg), postHandler.ListLikes)
	posts.Post("/:id/likes", middleware.JWTProtected(cfg), postHandler.CreateLike)
	posts.Get("/:id/comments", middleware.JWTProtected(cfg), postHandler.ListComments)
	posts.Post("/:id/comments", middleware.JWTProtected(cfg), postHandler.CreateComment)
}

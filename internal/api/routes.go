package api

import (
	"time"

	"github.com/bilgisen/chronos/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the Fiber app with the global middleware and the desk routes.
// The request logger is outermost so recovered panics are logged with their request id.
func NewApp(httpTimeout time.Duration, h *Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "chronos",
		ReadTimeout:  httpTimeout,
		WriteTimeout: httpTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(middleware.RequestLogger())
	app.Use(recover.New())

	SetupRoutes(app, h)
	return app
}

// SetupRoutes registers the desk API under /api/v1
func SetupRoutes(app *fiber.App, h *Handlers) {
	api := app.Group("/api/v1")

	api.Get("/health", h.HealthCheck)
	api.Get("/state", h.GetState)
	api.Get("/logs", h.GetLogs)
	api.Get("/options", h.GetOptions)
	api.Get("/dashboard", h.GetDashboard)

	news := api.Group("/news")
	{
		news.Get("", h.GetNews)
		news.Post("/:id/post", h.PostItem)
	}

	settings := api.Group("/settings")
	{
		settings.Put("/topic", middleware.ValidateBody[TopicRequest](), h.SetTopic)
		settings.Put("/interval", middleware.ValidateBody[IntervalRequest](), h.SetInterval)
		settings.Post("/local-mode/toggle", h.ToggleLocalMode)
		settings.Post("/auto-post/toggle", h.ToggleAutoPost)
	}

	account := api.Group("/account")
	{
		account.Post("/link", h.LinkAccount)
		account.Delete("/link", h.UnlinkAccount)
	}

	api.Post("/scan", h.Scan)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "endpoint not found")
	})
}

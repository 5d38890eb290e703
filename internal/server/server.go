package server

import (
	"log"
	"time"

	"ratlist/internal/handlers"
	"ratlist/internal/oauth"
	"ratlist/internal/repositories"
	"ratlist/internal/services"
	"ratlist/internal/session"
	"ratlist/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies is everything the HTTP application needs.
type Dependencies struct {
	Users     repositories.UserRepository
	Tasks     repositories.TaskRepository
	Sessions  session.Store
	Provider  oauth.Provider          // nil disables Google login
	Publisher services.EventPublisher // nil disables task events

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	// AccessLog enables the request logger middleware.
	AccessLog bool
}

// NewApp builds the Fiber application with all routes registered.
func NewApp(deps Dependencies) *fiber.App {
	authService := services.NewAuthService(deps.Users)
	taskService := services.NewTaskService(deps.Tasks, deps.Publisher)
	sessions := session.NewManager(deps.Sessions, deps.SessionSecret, deps.SessionTTL, deps.CookieSecure)

	authHandler := handlers.NewAuthHandler(authService, sessions, deps.Provider, deps.CookieSecure)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Immutable: repositories may keep request strings past the handler.
	app := fiber.New(fiber.Config{
		Views:                 views.Engine(),
		Immutable:             true,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}

	app.Use("/static", filesystem.New(filesystem.Config{
		Root: views.Static(),
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	app.Use(sessions.Middleware())

	authHandler.RegisterRoutes(app)
	taskHandler.RegisterRoutes(app)

	log.Printf("Routes registered (google login: %t, task events: %t)", deps.Provider != nil, deps.Publisher != nil)
	return app
}

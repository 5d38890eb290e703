package middleware

import (
	"ratlist/internal/session"

	"github.com/gofiber/fiber/v2"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// AuthRequired is a Fiber middleware that redirects requests without a
// session identity to the login page. It must run after session.Manager.Middleware.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !session.IsAuthenticated(c) {
			return c.Redirect(LoginPath)
		}
		return c.Next()
	}
}

// GuestOnly redirects requests that already carry a session identity to home.
func GuestOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session.IsAuthenticated(c) {
			return c.Redirect("/")
		}
		return c.Next()
	}
}

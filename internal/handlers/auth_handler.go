package handlers

import (
	"errors"
	"log"
	"time"

	"ratlist/internal/middleware"
	"ratlist/internal/oauth"
	"ratlist/internal/services"
	"ratlist/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StateCookieName holds the OAuth state between the redirect and the callback.
const StateCookieName = "ratlist.oauthstate"

const stateTTL = 10 * time.Minute

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService   *services.AuthService
	sessions      *session.Manager
	provider      oauth.Provider
	secureCookies bool
	validate      *validator.Validate
}

// NewAuthHandler creates a new AuthHandler. provider may be nil, which
// disables the Google routes.
func NewAuthHandler(authService *services.AuthService, sessions *session.Manager, provider oauth.Provider, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		sessions:      sessions,
		provider:      provider,
		secureCookies: secureCookies,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/login", middleware.GuestOnly(), h.ShowLogin)
	router.Post("/login", h.HandleLogin)
	router.Get("/auth/google", h.BeginGoogle)
	router.Get("/auth/google/redirect", h.GoogleCallback)
	router.Get("/logout", middleware.AuthRequired(), h.HandleLogout)
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"GoogleEnabled": h.provider != nil,
	})
}

// LoginRequest is the local login form.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// HandleLogin verifies local credentials and starts a session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login form: %v", err)
		return c.Redirect(middleware.LoginPath)
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Redirect(middleware.LoginPath)
	}

	user, err := h.authService.VerifyCredentials(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			log.Printf("Error during login for user %s: %v", req.Username, err)
		}
		return c.Redirect(middleware.LoginPath)
	}

	if err := h.sessions.Login(c, user); err != nil {
		log.Printf("Error starting session for user %s: %v", user.Username, err)
		return c.Redirect(middleware.LoginPath)
	}
	return c.Redirect("/")
}

// BeginGoogle redirects into the provider's consent screen.
func (h *AuthHandler) BeginGoogle(c *fiber.Ctx) error {
	if h.provider == nil {
		return c.Redirect(middleware.LoginPath)
	}

	state, err := oauth.GenerateState()
	if err != nil {
		log.Printf("Error generating OAuth state: %v", err)
		return c.Redirect(middleware.LoginPath)
	}
	h.setStateCookie(c, state, time.Now().Add(stateTTL))
	return c.Redirect(h.provider.AuthCodeURL(state))
}

// GoogleCallback completes the provider handshake. Every failure ends at the login page.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if h.provider == nil {
		return c.Redirect(middleware.LoginPath)
	}

	expected := c.Cookies(StateCookieName)
	h.setStateCookie(c, "", time.Now().Add(-time.Hour))

	if errParam := c.Query("error"); errParam != "" {
		log.Printf("OAuth provider returned error: %s", errParam)
		return c.Redirect(middleware.LoginPath)
	}
	state := c.Query("state")
	if expected == "" || state != expected {
		log.Printf("OAuth state mismatch")
		return c.Redirect(middleware.LoginPath)
	}
	code := c.Query("code")
	if code == "" {
		return c.Redirect(middleware.LoginPath)
	}

	profile, err := h.provider.Exchange(c.UserContext(), code)
	if err != nil {
		log.Printf("OAuth exchange failed: %v", err)
		return c.Redirect(middleware.LoginPath)
	}

	user, err := h.authService.ResolveOAuthUser(c.UserContext(), profile)
	if err != nil {
		log.Printf("Error resolving OAuth user %s: %v", profile.Email, err)
		return c.Redirect(middleware.LoginPath)
	}

	if err := h.sessions.Login(c, user); err != nil {
		log.Printf("Error starting session for user %s: %v", user.Username, err)
		return c.Redirect(middleware.LoginPath)
	}
	return c.Redirect("/")
}

// HandleLogout ends the session and always lands on the login page.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		log.Printf("Error ending session: %v", err)
	}
	return c.Redirect(middleware.LoginPath)
}

func (h *AuthHandler) setStateCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     StateCookieName,
		Value:    value,
		Path:     "/auth/google",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"ratlist/internal/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CookieName is the cookie carrying the signed session reference.
const CookieName = "ratlist.sid"

const (
	identityKey = "session.identity"
	sidKey      = "session.id"
)

// Manager ties a signed client-side session reference to server-side state.
// The cookie holds an HS256 token whose jti is the session id; the identity
// itself only lives in the Store.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager creates a Manager.
func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Middleware populates the request identity when the request carries a valid
// session reference. Invalid or stale cookies are cleared.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(CookieName)
		if raw == "" {
			return c.Next()
		}

		sid, err := m.parseReference(raw)
		if err != nil {
			log.Printf("Rejected session cookie: %v", err)
			m.clearCookie(c)
			return c.Next()
		}

		identity, err := m.store.Load(c.UserContext(), sid)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) {
				log.Printf("Error loading session %s: %v", sid, err)
			}
			m.clearCookie(c)
			return c.Next()
		}

		c.Locals(identityKey, Deserialize(identity))
		c.Locals(sidKey, sid)
		return c.Next()
	}
}

// Login starts a new session for user and sets the session cookie.
func (m *Manager) Login(c *fiber.Ctx, user *models.User) error {
	sid := uuid.New().String()
	expiresAt := time.Now().Add(m.ttl)
	identity := Serialize(user)

	if err := m.store.Save(c.UserContext(), sid, identity, expiresAt); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	reference, err := m.signReference(sid, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to sign session reference: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    reference,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Locals(identityKey, identity)
	c.Locals(sidKey, sid)
	return nil
}

// Logout destroys the current session. The cookie and request identity are
// cleared even when the store delete fails; that error is returned for logging.
func (m *Manager) Logout(c *fiber.Ctx) error {
	var err error
	if sid, ok := c.Locals(sidKey).(string); ok && sid != "" {
		err = m.store.Delete(c.UserContext(), sid)
	}
	m.clearCookie(c)
	c.Locals(identityKey, nil)
	c.Locals(sidKey, nil)
	return err
}

// IsAuthenticated reports whether a session identity is attached to the request.
func IsAuthenticated(c *fiber.Ctx) bool {
	_, ok := CurrentIdentity(c)
	return ok
}

// CurrentIdentity returns the identity attached by Middleware or Login.
func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(identityKey).(Identity)
	if !ok || identity.Username == "" {
		return Identity{}, false
	}
	return identity, true
}

func (m *Manager) signReference(sid string, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Id:        sid,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	})
	return token.SignedString(m.secret)
}

func (m *Manager) parseReference(raw string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid session reference: %w", err)
	}
	if !token.Valid || claims.Id == "" {
		return "", fmt.Errorf("invalid session reference")
	}
	return claims.Id, nil
}

func (m *Manager) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

package session

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is where the JWT middleware stores the verified *jwt.Token.
const ContextKey = "user"

var ErrNoSession = errors.New("no session in context")

// FromContext returns the claims of the verified session token, if any.
// Tokens without an expiry or a user id are rejected with ErrInvalidToken.
func FromContext(c *fiber.Ctx) (*Claims, error) {
	token, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoSession
	}
	if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrNoSession
	}
	return claimsFromMap(claims)
}

// GetUserID extracts the user id from the session in context.
func GetUserID(c *fiber.Ctx) (uint, error) {
	claims, err := FromContext(c)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// OptionalUserID returns the session user id or nil for anonymous requests.
func OptionalUserID(c *fiber.Ctx) *uint {
	id, err := GetUserID(c)
	if err != nil {
		return nil
	}
	return &id
}

// SetCookie writes the session cookie.
func SetCookie(c *fiber.Ctx, token string, ttl time.Duration, secure bool, domain string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   domain,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(c *fiber.Ctx, secure bool, domain string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

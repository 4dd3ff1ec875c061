package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vitacross/vitacross-api/internal/config"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/session"

	jwtware "github.com/gofiber/contrib/jwt"
)

// the session cookie is read first; API clients may send a bearer token
var tokenLookup = "cookie:" + session.CookieName + ",header:Authorization"

func jwtConfig(cfg *config.Config) jwtware.Config {
	return jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		TokenLookup: tokenLookup,
		AuthScheme:  "Bearer",
		ContextKey:  session.ContextKey,
	}
}

// JWTProtected rejects requests without a valid session.
func JWTProtected(cfg *config.Config) fiber.Handler {
	jc := jwtConfig(cfg)
	jc.ErrorHandler = func(c *fiber.Ctx, err error) error {
		return unauthorized(c)
	}
	// the signature check does not require exp; FromContext does
	jc.SuccessHandler = func(c *fiber.Ctx) error {
		if _, err := session.FromContext(c); err != nil {
			return unauthorized(c)
		}
		return c.Next()
	}
	return jwtware.New(jc)
}

// SessionOptional attaches the session when one is present and lets
// anonymous requests through.
func SessionOptional(cfg *config.Config) fiber.Handler {
	jc := jwtConfig(cfg)
	jc.ErrorHandler = func(c *fiber.Ctx, err error) error {
		return c.Next()
	}
	jc.SuccessHandler = func(c *fiber.Ctx) error {
		if _, err := session.FromContext(c); err != nil {
			c.Locals(session.ContextKey, nil)
		}
		return c.Next()
	}
	return jwtware.New(jc)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized: invalid or expired session",
	})
}

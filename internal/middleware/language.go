package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vitacross/vitacross-api/internal/i18n"
)

const languageKey = "lang"

// Language resolves the visitor language and remembers an explicit ?lang=
// choice in a cookie.
func Language() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, persist := i18n.Resolve(
			c.Query(i18n.LangParam),
			c.Cookies(i18n.LangCookieName),
			c.Get(fiber.HeaderAcceptLanguage),
		)
		c.Locals(languageKey, code)

		if persist {
			c.Cookie(&fiber.Cookie{
				Name:     i18n.LangCookieName,
				Value:    code,
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		return c.Next()
	}
}

// Lang returns the language resolved for the request.
func Lang(c *fiber.Ctx) string {
	if code, ok := c.Locals(languageKey).(string); ok && code != "" {
		return code
	}
	return i18n.English
}

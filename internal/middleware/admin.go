package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vitacross/vitacross-api/internal/config"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/models"
	"github.com/vitacross/vitacross-api/internal/session"
	"gorm.io/gorm"
)

const isAdminKey = "is_admin"

// AdminRequired lets a session through when:
// 1. its email is listed in ADMIN_EMAILS
// 2. the stored account has the admin role
// The role claim in the token is not trusted on its own.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := config.CSV(strings.ToLower(cfg.AdminEmails))

	return func(c *fiber.Ctx) error {
		claims, err := session.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if isStaff(db, adminEmails, claims) {
			c.Locals(isAdminKey, true)
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

// ResolveAdmin marks staff sessions on routes that serve both patients and
// staff. It never rejects a request.
func ResolveAdmin(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := config.CSV(strings.ToLower(cfg.AdminEmails))

	return func(c *fiber.Ctx) error {
		claims, err := session.FromContext(c)
		if err != nil {
			return c.Next()
		}
		if isStaff(db, adminEmails, claims) {
			c.Locals(isAdminKey, true)
		}
		return c.Next()
	}
}

// IsAdmin reports whether AdminRequired or ResolveAdmin accepted the session
// as staff.
func IsAdmin(c *fiber.Ctx) bool {
	v, _ := c.Locals(isAdminKey).(bool)
	return v
}

func isStaff(db *gorm.DB, adminEmails []string, claims *session.Claims) bool {
	if contains(adminEmails, strings.ToLower(claims.Email)) {
		return true
	}
	var user models.User
	if err := db.Select("id", "role").First(&user, claims.UserID).Error; err != nil {
		return false
	}
	return user.IsAdmin()
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}

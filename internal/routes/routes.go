package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/vitacross/vitacross-api/internal/config"
	"github.com/vitacross/vitacross-api/internal/handlers"
	"github.com/vitacross/vitacross-api/internal/middleware"
	"gorm.io/gorm"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Health        *handlers.HealthHandler
	Legal         *handlers.LegalHandler
	Settings      *handlers.SettingsHandler
	Consultations *handlers.ConsultationHandler
	Files         *handlers.MedicalFileHandler
	Catalog       *handlers.CatalogHandler
	Orders        *handlers.OrderHandler
	Admin         *handlers.AdminHandler
	Webhooks      *handlers.WebhookHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h *Handlers) {
	api := app.Group("/api")

	// General API rate limiter per IP
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitPerMin,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	api.Use(middleware.Language())

	protected := middleware.JWTProtected(cfg)
	optional := middleware.SessionOptional(cfg)
	staff := middleware.ResolveAdmin(db, cfg)

	api.Get("/health", h.Health.Check)

	// Public site content
	api.Get("/services", h.Catalog.List)
	api.Get("/settings", h.Settings.GetSettings)
	api.Get("/legal/privacy", h.Legal.PrivacyPolicy)
	api.Get("/legal/terms", h.Legal.TermsOfService)

	// Auth, stricter limit per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               cfg.AuthRateLimitPerMin,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Get("/health", h.Auth.Health)
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/logout", h.Auth.Logout)
	auth.Post("/google/callback", h.Auth.GoogleCallback)
	auth.Post("/apple/callback", h.Auth.AppleCallback)
	auth.Post("/send-verification-code", h.Auth.SendVerificationCode)
	auth.Post("/verify-email-code", h.Auth.VerifyEmailCode)
	auth.Get("/me", protected, h.Auth.Me)
	auth.Put("/profile", protected, h.Auth.UpdateProfile)
	auth.Put("/preferences", protected, h.Auth.UpdatePreferences)
	auth.Delete("/account", protected, h.Auth.DeleteAccount)

	// Consultations: anyone may submit, patients read their own
	api.Post("/consultations", optional, h.Consultations.Create)
	api.Get("/consultations", protected, h.Consultations.ListMine)
	api.Get("/consultations/:id", protected, staff, h.Consultations.Get)
	api.Post("/consultations/:id/files", h.Files.Upload)
	api.Get("/consultations/:id/files", protected, staff, h.Files.ListByConsultation)
	api.Post("/medical-files", h.Files.CreateMetadata)
	api.Get("/medical-files/:id/download", protected, staff, h.Files.Download)

	// Orders
	api.Post("/orders", protected, h.Orders.Create)
	api.Get("/orders", protected, h.Orders.ListMine)

	// Webhooks, shared secret auth (no session)
	webhooks := api.Group("/webhooks")
	webhooks.Post("/payments", h.Webhooks.HandlePayment)

	// Admin back office (session + admin required)
	admin := api.Group("/admin", protected, middleware.AdminRequired(db, cfg))
	admin.Get("/dashboard", h.Admin.Dashboard)
	admin.Get("/users", h.Admin.ListUsers)
	admin.Put("/users/:id/role", h.Admin.SetRole)
	admin.Delete("/users/:id", h.Admin.DeleteUser)
	admin.Get("/consultations", h.Consultations.List)
	admin.Put("/consultations/:id", h.Consultations.Update)
	admin.Delete("/medical-files/:id", h.Files.Delete)
	admin.Post("/services", h.Catalog.Create)
	admin.Put("/services/:id", h.Catalog.Update)
	admin.Delete("/services/:id", h.Catalog.Delete)
	admin.Get("/orders", h.Orders.List)
	admin.Put("/orders/:id/status", h.Orders.SetStatus)
	admin.Get("/payments", h.Orders.Payments)
	admin.Put("/settings/:key", h.Settings.SetKey)
	admin.Delete("/settings/:key", h.Settings.DeleteKey)
}

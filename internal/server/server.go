// Package server assembles the Fiber application from its dependencies.
package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/vitacross/vitacross-api/internal/config"
	"github.com/vitacross/vitacross-api/internal/handlers"
	"github.com/vitacross/vitacross-api/internal/mailer"
	"github.com/vitacross/vitacross-api/internal/middleware"
	"github.com/vitacross/vitacross-api/internal/routes"
	"github.com/vitacross/vitacross-api/internal/services"
	"github.com/vitacross/vitacross-api/internal/session"
	"github.com/vitacross/vitacross-api/internal/storage"
	"gorm.io/gorm"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
)

// Deps are the external resources the API runs against.
type Deps struct {
	DB        *gorm.DB
	Store     storage.Store
	Mailer    mailer.Mailer
	Verifiers map[string]services.IdentityVerifier
	// AccessLog enables the per-request log line.
	AccessLog bool
}

// Services are built once per application and shared by handlers.
type Services struct {
	Auth          *services.AuthService
	Consultations *services.ConsultationService
	Files         *services.MedicalFileService
	Catalog       *services.CatalogService
	Orders        *services.OrderService
	Admin         *services.AdminService
	Settings      *services.SettingsService
}

func NewServices(cfg *config.Config, deps Deps) *Services {
	mail := deps.Mailer
	if mail == nil {
		mail = mailer.NewLogMailer()
	}
	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL)

	return &Services{
		Auth:          services.NewAuthService(deps.DB, sessions, mail, deps.Verifiers),
		Consultations: services.NewConsultationService(deps.DB, mail, cfg.StaffEmail),
		Files:         services.NewMedicalFileService(deps.DB, deps.Store, cfg.UploadMaxBytes()),
		Catalog:       services.NewCatalogService(deps.DB),
		Orders:        services.NewOrderService(deps.DB),
		Admin:         services.NewAdminService(deps.DB),
		Settings:      services.NewSettingsService(deps.DB),
	}
}

// New builds the Fiber app with global middleware and all routes.
func New(cfg *config.Config, deps Deps, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		// uploads plus multipart overhead
		BodyLimit:    int(cfg.UploadMaxBytes()) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	if deps.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	}
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	routes.Setup(app, cfg, deps.DB, &routes.Handlers{
		Auth:          handlers.NewAuthHandler(svc.Auth, cfg),
		Health:        handlers.NewHealthHandler(deps.DB),
		Legal:         handlers.NewLegalHandler(),
		Settings:      handlers.NewSettingsHandler(svc.Settings),
		Consultations: handlers.NewConsultationHandler(svc.Consultations),
		Files:         handlers.NewMedicalFileHandler(svc.Files, svc.Consultations),
		Catalog:       handlers.NewCatalogHandler(svc.Catalog),
		Orders:        handlers.NewOrderHandler(svc.Orders),
		Admin:         handlers.NewAdminHandler(svc.Admin),
		Webhooks:      handlers.NewWebhookHandler(svc.Orders, cfg.PaymentWebhookSecret),
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

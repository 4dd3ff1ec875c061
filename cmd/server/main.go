package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/vitacross/vitacross-api/internal/config"
	"github.com/vitacross/vitacross-api/internal/database"
	"github.com/vitacross/vitacross-api/internal/logging"
	"github.com/vitacross/vitacross-api/internal/mailer"
	"github.com/vitacross/vitacross-api/internal/server"
	"github.com/vitacross/vitacross-api/internal/services"
	"github.com/vitacross/vitacross-api/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup(os.Getenv("LOG_LEVEL"))

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.SetupWithDB(os.Getenv("LOG_LEVEL"), database.DB)

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Object storage for medical files
	store, err := storage.New(startupCtx, cfg)
	if err != nil {
		slog.Error("storage init failed", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	if store == nil {
		slog.Warn("file storage disabled, uploads will be rejected")
	}

	// Mail
	mail, closeMail, err := mailer.New(cfg)
	if err != nil {
		slog.Error("mailer init failed", "driver", cfg.MailDriver, "error", err)
		os.Exit(1)
	}

	// OAuth identity token verifiers
	verifiers := map[string]services.IdentityVerifier{}
	var jwksVerifiers []*services.JWKSVerifier
	if ids := config.CSV(cfg.GoogleClientIDs); len(ids) > 0 {
		v, err := services.NewGoogleVerifier(ids)
		if err != nil {
			slog.Error("google sign-in disabled", "error", err)
		} else {
			verifiers[services.ProviderGoogle] = v
			jwksVerifiers = append(jwksVerifiers, v)
		}
	}
	if ids := config.CSV(cfg.AppleClientIDs); len(ids) > 0 {
		v, err := services.NewAppleVerifier(ids)
		if err != nil {
			slog.Error("apple sign-in disabled", "error", err)
		} else {
			verifiers[services.ProviderApple] = v
			jwksVerifiers = append(jwksVerifiers, v)
		}
	}

	deps := server.Deps{
		DB:        database.DB,
		Store:     store,
		Mailer:    mail,
		Verifiers: verifiers,
		AccessLog: true,
	}

	// Seed catalogue and site settings
	slog.Info("seeding defaults")
	svc := server.NewServices(cfg, deps)
	if err := svc.Catalog.SeedDefaults(); err != nil {
		slog.Error("catalogue seed failed", "error", err)
	}
	if err := svc.Settings.SeedDefaults(); err != nil {
		slog.Error("settings seed failed", "error", err)
	}

	app := server.New(cfg, deps, svc)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	for _, v := range jwksVerifiers {
		v.Close()
	}
	if err := closeMail(); err != nil {
		slog.Error("mailer close error", "error", err)
	}
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

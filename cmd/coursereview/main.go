// Package main is the entry point for the course review API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"coursereview/internal/auth"
	"coursereview/internal/cache"
	"coursereview/internal/config"
	"coursereview/internal/database"
	"coursereview/internal/handlers"
	"coursereview/internal/middleware"
	"coursereview/internal/respond"
	"coursereview/internal/router"
	"coursereview/internal/store"
)

func main() {
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON elsewhere.
	var logHandler slog.Handler
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	ctx := context.Background()

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN(), database.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed a development administrator (no-op if users exist).
	if cfg.IsDev() {
		if err := database.Seed(db, cfg.DefaultPassword, cfg.BcryptSaltRounds); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for response caching (optional, app works without it).
	var responses *cache.JSONCache
	if cfg.ValkeyEnabled() {
		valkeyClient, err := cache.ConnectValkey(ctx, cache.Endpoint{
			Host:     cfg.ValkeyHost,
			Port:     cfg.ValkeyPort,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
		})
		if err != nil {
			slog.Warn("valkey unavailable, response caching disabled", "error", err)
		} else {
			defer valkeyClient.Close()
			responses = cache.NewJSONCache(valkeyClient, cache.DefaultTTL)
		}
	} else {
		slog.Warn("valkey not configured, response caching disabled")
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	courseStore := store.NewCourseStore(db)
	reviewStore := store.NewReviewStore(db, courseStore)

	// Credentials: hashing, token issuance, login and password rotation.
	hasher := auth.NewHasher(cfg.BcryptSaltRounds)
	issuer := auth.NewIssuer(cfg.JWTAccessSecret, cfg.JWTAccessExpiresIn)
	authenticator := auth.NewAuthenticator(userStore, hasher, issuer)
	rotation := auth.NewRotationPolicy(userStore, hasher)

	rs := respond.New(cfg.IsDev())

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, cfg.TrustProxy)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Responder:   rs,
		Verifier:    issuer,
		Users:       userStore,
		AuthLimiter: limiter,
		CORSOrigins: cfg.CORSOrigins,
		Auth:        handlers.NewAuth(rs, userStore, authenticator, rotation, hasher, cfg.DefaultPassword),
		Catalog:     handlers.NewCatalog(rs, categoryStore, courseStore, reviewStore, responses),
		Public:      handlers.NewPublic(rs, db),
	})

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

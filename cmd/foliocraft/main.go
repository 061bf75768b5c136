// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Foliocraft server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foliocraft/internal/authoring"
	"foliocraft/internal/cache"
	"foliocraft/internal/config"
	"foliocraft/internal/database"
	"foliocraft/internal/engine"
	"foliocraft/internal/handlers"
	"foliocraft/internal/media"
	"foliocraft/internal/middleware"
	"foliocraft/internal/router"
	"foliocraft/internal/session"
	"foliocraft/internal/storage"
	"foliocraft/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Text logs at debug level in development, JSON elsewhere.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"catalog_page_size", cfg.CatalogPageSize,
	)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Cookies are only written by the development login; elsewhere the
	// identity service owns them.
	sessionStore := session.NewStore(valkeyClient, !cfg.IsDev())

	userStore := store.NewUserStore(db)
	projectStore := store.NewProjectStore(db)
	portfolioStore := store.NewPortfolioStore(db)
	mediaStore := store.NewMediaStore(db)

	// Object storage is optional; without it media modals answer 503.
	var uploader media.Uploader
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		uploader = media.NewService(storageClient, mediaStore, userStore)
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, avatar and banner uploads disabled")
	}

	eng := engine.New()
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	// Renderers may have changed since the pages were cached.
	pageCache.InvalidateAll(context.Background())

	registry := authoring.NewRegistry(cfg.AuthoringTTL)
	defer registry.Stop()

	uploadLimit := middleware.NewRateLimiter(cfg.UploadRateLimit, time.Minute)
	defer uploadLimit.Stop()

	deps := router.Deps{
		Sessions:    sessionStore,
		Authoring:   handlers.NewAuthoring(registry, userStore, projectStore, portfolioStore, eng, pageCache, cfg.CatalogPageSize),
		Media:       handlers.NewMedia(registry, userStore, uploader, media.DecodePreview, pageCache),
		Public:      handlers.NewPublic(portfolioStore, eng, pageCache),
		UploadLimit: uploadLimit,
		CORSOrigins: cfg.CORSOrigins,
		Checks: map[string]router.Check{
			"postgres": db.PingContext,
			"valkey": func(ctx context.Context) error {
				return valkeyClient.Ping(ctx).Err()
			},
		},
	}
	if cfg.IsDev() {
		deps.Dev = handlers.NewDev(sessionStore, userStore, database.DevUserEmail)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.New(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

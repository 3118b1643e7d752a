// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/darchive/internal/cache"
	"github.com/olegiv/darchive/internal/config"
	"github.com/olegiv/darchive/internal/geoip"
	"github.com/olegiv/darchive/internal/imaging"
	"github.com/olegiv/darchive/internal/logging"
	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/render"
	"github.com/olegiv/darchive/internal/scheduler"
	"github.com/olegiv/darchive/internal/service"
	"github.com/olegiv/darchive/internal/session"
	"github.com/olegiv/darchive/internal/store"
	"github.com/olegiv/darchive/internal/version"
	"github.com/olegiv/darchive/web"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "darchive - digital archive server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DARCHIVE_SESSION_SECRET  Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DARCHIVE_DB_PATH         SQLite database path (default: ./data/darchive.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DARCHIVE_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DARCHIVE_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DARCHIVE_UPLOADS_DIR     Uploaded images (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DARCHIVE_REDIS_URL       Redis URL for the read cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DARCHIVE_GEOIP_DB_PATH   GeoLite2 country database (optional)\n")
	}
	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("darchive %s\n", version.Get())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(logging.NewTextHandler(os.Stdout, cfg.LogLevel))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// From here on WARN and ERROR records are also written to the event log.
	logger = slog.New(logging.NewEventLogHandler(logging.NewTextHandler(os.Stdout, cfg.LogLevel), db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	sessionManager := session.New(db, session.Options{
		IsDev:           cfg.IsDevelopment(),
		Lifetime:        cfg.SessionLifetime(),
		CleanupInterval: 5 * time.Minute,
	})

	readCache, backend := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	defer func() { _ = readCache.Close() }()
	slog.Info("cache initialized", "backend", backend)

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip database unavailable", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = geo.Close() }()

	services := service.New(db, service.Options{
		Cache:     readCache,
		CacheTTL:  cfg.CacheTTLDuration(),
		Processor: imaging.NewProcessor(cfg.UploadsDir, "/uploads"),
		GeoIP:     geo,
		Logger:    logger,
	})

	renderer, err := render.New(render.Config{TemplatesFS: web.TemplateFS()})
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	apiLimiter := middleware.NewGlobalRateLimiter(cfg.APIRateLimit, cfg.APIRateBurst)

	sched := scheduler.New(logger)
	jobs := []scheduler.Job{
		scheduler.CleanupJob("cleanup-limiters", "Drop stale rate limiter and login attempt state",
			loginProtection.Cleanup, apiLimiter.Cleanup),
	}
	if cfg.EventRetentionDays > 0 {
		retention := time.Duration(cfg.EventRetentionDays) * 24 * time.Hour
		jobs = append(jobs, scheduler.PruneEventsJob(services.Events, retention, logger))
	}
	if cfg.GeoIPEnabled() {
		jobs = append(jobs, scheduler.ReloadGeoIPJob(geo))
	}
	for _, job := range jobs {
		if err := sched.Register(job); err != nil {
			return fmt.Errorf("registering job: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	router := newRouter(routerDeps{
		DB:              db,
		Services:        services,
		SessionManager:  sessionManager,
		Renderer:        renderer,
		LoginProtection: loginProtection,
		APILimiter:      apiLimiter,
		UploadsDir:      cfg.UploadsDir,
		SessionSecret:   cfg.SessionSecret,
		IsDev:           cfg.IsDevelopment(),
		RequestLog:      true,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

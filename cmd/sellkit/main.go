// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Command sellkit runs the sales-page workspace server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/sellkit/sellkit/internal/cache"
	"github.com/sellkit/sellkit/internal/config"
	"github.com/sellkit/sellkit/internal/fx"
	"github.com/sellkit/sellkit/internal/geoip"
	"github.com/sellkit/sellkit/internal/handler"
	"github.com/sellkit/sellkit/internal/logging"
	"github.com/sellkit/sellkit/internal/scheduler"
	"github.com/sellkit/sellkit/internal/service"
	"github.com/sellkit/sellkit/internal/store"
	"github.com/sellkit/sellkit/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "sellkit - sales page workspace\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SELLKIT_DB_PATH            SQLite database path (default: ./data/sellkit.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SELLKIT_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SELLKIT_BASE_URL           Public origin for share links (default: http://localhost:8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SELLKIT_DEFAULT_CURRENCY   Fallback display currency (default: USD)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SELLKIT_RATE_PROVIDER_URL  Exchange-rate provider endpoint (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SELLKIT_GEO_PROVIDER_URL   Visitor-currency lookup endpoint (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SELLKIT_GEOIP_DB_PATH      GeoLite2-Country.mmdb path (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SELLKIT_REDIS_URL          Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		info := version.Get()
		_, _ = fmt.Printf("sellkit %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database ready")

	// From here on, warnings and errors also land in the event log.
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	backend := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxItems:        cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	defer func() { _ = backend.Close() }()

	var geo *geoip.Lookup
	if cfg.GeoIPEnabled() {
		geo = geoip.NewLookup()
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			logger.Warn("geoip init failed, visitor currency falls back to default",
				"category", "system", "error", err)
		}
		defer geo.Close()
	}

	fxService := fx.NewService(backend, geo, fx.Options{
		GeoProviderURL:  cfg.GeoProviderURL,
		RateProviderURL: cfg.RateProviderURL,
		DefaultCurrency: cfg.DefaultCurrency,
		RateTTL:         cfg.RateCacheTTL(),
		ProviderRPS:     float64(cfg.ProviderRPS),
	})

	annotator := fx.NewAnnotator()
	pages := service.NewPages(store.New(db), annotator, cfg.DefaultCurrency, logger)

	sched := scheduler.New(db, fxService, geo, []string{cfg.DefaultCurrency}, logger)
	if cfg.RateProviderURL != "" {
		if err := sched.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	h := handler.New(pages, fxService, annotator, backend, cfg.BaseURL, logger)
	handler.Routes(r, h, db)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

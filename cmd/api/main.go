// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the meeple HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when a search cache is configured.
//  5. Run database migrations (idempotent).
//  6. Wire the upstream client and the thing pipeline.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/meeple/internal/api"
	"github.com/taibuivan/meeple/internal/core/thing"
	"github.com/taibuivan/meeple/internal/platform/config"
	"github.com/taibuivan/meeple/internal/platform/constants"
	"github.com/taibuivan/meeple/internal/platform/migration"
	pgstore "github.com/taibuivan/meeple/internal/platform/postgres"
	redisstore "github.com/taibuivan/meeple/internal/platform/redis"
	"github.com/taibuivan/meeple/internal/upstream/bgg"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo, false)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug || cfg.IsDevelopment() {
		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		log = newLogger(level, cfg.IsDevelopment())
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("upstream", cfg.BggBaseURL),
		slog.Int("upstream_concurrency", cfg.UpstreamConcurrency),
		slog.Bool("search_cache", cfg.SearchCacheEnabled()),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	// Every in-flight chunk may persist concurrently, plus request lookups.
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, int32(cfg.UpstreamConcurrency*2), log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var (
		rdb         *goredis.Client
		searchCache thing.SearchCache
	)
	if cfg.SearchCacheEnabled() {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}()
		searchCache = thing.NewRedisSearchCache(rdb, cfg.SearchCacheTTL)
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Health handlers ────────────────────────────────────────────────
	health := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
	}
	if rdb != nil {
		health.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}
	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 7. Domain wiring ──────────────────────────────────────────────────
	upstream := bgg.NewClient(cfg.BggBaseURL, log,
		bgg.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		bgg.WithToken(cfg.BggToken),
	)
	repository := thing.NewPostgresRepository(pool)
	service := thing.NewService(upstream, repository, searchCache, cfg.UpstreamConcurrency, log)

	// ── 8. HTTP server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Thing:     thing.NewHandler(service),
	})

	// ── 9. Graceful shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger tagged with the application name and
// installs it as the process default. Development builds record call sites.
func newLogger(level slog.Level, addSource bool) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	})).With(slog.String("app", constants.AppName))
	slog.SetDefault(logger)
	return logger
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobtrack/jobtrack/internal/cache"
	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/internal/metrics"
	"github.com/jobtrack/jobtrack/internal/middleware"
	"github.com/jobtrack/jobtrack/internal/repository"
	"github.com/jobtrack/jobtrack/internal/server"
	"github.com/jobtrack/jobtrack/internal/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logger, closeLog := initLogger(cfg)
	defer closeLog()

	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return fmt.Errorf("connect database: %s", sanitizeError(err, cfg.DatabaseURL))
	}
	logger.Info("connected to database")

	if cfg.MigrateOnStart {
		applied, err := repo.Migrate(ctx)
		if err != nil {
			repo.Close()
			logger.Error("failed to apply migrations", "error", err)
			return err
		}
		logger.Info("migrations applied", "versions", applied)
	}

	var cacheClient *cache.Cache
	if cfg.CacheEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cfg.UserCacheTTL)
		if err != nil {
			repo.Close()
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return fmt.Errorf("connect redis: %s", sanitizeError(err, cfg.RedisURL))
		}
		logger.Info("connected to Redis")
	} else {
		logger.Warn("REDIS_URL not set; user cache and rate limiting disabled")
	}

	recorder := metrics.NewInMemory()
	deps := routerDeps{
		Config:   cfg,
		Logger:   logger,
		Version:  version,
		Database: repo,
		Metrics:  recorder,
	}

	// Interface values stay nil when Redis is off so optional checks see a nil interface.
	var userCache service.UserCache
	if cacheClient != nil {
		deps.Cache = cacheClient
		deps.Limiter = cacheClient
		userCache = cacheClient
	}
	deps.Users = service.NewUserManager(repo, userCache, recorder, logger)
	deps.Jobs = service.NewJobAppManager(repo, recorder, logger)

	srv := server.New(setupRouter(deps), server.Options{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("database", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"version", version,
		"identity_header", cfg.IdentityHeader,
		"cache_enabled", cfg.CacheEnabled(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

// rateLimitConfig builds the per-caller limiter settings from config.
func rateLimitConfig(cfg *config.Config, limiter middleware.RateLimiter, logger *slog.Logger) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Logger:            logger,
		Limiter:           limiter,
		Enabled:           cfg.RateLimitEnabled,
		RequestsPerMinute: cfg.RateLimitRPM,
		Burst:             cfg.RateLimitBurst,
	}
}

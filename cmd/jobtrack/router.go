package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/internal/handler"
	"github.com/jobtrack/jobtrack/internal/metrics"
	"github.com/jobtrack/jobtrack/internal/middleware"
)

// routerDeps collects everything setupRouter wires together.
// Cache and Limiter are nil when Redis is not configured.
type routerDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Version  string
	Database handler.HealthChecker
	Cache    handler.HealthChecker
	Limiter  middleware.RateLimiter
	Metrics  metrics.Snapshotter
	Users    handler.UserService
	Jobs     handler.JobService
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) http.Handler {
	cfg := deps.Config
	logger := deps.Logger

	h := handler.New(deps.Version)
	healthHandler := handler.NewHealthHandler(deps.Database, deps.Cache)
	metricsHandler := handler.NewMetricsHandler(deps.Metrics)
	userHandler := handler.NewUserHandler(deps.Users, logger)
	jobHandler := handler.NewJobHandler(deps.Jobs, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Probes and service info (no identity required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)
	r.Get("/", h.Hello)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(middleware.IdentityConfig{
			Logger: logger,
			Header: cfg.IdentityHeader,
		}))
		r.Use(middleware.RateLimitCaller(rateLimitConfig(cfg, deps.Limiter, logger)))

		r.Post("/users", userHandler.Create)
		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", userHandler.Get)
			r.Patch("/", userHandler.Update)
			r.Delete("/", userHandler.Delete)
			r.Put("/email", userHandler.UpdateEmail)
			r.Put("/first-name", userHandler.UpdateFirstName)
			r.Put("/last-name", userHandler.UpdateLastName)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.List)
			r.Post("/", jobHandler.Create)
			r.Get("/{id}", jobHandler.Get)
			r.Patch("/{id}", jobHandler.Update)
			r.Delete("/{id}", jobHandler.Delete)
			r.Put("/{id}/status", jobHandler.UpdateStatus)
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

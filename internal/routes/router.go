package routes

import (
	"net/http"

	"infinite-experiment/coursehub/internal/api"
	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/config"
	"infinite-experiment/coursehub/internal/logging"
	"infinite-experiment/coursehub/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RegisterRoutes builds the HTTP handler for every API route.
func RegisterRoutes(cfg *config.Config, deps *api.Dependencies, verifier auth.Verifier) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(deps.Registry, deps.Router, deps.UpSince))

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, "127.0.0.1", "::1")
	}

	RegisterAPIRoutes(r, deps, verifier, limiter)

	return r
}

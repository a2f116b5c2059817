package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"infinite-experiment/coursehub/internal/api"
	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/config"
	"infinite-experiment/coursehub/internal/db"
	"infinite-experiment/coursehub/internal/logging"
	"infinite-experiment/coursehub/internal/metrics"
	"infinite-experiment/coursehub/internal/routes"
	"infinite-experiment/coursehub/internal/workers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 15 * time.Second

// @title Coursehub API
// @version 1.0
// @description Multi-tenant course platform backend.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Initialize structured logging
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Coursehub starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to the registry with sqlx, then layer GORM over the same pool
	registry, err := db.InitPostgres(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (sqlx)")

	orm, err := db.InitPostgresORM(registry, cfg.RegistryAutoMigrate)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}

	cache := newCache(cfg)
	defer cache.Close()

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, registry, orm, cache, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	if cfg.IdentityJWTSecret == "" {
		logging.Warn("IDENTITY_JWT_SECRET not set, every authenticated request will be rejected")
	}
	router := routes.RegisterRoutes(cfg, deps, auth.NewJWTVerifier(cfg.IdentityJWTSecret))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers.InitWorkers(ctx, deps.Services.Aggregator, cfg.LeaderboardRefreshInterval)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router) // Mount Chi router at root
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
	if err := deps.Close(); err != nil {
		logging.Error("Failed to close course databases", "error", err.Error())
	}
	if err := registry.Close(); err != nil {
		logging.Error("Failed to close registry", "error", err.Error())
	}
}

// newCache prefers Redis when configured and falls back to the in-process cache.
func newCache(cfg *config.Config) common.CacheInterface {
	if cfg.RedisEnabled() {
		client := common.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
		redisCache, err := common.NewRedisCacheService(client)
		if err == nil {
			logging.Info("Using Redis cache", "host", cfg.RedisHost)
			return redisCache
		}
		logging.Warn("Redis unavailable, using in-memory cache", "error", err.Error())
		_ = client.Close()
	}
	return common.NewCacheService(cfg.LeaderboardCacheTTL, 10*time.Minute)
}

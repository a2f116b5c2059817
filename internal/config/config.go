package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required")

type Config struct {
	AppEnv string
	Port   int

	DatabaseURL         string
	RegistryAutoMigrate bool

	IdentityJWTSecret string

	TenantConnectTimeout time.Duration
	TenantAutoMigrate    bool
	TenantMaxOpenConns   int
	TenantMaxIdleConns   int

	AggregatorConcurrency      int
	LeaderboardCacheTTL        time.Duration
	LeaderboardRefreshInterval time.Duration

	RedisHost     string
	RedisPort     string
	RedisPassword string

	CredentialsSealingKey string

	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins []string
}

// Load reads the process configuration from the environment.
// A missing DATABASE_URL is the only fatal condition.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:                     String("APP_ENV", "development"),
		Port:                       Int("PORT", 8080),
		DatabaseURL:                String("DATABASE_URL", ""),
		RegistryAutoMigrate:        Bool("REGISTRY_AUTO_MIGRATE", false),
		IdentityJWTSecret:          String("IDENTITY_JWT_SECRET", ""),
		TenantConnectTimeout:       Duration("TENANT_CONNECT_TIMEOUT", 5*time.Second),
		TenantAutoMigrate:          Bool("TENANT_AUTO_MIGRATE", false),
		TenantMaxOpenConns:         Int("TENANT_MAX_OPEN_CONNS", 10),
		TenantMaxIdleConns:         Int("TENANT_MAX_IDLE_CONNS", 2),
		AggregatorConcurrency:      Int("AGGREGATOR_CONCURRENCY", 8),
		LeaderboardCacheTTL:        Duration("LEADERBOARD_CACHE_TTL", time.Minute),
		LeaderboardRefreshInterval: Duration("LEADERBOARD_REFRESH_INTERVAL", 0),
		RedisHost:                  String("REDIS_HOST", ""),
		RedisPort:                  String("REDIS_PORT", "6379"),
		RedisPassword:              String("REDIS_PASSWORD", ""),
		CredentialsSealingKey:      String("CREDENTIALS_SEALING_KEY", ""),
		RateLimitRPS:               Float("RATE_LIMIT_RPS", 10),
		RateLimitBurst:             Int("RATE_LIMIT_BURST", 20),
		CORSAllowedOrigins:         List("CORS_ALLOWED_ORIGINS", []string{"https://*", "http://localhost:5173"}),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.AggregatorConcurrency < 1 {
		cfg.AggregatorConcurrency = 1
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func (c *Config) RedisEnabled() bool { return c.RedisHost != "" }

func String(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func Int(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Float(name string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func Bool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Duration accepts Go duration strings ("5s") or a bare number of seconds.
func Duration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func List(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the adserve application.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	ClickHouse ClickHouseConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
	Metrics    MetricsConfig
	Serving    ServingConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// ClickHouseConfig configures the optional raw-event warehouse. When
// disabled, raw events land in PostgreSQL instead.
type ClickHouseConfig struct {
	Enabled  bool
	Addr     string
	Database string
	Username string
	Password string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled     bool
	IngestRPS   float64
	IngestBurst int
	MgmtRPS     float64
	MgmtBurst   int
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// ServingConfig holds ad-serving settings.
type ServingConfig struct {
	// SeenTTL is how long a package's served-ad set is remembered
	// before rotation restarts.
	SeenTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("ADSERVE_HTTP_ADDR", ":8080"),
			Env:             getEnv("ADSERVE_ENV", "development"),
			ShutdownTimeout: getDurationEnv("ADSERVE_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("ADSERVE_DB_HOST", "localhost"),
			Port:     getIntEnv("ADSERVE_DB_PORT", 5432),
			User:     getEnv("ADSERVE_DB_USER", "adserve"),
			Password: getEnv("ADSERVE_DB_PASSWORD", "adserve_secret"),
			DBName:   getEnv("ADSERVE_DB_NAME", "adserve"),
			SSLMode:  getEnv("ADSERVE_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("ADSERVE_DB_MAX_CONNS", 25),
			MinConns: getIntEnv("ADSERVE_DB_MIN_CONNS", 5),
		},
		ClickHouse: ClickHouseConfig{
			Enabled:  getBoolEnv("ADSERVE_CLICKHOUSE_ENABLED", false),
			Addr:     getEnv("ADSERVE_CLICKHOUSE_ADDR", "localhost:9000"),
			Database: getEnv("ADSERVE_CLICKHOUSE_DB", "adserve"),
			Username: getEnv("ADSERVE_CLICKHOUSE_USER", "default"),
			Password: getEnv("ADSERVE_CLICKHOUSE_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("ADSERVE_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("ADSERVE_REDIS_PASSWORD", ""),
			DB:       getIntEnv("ADSERVE_REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled:     getBoolEnv("ADSERVE_RATE_LIMIT_ENABLED", true),
			IngestRPS:   getFloatEnv("ADSERVE_RATE_LIMIT_INGEST_RPS", 1000),
			IngestBurst: getIntEnv("ADSERVE_RATE_LIMIT_INGEST_BURST", 200),
			MgmtRPS:     getFloatEnv("ADSERVE_RATE_LIMIT_MGMT_RPS", 100),
			MgmtBurst:   getIntEnv("ADSERVE_RATE_LIMIT_MGMT_BURST", 20),
		},
		Log: LogConfig{
			Level:  getEnv("ADSERVE_LOG_LEVEL", "info"),
			Format: getEnv("ADSERVE_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("ADSERVE_METRICS_ENABLED", true),
			Path:    getEnv("ADSERVE_METRICS_PATH", "/metrics"),
		},
		Serving: ServingConfig{
			SeenTTL: getDurationEnv("ADSERVE_SEEN_TTL", 25*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that configuration values are coherent.
func (c *Config) Validate() error {
	if c.RateLimit.Enabled {
		if c.RateLimit.IngestRPS <= 0 || c.RateLimit.MgmtRPS <= 0 {
			return fmt.Errorf("rate limits must be positive when enabled")
		}
	}
	if c.Serving.SeenTTL <= 0 {
		return fmt.Errorf("ADSERVE_SEEN_TTL must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

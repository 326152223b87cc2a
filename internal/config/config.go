package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration read from the environment.
type Config struct {
	Port        int
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	ReportsBucket  string

	LogLevel       string
	LogDevelopment bool

	SummaryCacheTTL        time.Duration
	SummaryRefreshInterval time.Duration
	AlertCheckInterval     time.Duration
	// ReportExportInterval schedules dashboard report exports; zero disables them.
	ReportExportInterval time.Duration
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:    getenv("DATABASE_URL"),
		RedisAddr:      stringOr(getenv("REDIS_ADDR"), "localhost:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD"),
		MinioEndpoint:  stringOr(getenv("MINIO_ENDPOINT"), "localhost:9000"),
		MinioAccessKey: stringOr(getenv("MINIO_ACCESS_KEY"), "minioadmin"),
		MinioSecretKey: stringOr(getenv("MINIO_SECRET_KEY"), "minioadmin"),
		ReportsBucket:  stringOr(getenv("REPORTS_BUCKET"), "inventory-reports"),
		LogLevel:       stringOr(getenv("LOG_LEVEL"), "info"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	var err error
	if cfg.Port, err = intOr(getenv("PORT"), 8080); err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if cfg.RedisDB, err = intOr(getenv("REDIS_DB"), 0); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.MinioUseSSL, err = boolOr(getenv("MINIO_USE_SSL"), false); err != nil {
		return nil, fmt.Errorf("invalid MINIO_USE_SSL: %w", err)
	}
	if cfg.LogDevelopment, err = boolOr(getenv("LOG_DEVELOPMENT"), false); err != nil {
		return nil, fmt.Errorf("invalid LOG_DEVELOPMENT: %w", err)
	}
	if cfg.SummaryCacheTTL, err = durationOr(getenv("SUMMARY_CACHE_TTL"), 5*time.Minute); err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_CACHE_TTL: %w", err)
	}
	if cfg.SummaryRefreshInterval, err = durationOr(getenv("SUMMARY_REFRESH_INTERVAL"), 5*time.Minute); err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_REFRESH_INTERVAL: %w", err)
	}
	if cfg.AlertCheckInterval, err = durationOr(getenv("ALERT_CHECK_INTERVAL"), 30*time.Minute); err != nil {
		return nil, fmt.Errorf("invalid ALERT_CHECK_INTERVAL: %w", err)
	}
	if cfg.ReportExportInterval, err = durationOr(getenv("REPORT_EXPORT_INTERVAL"), 0); err != nil {
		return nil, fmt.Errorf("invalid REPORT_EXPORT_INTERVAL: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d out of range", cfg.Port)
	}

	return cfg, nil
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func boolOr(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

func durationOr(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	return time.ParseDuration(v)
}

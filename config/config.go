package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort     int
	DatabaseDriver string
	DatabaseURL    string

	SessionSecret string
	SessionTTL    time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// ExportEnabled reports whether object storage for catalog exports is configured.
func (c *Config) ExportEnabled() bool {
	return c.R2AccountID != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function; Load passes os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		DatabaseDriver: strings.ToLower(get("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:    get("DATABASE_URL", "versusite.db"),
		SessionSecret:  get("SESSION_SECRET", ""),

		R2AccountID:       get("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     get("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: get("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      get("R2_BUCKET_NAME", ""),
		R2PublicBaseURL:   get("R2_PUBLIC_BASE_URL", ""),
	}

	port, err := strconv.Atoi(get("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("DATABASE_DRIVER must be sqlite or postgres, got %q", cfg.DatabaseDriver)
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set")
	}

	cfg.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL environment variable: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}

	cfg.RateLimitRPS, err = strconv.ParseFloat(get("RATE_LIMIT_RPS", "5"), 64)
	if err != nil || cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS environment variable: %q", getenv("RATE_LIMIT_RPS"))
	}
	cfg.RateLimitBurst, err = strconv.Atoi(get("RATE_LIMIT_BURST", "20"))
	if err != nil || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST environment variable: %q", getenv("RATE_LIMIT_BURST"))
	}

	for _, origin := range strings.Split(get("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	r2 := []string{cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName, cfg.R2PublicBaseURL}
	set := 0
	for _, v := range r2 {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != len(r2) {
		return nil, fmt.Errorf("invalid Cloudflare R2 configuration: set all R2_* variables or none")
	}

	return cfg, nil
}

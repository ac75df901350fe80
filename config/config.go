package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/fixture-engine/storage"
	"github.com/joho/godotenv"
)

// Config holds every setting the server reads at startup.
type Config struct {
	DatabaseURL      string
	ServerPort       int
	MigrationsSource string

	StandingsRefreshInterval time.Duration
	// WriteRateLimit is the sustained number of mutating requests per second
	// allowed for one client; WriteRateBurst is the bucket size.
	WriteRateLimit float64
	WriteRateBurst int

	CORSAllowedOrigins []string

	R2 storage.CloudflareR2UploaderConfig
}

// Load reads the configuration from the environment. A .env file, when
// present, is loaded first; variables already set win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	refresh := time.Minute
	if raw := os.Getenv("STANDINGS_REFRESH_INTERVAL"); raw != "" {
		refresh, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid STANDINGS_REFRESH_INTERVAL environment variable: %w", err)
		}
		if refresh <= 0 {
			return nil, fmt.Errorf("STANDINGS_REFRESH_INTERVAL must be positive, got %s", refresh)
		}
	}

	rateLimit := 10.0
	if raw := os.Getenv("WRITE_RATE_LIMIT"); raw != "" {
		rateLimit, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid WRITE_RATE_LIMIT environment variable: %w", err)
		}
		if rateLimit <= 0 {
			return nil, fmt.Errorf("WRITE_RATE_LIMIT must be positive, got %g", rateLimit)
		}
	}

	burst, err := intEnv("WRITE_RATE_BURST", 20)
	if err != nil {
		return nil, err
	}
	if burst < 1 {
		return nil, fmt.Errorf("WRITE_RATE_BURST must be at least 1, got %d", burst)
	}

	migrations := os.Getenv("MIGRATIONS_SOURCE")
	if migrations == "" {
		migrations = "file://migrations"
	}

	cfg := &Config{
		DatabaseURL:              dbURL,
		ServerPort:               port,
		MigrationsSource:         migrations,
		StandingsRefreshInterval: refresh,
		WriteRateLimit:           rateLimit,
		WriteRateBurst:           burst,
		CORSAllowedOrigins:       splitList(os.Getenv("CORS_ALLOWED_ORIGINS"), []string{"*"}),
		R2: storage.CloudflareR2UploaderConfig{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
	}

	return cfg, nil
}

func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}

func splitList(raw string, def []string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	Port        string
	DBPath      string
	SeedPath    string

	// ORSAPIKey enables the OpenRouteService travel provider. Without it the
	// travel legs stored with the trip are used.
	ORSAPIKey string

	// Optional shared travel caches. Redis wins when both are set.
	DatabaseURL    string
	RedisAddr      string
	TravelCacheTTL time.Duration

	PlanTimeout            time.Duration
	TravelUnit             time.Duration
	TravelFetchConcurrency int
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load config: read .env: %w", err)
	}

	cfg := &Config{
		Environment: Get("APP_ENV", "development"),
		Port:        Get("PORT", "8080"),
		DBPath:      Get("DB_PATH", "data/app.db"),
		SeedPath:    Get("SEED_PATH", "data/seeds/trip.json"),
		ORSAPIKey:   strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
	}

	var err error
	if cfg.TravelCacheTTL, err = getDuration("TRAVEL_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.PlanTimeout, err = getDuration("PLAN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	unitSeconds, err := getInt("TRAVEL_UNIT_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	if unitSeconds < 1 {
		return nil, fmt.Errorf("load config: TRAVEL_UNIT_SECONDS must be at least 1, got %d", unitSeconds)
	}
	cfg.TravelUnit = time.Duration(unitSeconds) * time.Second

	if cfg.TravelFetchConcurrency, err = getInt("TRAVEL_FETCH_CONCURRENCY", 5); err != nil {
		return nil, err
	}
	if cfg.TravelFetchConcurrency < 1 {
		return nil, fmt.Errorf("load config: TRAVEL_FETCH_CONCURRENCY must be at least 1, got %d", cfg.TravelFetchConcurrency)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("load config: %s: %w", key, err)
	}
	return parsed, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("load config: %s: %w", key, err)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("load config: %s must not be negative", key)
	}
	return parsed, nil
}

// Package config reads service settings from the environment, optionally
// primed from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string
	DatabaseURL   string
	SeedPath      string
	Port          string
	RedisAddr     string
	RouteCacheTTL time.Duration
	LogLevel      string
	// ReturnToStart makes dispatched missions plan the leg back to their
	// sorting center.
	ReturnToStart bool
}

// LoadDotEnv loads .env from the working directory. A missing file is not
// an error; it reports whether a file was found.
func LoadDotEnv() (bool, error) {
	err := godotenv.Load()
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load .env: %w", err)
	}
	return true, nil
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config %s: %q is not an integer: %w", key, v, err)
	}
	return n, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config %s: %q is not a duration: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config %s: duration must not be negative (got %s)", key, d)
	}
	return d, nil
}

func GetBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config %s: %q is not a boolean: %w", key, v, err)
	}
	return b, nil
}

// Load reads the service configuration. DB_DRIVER defaults to sqlite with a
// local file; pgx requires DATABASE_URL.
func Load() (Config, error) {
	cfg := Config{
		DBDriver:    strings.ToLower(Get("DB_DRIVER", "sqlite")),
		DatabaseURL: Get("DATABASE_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/network.json"),
		Port:        Get("PORT", "8080"),
		RedisAddr:   Get("REDIS_ADDR", ""),
		LogLevel:    Get("LOG_LEVEL", "info"),
	}

	ttl, err := GetDuration("ROUTE_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.RouteCacheTTL = ttl

	back, err := GetBool("DISPATCH_RETURN_TO_START", true)
	if err != nil {
		return Config{}, err
	}
	cfg.ReturnToStart = back

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = Get("DB_PATH", "data/app.db")
		}
	case "pgx", "postgres":
		cfg.DBDriver = "pgx"
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("config: DATABASE_URL is required for DB_DRIVER=pgx")
		}
	default:
		return Config{}, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("config: PORT %q is not a number", cfg.Port)
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	ClashAPIToken string
	DBPath        string
	RedisAddr     string
	RedisPassword string
	MetricsPort   string
	LogLevel      string

	// TrackedClans seeds the clan registry at boot so a fresh deployment
	// starts monitoring without waiting for rows from the admin surface.
	TrackedClans []string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ClashAPIToken: getEnv("CLASH_API_TOKEN", ""),
		DBPath:        getEnv("DB_PATH", "legend.db"),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		TrackedClans:  splitTags(getEnv("TRACKED_CLANS", "")),
	}

	if cfg.ClashAPIToken == "" {
		return nil, fmt.Errorf("CLASH_API_TOKEN is required")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("redis_addr", cfg.RedisAddr).
		Str("metrics_port", cfg.MetricsPort).
		Str("log_level", cfg.LogLevel).
		Int("tracked_clans", len(cfg.TrackedClans)).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

var Module = fx.Provide(Load)

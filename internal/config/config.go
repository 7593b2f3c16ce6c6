// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; sub-configs for Redis, rate limiting and caching
// are loaded by their own files.
type Config struct {
	Env      string // APP_ENV, "dev" or "prod"
	Port     string // APP_PORT
	LogLevel string // LOG_LEVEL
	Version  string // APP_VERSION

	DB DBConfig

	JWTSecret      string // JWT_SECRET, required
	JWTExpireHours int    // JWT_EXPIRE_HOURS
	BcryptRounds   int    // BCRYPT_ROUNDS

	AdminUsernames   []string // ADMIN_USERNAMES, comma separated
	RabbitMQURL      string   // RABBITMQ_URL, empty disables events
	EventLogPath     string   // FIXTURE_EVENT_LOG
	RecalcSchedule   string   // LEADERBOARD_RECALC_SCHEDULE, empty disables
	CORSAllowOrigins []string // CORS_ALLOW_ORIGINS

	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

// DBConfig describes the MySQL connection.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Load reads the environment and returns the configuration.  A .env file in
// the working directory is applied first when present; variables already set
// in the process environment win.  Every missing required variable is
// reported in the returned error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: read .env: %w", err)
	}

	var missing []string
	must := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:      envStr("APP_ENV", "dev"),
		Port:     envStr("APP_PORT", "8000"),
		LogLevel: envStr("LOG_LEVEL", "info"),
		Version:  envStr("APP_VERSION", "1.0.0"),
		DB: DBConfig{
			Host:     envStr("DB_HOST", "localhost"),
			Port:     envStr("DB_PORT", "3306"),
			User:     must("DB_USER"),
			Password: must("DB_PASSWORD"),
			Name:     envStr("DB_NAME", "nba_db"),
		},
		JWTSecret:        must("JWT_SECRET"),
		JWTExpireHours:   envInt("JWT_EXPIRE_HOURS", 24),
		BcryptRounds:     envInt("BCRYPT_ROUNDS", 12),
		AdminUsernames:   splitList(os.Getenv("ADMIN_USERNAMES"), strings.ToLower),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		EventLogPath:     envStr("FIXTURE_EVENT_LOG", "logs/fixture_results.log"),
		RecalcSchedule:   os.Getenv("LEADERBOARD_RECALC_SCHEDULE"),
		CORSAllowOrigins: splitList(envStr("CORS_ALLOW_ORIGINS", "*"), nil),
		Redis:            LoadRedisConfig(),
		RateLimit:        LoadRateLimitConfig(),
		Cache:            LoadCacheConfig(),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("config: missing required env vars: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

// splitList splits a comma separated value, trimming blanks and applying
// norm to every element when non-nil.
func splitList(s string, norm func(string) string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if norm != nil {
			p = norm(p)
		}
		out = append(out, p)
	}
	return out
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_USER", "nba")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.Equal(t, "nba_db", cfg.DB.Name)
	assert.Equal(t, 24, cfg.JWTExpireHours)
	assert.Equal(t, 12, cfg.BcryptRounds)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Empty(t, cfg.RecalcSchedule)
	assert.False(t, cfg.IsProduction())
}

func TestLoadReportsEveryMissingVar(t *testing.T) {
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	for _, k := range []string{"DB_USER", "DB_PASSWORD", "JWT_SECRET"} {
		assert.Contains(t, err.Error(), k)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_EXPIRE_HOURS", "2")
	t.Setenv("BCRYPT_ROUNDS", "not-a-number")
	t.Setenv("ADMIN_USERNAMES", " Alice, ,bob ")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2, cfg.JWTExpireHours)
	assert.Equal(t, 12, cfg.BcryptRounds)
	assert.Equal(t, []string{"alice", "bob"}, cfg.AdminUsernames)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 2*time.Second, rl.RefillInterval)
	assert.Equal(t, 30*time.Second, rl.TTL)

	auth := rl.ForAuth()
	assert.Equal(t, 10, auth.Capacity)
	assert.Equal(t, "rl:auth", auth.Prefix)
	assert.Equal(t, "ip_route", auth.KeyStrategy)
}

func TestRedisConfigHostPort(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_TLS", "1")

	rc := LoadRedisConfig()
	assert.Equal(t, "cache:6380", rc.Addr)
	assert.True(t, rc.TLS)
}

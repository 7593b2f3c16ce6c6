package config

import "time"

// RateLimitConfig drives the Redis token-bucket limiter.  Auth endpoints get
// their own, tighter bucket so credential stuffing cannot starve the API.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool

	AuthCapacity       int
	AuthRefillInterval time.Duration
}

func LoadRateLimitConfig() RateLimitConfig {
	def := RateLimitConfig{
		Enabled:            envBool("RATE_LIMIT_ENABLED", true),
		Capacity:           envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:       envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval:     envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:                envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:        envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:             envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:              envBool("RATE_LIMIT_DEBUG", false),
		AuthCapacity:       envInt("RATE_LIMIT_AUTH_CAPACITY", 10),
		AuthRefillInterval: envDur("RATE_LIMIT_AUTH_REFILL_INTERVAL", 6*time.Second),
	}
	if b := envInt("RATE_LIMIT_BURST", -1); b > 0 {
		def.Capacity = b
	}
	if def.Capacity < 1 {
		def.Capacity = 1
	}
	if def.AuthCapacity < 1 {
		def.AuthCapacity = 1
	}
	if def.RefillTokens < 1 {
		def.RefillTokens = 1
	}
	if def.RefillInterval <= 0 {
		def.RefillInterval = time.Second
	}
	if def.AuthRefillInterval <= 0 {
		def.AuthRefillInterval = def.RefillInterval
	}
	slowest := def.RefillInterval
	if def.AuthRefillInterval > slowest {
		slowest = def.AuthRefillInterval
	}
	if minTTL := 5 * slowest; def.TTL < minTTL {
		def.TTL = minTTL
	}
	return def
}

// ForAuth returns a copy tuned for the /auth group.
func (c RateLimitConfig) ForAuth() RateLimitConfig {
	c.Capacity = c.AuthCapacity
	c.RefillTokens = 1
	c.RefillInterval = c.AuthRefillInterval
	c.KeyStrategy = "ip_route"
	c.Prefix += ":auth"
	return c
}

// Package auth implements credential hashing, access token issuance and
// verification, and the request gate that every protected endpoint sits
// behind.  All components are built from a single Config value that is
// constructed once at startup and injected; nothing in this package reads
// the environment.
package auth

import (
	"errors"
	"time"
)

// Algorithm is the only signing algorithm accepted for access tokens.
const Algorithm = "HS256"

const (
	DefaultExpiry     = 24 * time.Hour
	DefaultBcryptCost = 12
)

// ErrMissingSecret is returned by NewConfig when no signing secret is
// configured.  Callers must treat it as fatal.
var ErrMissingSecret = errors.New("auth: JWT secret is not configured")

// Config holds the immutable settings shared by PasswordHasher,
// TokenService and Gate.
type Config struct {
	Secret     []byte
	Algorithm  string
	Expiry     time.Duration
	BcryptCost int
}

// NewConfig validates the raw settings and fills defaults.  expiryHours and
// cost fall back to DefaultExpiry and DefaultBcryptCost when not positive.
func NewConfig(secret string, expiryHours, cost int) (Config, error) {
	if secret == "" {
		return Config{}, ErrMissingSecret
	}
	cfg := Config{
		Secret:     []byte(secret),
		Algorithm:  Algorithm,
		Expiry:     DefaultExpiry,
		BcryptCost: DefaultBcryptCost,
	}
	if expiryHours > 0 {
		cfg.Expiry = time.Duration(expiryHours) * time.Hour
	}
	if cost > 0 {
		cfg.BcryptCost = cost
	}
	return cfg, nil
}

// ExpiresInSeconds is the token lifetime reported to clients at login.
func (c Config) ExpiresInSeconds() int64 {
	return int64(c.Expiry / time.Second)
}

// Info summarises the configuration for health endpoints without exposing
// the secret.
type Info struct {
	Algorithm        string `json:"algorithm"`
	ExpireHours      int    `json:"token_expire_hours"`
	BcryptRounds     int    `json:"bcrypt_rounds"`
	SecretConfigured bool   `json:"jwt_configured"`
}

func (c Config) Info() Info {
	return Info{
		Algorithm:        c.Algorithm,
		ExpireHours:      int(c.Expiry / time.Hour),
		BcryptRounds:     c.BcryptCost,
		SecretConfigured: len(c.Secret) > 0,
	}
}

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var alice = IdentityClaims{UserID: 1, Username: "alice", Email: "alice@example.com"}

func testConfig(t *testing.T, secret string) Config {
	t.Helper()
	cfg, err := NewConfig(secret, 24, bcrypt.MinCost)
	require.NoError(t, err)
	return cfg
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService(testConfig(t, "s3cret"), WithClock(fixedClock(now)))

	tok, err := svc.Issue(alice)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, now.Add(24*time.Hour), tok.ExpiresAt)

	got, err := svc.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestTokenExpiry(t *testing.T) {
	issued := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	cfg := testConfig(t, "s3cret")
	tok, err := NewTokenService(cfg, WithClock(fixedClock(issued))).Issue(alice)
	require.NoError(t, err)

	cases := []struct {
		name    string
		at      time.Time
		expired bool
	}{
		{"one second before expiry", issued.Add(24*time.Hour - time.Second), false},
		{"exactly at expiry", issued.Add(24 * time.Hour), true},
		{"twenty five hours later", issued.Add(25 * time.Hour), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTokenService(cfg, WithClock(fixedClock(tc.at))).Verify(tok.Token)
			if !tc.expired {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTokenExpired), "got %v", err)
		})
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := NewTokenService(testConfig(t, "one")).Issue(alice)
	require.NoError(t, err)

	_, err = NewTokenService(testConfig(t, "two")).Verify(tok.Token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func signRaw(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestTokenRejectsForgedPayloads(t *testing.T) {
	svc := NewTokenService(testConfig(t, "s3cret"))
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name   string
		token  string
		target error
	}{
		{
			name: "wrong type",
			token: signRaw(t, jwt.SigningMethodHS256, "s3cret", jwt.MapClaims{
				"user_id": 1, "username": "alice", "email": "alice@example.com",
				"type": "refresh_token", "exp": exp,
			}),
			target: ErrTokenWrongType,
		},
		{
			name: "missing type",
			token: signRaw(t, jwt.SigningMethodHS256, "s3cret", jwt.MapClaims{
				"user_id": 1, "username": "alice", "email": "alice@example.com", "exp": exp,
			}),
			target: ErrTokenWrongType,
		},
		{
			name: "missing email",
			token: signRaw(t, jwt.SigningMethodHS256, "s3cret", jwt.MapClaims{
				"user_id": 1, "username": "alice", "type": TokenType, "exp": exp,
			}),
			target: ErrTokenMalformed,
		},
		{
			name: "missing exp",
			token: signRaw(t, jwt.SigningMethodHS256, "s3cret", jwt.MapClaims{
				"user_id": 1, "username": "alice", "email": "alice@example.com", "type": TokenType,
			}),
			target: ErrTokenMalformed,
		},
		{
			name: "non numeric user_id",
			token: signRaw(t, jwt.SigningMethodHS256, "s3cret", jwt.MapClaims{
				"user_id": "one", "username": "alice", "email": "alice@example.com",
				"type": TokenType, "exp": exp,
			}),
			target: ErrTokenMalformed,
		},
		{
			name: "other algorithm",
			token: signRaw(t, jwt.SigningMethodHS512, "s3cret", jwt.MapClaims{
				"user_id": 1, "username": "alice", "email": "alice@example.com",
				"type": TokenType, "exp": exp,
			}),
			target: ErrTokenMalformed,
		},
		{name: "garbage", token: "not.a.jwt", target: ErrTokenMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Verify(tc.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
		})
	}
}

func TestTokenIssueRequiresCompleteClaims(t *testing.T) {
	svc := NewTokenService(testConfig(t, "s3cret"))
	for _, c := range []IdentityClaims{
		{Username: "alice", Email: "alice@example.com"},
		{UserID: 1, Email: "alice@example.com"},
		{UserID: 1, Username: "alice"},
	} {
		_, err := svc.Issue(c)
		assert.ErrorIs(t, err, ErrTokenMalformed)
	}
}

func TestTokenErrorKinds(t *testing.T) {
	err := &TokenError{Kind: KindExpired, Err: jwt.ErrTokenExpired}
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenMalformed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.Contains(t, err.Error(), "expired")
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig("", 24, 12)
	assert.ErrorIs(t, err, ErrMissingSecret)

	cfg, err := NewConfig("x", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultExpiry, cfg.Expiry)
	assert.Equal(t, DefaultBcryptCost, cfg.BcryptCost)
	assert.Equal(t, int64(86400), cfg.ExpiresInSeconds())

	info := cfg.Info()
	assert.Equal(t, "HS256", info.Algorithm)
	assert.Equal(t, 24, info.ExpireHours)
	assert.True(t, info.SecretConfigured)
}

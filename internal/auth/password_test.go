package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashVerify(t *testing.T) {
	h := NewPasswordHasher(testConfig(t, "s3cret"))

	hash, err := h.Hash("Password123")
	require.NoError(t, err)
	assert.NotEqual(t, "Password123", hash)

	assert.True(t, h.Verify("Password123", hash))
	assert.False(t, h.Verify("password123", hash))
}

func TestPasswordHashIsSalted(t *testing.T) {
	h := NewPasswordHasher(testConfig(t, "s3cret"))

	a, err := h.Hash("Password123")
	require.NoError(t, err)
	b, err := h.Hash("Password123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("Password123", a))
	assert.True(t, h.Verify("Password123", b))
}

func TestPasswordVerifyFailsClosed(t *testing.T) {
	h := NewPasswordHasher(testConfig(t, "s3cret"))

	assert.False(t, h.Verify("anything", ""))
	assert.False(t, h.Verify("anything", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("", "$2a$04$"))
}

func TestPasswordHashRejectsOverlongInput(t *testing.T) {
	h := NewPasswordHasher(testConfig(t, "s3cret"))

	_, err := h.Hash(strings.Repeat("a", 100))
	var he *HashingError
	assert.ErrorAs(t, err, &he)
}

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		pw   string
		want error
	}{
		{"abc123", ErrPasswordTooShort},
		{strings.Repeat("a1", 65), ErrPasswordTooLong},
		{strings.Repeat("ü1", 30), ErrPasswordTooWide},
		{"12345678", ErrPasswordNoLetter},
		{"abcdefgh", ErrPasswordNoNumber},
		{"Password123", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidatePasswordStrength(tc.pw), tc.pw)
	}
}

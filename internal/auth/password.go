package auth

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashingError reports a failure of the underlying bcrypt primitive.  It is
// an internal error and should surface as HTTP 500, never as a user error.
type HashingError struct {
	Err error
}

func (e *HashingError) Error() string { return fmt.Sprintf("auth: hash password: %v", e.Err) }
func (e *HashingError) Unwrap() error { return e.Err }

// PasswordHasher hashes and verifies user passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the configured cost factor.
func NewPasswordHasher(cfg Config) *PasswordHasher {
	return &PasswordHasher{cost: cfg.BcryptCost}
}

// Hash returns a salted bcrypt hash of plain.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", &HashingError{Err: err}
	}
	return string(b), nil
}

// Verify reports whether plain matches hash.  A malformed or empty hash is
// a mismatch, never a pass.
func (h *PasswordHasher) Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// bcrypt only reads the first 72 bytes of its input.
const maxPasswordBytes = 72

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password must be less than 128 characters long")
	ErrPasswordTooWide  = errors.New("password must not exceed 72 bytes")
	ErrPasswordNoLetter = errors.New("password must contain at least one letter")
	ErrPasswordNoNumber = errors.New("password must contain at least one number")
)

// ValidatePasswordStrength applies the registration password policy.  The
// returned error message is safe to show to the user.
func ValidatePasswordStrength(password string) error {
	n := len([]rune(password))
	if n < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if n > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooWide
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter {
		return ErrPasswordNoLetter
	}
	if !digit {
		return ErrPasswordNoNumber
	}
	return nil
}

package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType is embedded in every access token so that other JWTs signed
// with the same secret cannot be replayed as access tokens.
const TokenType = "access_token"

// IdentityClaims is the identity carried inside an access token.
type IdentityClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (c IdentityClaims) complete() bool {
	return c.UserID > 0 && c.Username != "" && c.Email != ""
}

// TokenErrorKind classifies token failures for server-side logging.  The
// HTTP boundary never exposes the kind.
type TokenErrorKind int

const (
	KindMalformed TokenErrorKind = iota + 1
	KindExpired
	KindWrongType
	KindSigning
)

func (k TokenErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindExpired:
		return "expired"
	case KindWrongType:
		return "wrong_type"
	case KindSigning:
		return "signing"
	}
	return "unknown"
}

// TokenError is returned by TokenService for every issue or verify failure.
type TokenError struct {
	Kind TokenErrorKind
	Err  error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return "auth: token " + e.Kind.String()
	}
	return fmt.Sprintf("auth: token %s: %v", e.Kind, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// Is matches any TokenError of the same kind, so the sentinels below work
// with errors.Is.
func (e *TokenError) Is(target error) bool {
	t, ok := target.(*TokenError)
	return ok && t.Kind == e.Kind
}

var (
	ErrTokenMalformed = &TokenError{Kind: KindMalformed}
	ErrTokenExpired   = &TokenError{Kind: KindExpired}
	ErrTokenWrongType = &TokenError{Kind: KindWrongType}
	ErrTokenSigning   = &TokenError{Kind: KindSigning}

	errIncompleteClaims = errors.New("user_id, username and email are required")
)

// accessClaims is the wire payload.  Required fields are checked after
// decoding; a zero value means the field was absent.
type accessClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// AccessToken is a signed token together with its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 access tokens.  It holds no
// mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock overrides the time source used for iat/exp and validation.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(cfg Config, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret: cfg.Secret,
		expiry: cfg.Expiry,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Issue signs a new access token for claims.
func (s *TokenService) Issue(claims IdentityClaims) (AccessToken, error) {
	if !claims.complete() {
		return AccessToken{}, &TokenError{Kind: KindMalformed, Err: errIncompleteClaims}
	}
	if len(s.secret) == 0 {
		return AccessToken{}, &TokenError{Kind: KindSigning, Err: ErrMissingSecret}
	}
	iat := s.now().UTC().Truncate(time.Second)
	exp := iat.Add(s.expiry)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Type:     TokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(claims.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return AccessToken{}, &TokenError{Kind: KindSigning, Err: err}
	}
	return AccessToken{Token: signed, ExpiresAt: exp}, nil
}

// Verify checks signature, expiry and token type and returns the embedded
// identity.  A token is expired from the instant now equals exp.
func (s *TokenService) Verify(token string) (IdentityClaims, error) {
	var ac accessClaims
	_, err := jwt.ParseWithClaims(token, &ac,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{Algorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return IdentityClaims{}, &TokenError{Kind: KindExpired, Err: err}
		}
		return IdentityClaims{}, &TokenError{Kind: KindMalformed, Err: err}
	}
	if ac.Type != TokenType {
		return IdentityClaims{}, &TokenError{Kind: KindWrongType, Err: fmt.Errorf("type %q", ac.Type)}
	}
	id := IdentityClaims{UserID: ac.UserID, Username: ac.Username, Email: ac.Email}
	if !id.complete() {
		return IdentityClaims{}, &TokenError{Kind: KindMalformed, Err: errIncompleteClaims}
	}
	return id, nil
}

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/metrics"
)

// ErrUnauthenticated is the only error Gate returns.  Callers must not try
// to tell the underlying reasons apart.
var ErrUnauthenticated = errors.New("auth: could not validate credentials")

// UnauthorizedMessage is the body text of every 401 produced by the gate.
const UnauthorizedMessage = "could not validate credentials"

// Context keys set by Gate.Middleware.
const (
	ContextIdentity = "identity"
	ContextUserID   = "user_id"
)

// TokenVerifier is the part of TokenService the gate depends on.
type TokenVerifier interface {
	Verify(token string) (IdentityClaims, error)
}

// Gate is the single chokepoint through which protected endpoints establish
// the calling identity.
type Gate struct {
	tokens TokenVerifier
	log    *zap.Logger
}

func NewGate(tokens TokenVerifier, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{tokens: tokens, log: log}
}

// Authenticate extracts the bearer credential from r and verifies it.  A
// missing header never reaches the verifier.
func (g *Gate) Authenticate(r *http.Request) (IdentityClaims, error) {
	raw, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return IdentityClaims{}, g.reject(r, "missing_credential", nil)
	}
	id, err := g.tokens.Verify(raw)
	if err != nil {
		reason := "verify"
		var te *TokenError
		if errors.As(err, &te) {
			reason = te.Kind.String()
		}
		return IdentityClaims{}, g.reject(r, reason, err)
	}
	if id.UserID <= 0 {
		return IdentityClaims{}, g.reject(r, "missing_user_id", nil)
	}
	g.log.Debug("authenticated", zap.String("username", id.Username))
	return id, nil
}

func (g *Gate) reject(r *http.Request, reason string, err error) error {
	metrics.AuthFailures.WithLabelValues(reason).Inc()
	fields := []zap.Field{zap.String("reason", reason), zap.String("path", r.URL.Path)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	g.log.Warn("authentication failed", fields...)
	return ErrUnauthenticated
}

// bearerToken returns the credential of an "Authorization: Bearer <token>"
// header.  The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// Middleware rejects unauthenticated requests with a uniform 401 and stores
// the identity in the echo context for downstream handlers.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := g.Authenticate(c.Request())
			if err != nil {
				return Unauthorized(c)
			}
			c.Set(ContextIdentity, id)
			c.Set(ContextUserID, id.UserID)
			return next(c)
		}
	}
}

// Unauthorized writes the generic 401 response.
func Unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": UnauthorizedMessage})
}

// IdentityFrom returns the identity stored by Middleware.
func IdentityFrom(c echo.Context) (IdentityClaims, bool) {
	id, ok := c.Get(ContextIdentity).(IdentityClaims)
	return id, ok
}

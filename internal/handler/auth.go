package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
	"github.com/prajwalvathreya/nba-project-backend/internal/metrics"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
	"github.com/prajwalvathreya/nba-project-backend/internal/repository"
)

// UserStore is the account storage the auth and user handlers depend on.
type UserStore interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, username, email, passwordHash string) (model.User, error)
	ForLogin(ctx context.Context, login string) (model.Credentials, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	Stats(ctx context.Context, id int64) (model.UserStats, error)
}

// AuthHandler serves registration, login and token introspection.
type AuthHandler struct {
	Users  UserStore
	Hasher *auth.PasswordHasher
	Tokens *auth.TokenService
	Cfg    auth.Config
	Log    *zap.Logger
}

// NewAuthHandler takes the hasher and token service shared with the gate
// and the startup self-test.
func NewAuthHandler(users UserStore, cfg auth.Config, hasher *auth.PasswordHasher, tokens *auth.TokenService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		Users:  users,
		Hasher: hasher,
		Tokens: tokens,
		Cfg:    cfg,
		Log:    orNop(log),
	}
}

type registerReq struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

const invalidLogin = "invalid username or password"

// Register creates an account.  The username is stored lowercase.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	if taken, err := h.Users.UsernameExists(ctx, req.Username); err != nil {
		return serverError(c, h.Log, "Registration failed due to system error", err)
	} else if taken {
		return errorJSON(c, http.StatusBadRequest, "Username already exists")
	}
	if taken, err := h.Users.EmailExists(ctx, req.Email); err != nil {
		return serverError(c, h.Log, "Registration failed due to system error", err)
	} else if taken {
		return errorJSON(c, http.StatusBadRequest, "Email already exists")
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		return serverError(c, h.Log, "Registration failed due to system error", err)
	}
	u, err := h.Users.Create(ctx, req.Username, req.Email, hash)
	switch {
	case errors.Is(err, repository.ErrUsernameExists):
		return errorJSON(c, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, repository.ErrEmailExists):
		return errorJSON(c, http.StatusBadRequest, "Email already exists")
	case err != nil:
		return serverError(c, h.Log, "Registration failed due to system error", err)
	}
	h.Log.Info("user registered", zap.String("username", u.Username), zap.Int64("user_id", u.UserID))
	return c.JSON(http.StatusCreated, u)
}

// Login accepts a username or email and returns a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	login := strings.ToLower(strings.TrimSpace(req.Username))

	ctx, cancel := dbContext(c)
	defer cancel()

	cred, err := h.Users.ForLogin(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		return h.loginFailed(c, "unknown_user")
	}
	if err != nil {
		metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		return serverError(c, h.Log, "Login failed", err)
	}
	if !h.Hasher.Verify(req.Password, cred.PasswordHash) {
		return h.loginFailed(c, "bad_password")
	}

	tok, err := h.Tokens.Issue(auth.IdentityClaims{UserID: cred.UserID, Username: cred.Username, Email: cred.Email})
	if err != nil {
		metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		return serverError(c, h.Log, "Login failed", err)
	}
	metrics.Logins.WithLabelValues(metrics.ResultOK).Inc()
	h.Log.Info("user logged in", zap.String("username", cred.Username))

	return c.JSON(http.StatusOK, model.LoginResponse{
		AccessToken: tok.Token,
		TokenType:   "bearer",
		ExpiresIn:   h.Cfg.ExpiresInSeconds(),
		User:        model.LoginUser{UserID: cred.UserID, Username: cred.Username, Email: cred.Email},
	})
}

func (h *AuthHandler) loginFailed(c echo.Context, reason string) error {
	metrics.Logins.WithLabelValues("rejected").Inc()
	h.Log.Info("login rejected", zap.String("reason", reason))
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return errorJSON(c, http.StatusUnauthorized, invalidLogin)
}

// Me returns the caller's account with headline statistics.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return serverError(c, h.Log, "Failed to retrieve user profile", err)
	}
	stats, err := h.Users.Stats(ctx, uid)
	if err != nil {
		return serverError(c, h.Log, "Failed to retrieve user profile", err)
	}
	return c.JSON(http.StatusOK, model.UserProfile{
		User:             u,
		TotalPredictions: stats.TotalPredictions,
		TotalPoints:      stats.TotalPoints,
		GroupsCount:      stats.GroupsCount,
	})
}

// VerifyToken confirms the token's user still exists.
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		h.Log.Warn("token user no longer exists", zap.Int64("user_id", uid))
		return auth.Unauthorized(c)
	}
	if err != nil {
		return serverError(c, h.Log, "Token verification failed", err)
	}
	return c.JSON(http.StatusOK, u)
}

// Health runs the password and token self-test on demand.
func (h *AuthHandler) Health(c echo.Context) error {
	rep, err := auth.RunSelfTest(h.Hasher, h.Tokens, auth.HealthProbe)
	if err != nil {
		h.Log.Error("authentication health check failed", zap.Error(err))
		return c.JSON(http.StatusOK, echo.Map{
			"status":           "unhealthy",
			"password_hashing": rep.PasswordHashing,
			"jwt_tokens":       rep.JWTTokens,
			"message":          "Authentication system has issues",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":           "healthy",
		"password_hashing": rep.PasswordHashing,
		"jwt_tokens":       rep.JWTTokens,
		"message":          "Authentication system is working properly",
	})
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
	"github.com/prajwalvathreya/nba-project-backend/internal/repository"
)

type fakeUsers struct {
	taken     map[string]bool
	createErr error
	creds     map[string]model.Credentials
	users     map[int64]model.User
	stats     model.UserStats

	gotUsername string
	gotEmail    string
	gotHash     string
}

func (f *fakeUsers) UsernameExists(_ context.Context, u string) (bool, error) { return f.taken[u], nil }
func (f *fakeUsers) EmailExists(_ context.Context, e string) (bool, error) { return f.taken[e], nil }

func (f *fakeUsers) Create(_ context.Context, username, email, hash string) (model.User, error) {
	f.gotUsername, f.gotEmail, f.gotHash = username, email, hash
	if f.createErr != nil {
		return model.User{}, f.createErr
	}
	return model.User{UserID: 7, Username: username, Email: email}, nil
}

func (f *fakeUsers) ForLogin(_ context.Context, login string) (model.Credentials, error) {
	c, ok := f.creds[login]
	if !ok {
		return model.Credentials{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Stats(context.Context, int64) (model.UserStats, error) { return f.stats, nil }

func newAuthHandler(t *testing.T, users *fakeUsers) *AuthHandler {
	t.Helper()
	cfg, err := auth.NewConfig("s3cret", 24, bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthHandler(users, cfg, auth.NewPasswordHasher(cfg), auth.NewTokenService(cfg), nil)
}

func TestRegisterCreatesLowercaseUser(t *testing.T) {
	users := &fakeUsers{}
	h := newAuthHandler(t, users)

	rec := serve(t, h.Register, http.MethodPost, "/auth/register",
		`{"username":"LeBron_23","email":"King@Example.com","password":"Password123"}`, 0)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "lebron_23", users.gotUsername)
	assert.Equal(t, "king@example.com", users.gotEmail)
	assert.True(t, h.Hasher.Verify("Password123", users.gotHash))
	assert.JSONEq(t, `{"user_id":7,"username":"lebron_23","email":"king@example.com","created_at":null}`, rec.Body.String())
}

func TestRegisterRejections(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		users *fakeUsers
		want  string
	}{
		{"bad username", `{"username":"bad name!","email":"a@b.co","password":"Password123"}`, &fakeUsers{},
			"Username can only contain letters, numbers, underscores, and hyphens"},
		{"short username", `{"username":"ab","email":"a@b.co","password":"Password123"}`, &fakeUsers{},
			"username must be at least 3 characters"},
		{"bad email", `{"username":"alice","email":"nope","password":"Password123"}`, &fakeUsers{},
			"invalid email address"},
		{"weak password", `{"username":"alice","email":"a@b.co","password":"abcdefgh"}`, &fakeUsers{},
			auth.ErrPasswordNoNumber.Error()},
		{"username taken", `{"username":"Alice","email":"a@b.co","password":"Password123"}`,
			&fakeUsers{taken: map[string]bool{"alice": true}}, "Username already exists"},
		{"email taken", `{"username":"alice","email":"a@b.co","password":"Password123"}`,
			&fakeUsers{taken: map[string]bool{"a@b.co": true}}, "Email already exists"},
		{"email race", `{"username":"alice","email":"a@b.co","password":"Password123"}`,
			&fakeUsers{createErr: repository.ErrEmailExists}, "Email already exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, newAuthHandler(t, tc.users).Register, http.MethodPost, "/auth/register", tc.body, 0)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, errorBody(t, rec))
		})
	}
}

func TestLoginIssuesToken(t *testing.T) {
	users := &fakeUsers{creds: map[string]model.Credentials{}}
	h := newAuthHandler(t, users)
	hash, err := h.Hasher.Hash("Password123")
	require.NoError(t, err)
	users.creds["alice@example.com"] = model.Credentials{
		User:         model.User{UserID: 1, Username: "alice", Email: "alice@example.com"},
		PasswordHash: hash,
	}

	rec := serve(t, h.Login, http.MethodPost, "/auth/login",
		`{"username":"Alice@Example.com","password":"Password123"}`, 0)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64(24*3600), resp.ExpiresIn)
	assert.Equal(t, int64(1), resp.User.UserID)

	id, err := h.Tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	users := &fakeUsers{creds: map[string]model.Credentials{}}
	h := newAuthHandler(t, users)
	hash, err := h.Hasher.Hash("Password123")
	require.NoError(t, err)
	users.creds["alice"] = model.Credentials{User: model.User{UserID: 1, Username: "alice"}, PasswordHash: hash}

	unknown := serve(t, h.Login, http.MethodPost, "/auth/login", `{"username":"bob","password":"Password123"}`, 0)
	wrong := serve(t, h.Login, http.MethodPost, "/auth/login", `{"username":"alice","password":"Password124"}`, 0)

	for _, rec := range []*httptest.ResponseRecorder{unknown, wrong} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
	}
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.Equal(t, "invalid username or password", errorBody(t, unknown))
}

func TestLoginUsesSharedTokenService(t *testing.T) {
	cfg, err := auth.NewConfig("s3cret", 24, bcrypt.MinCost)
	require.NoError(t, err)
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := auth.NewTokenService(cfg, auth.WithClock(func() time.Time { return issuedAt }))
	hasher := auth.NewPasswordHasher(cfg)

	hash, err := hasher.Hash("Password123")
	require.NoError(t, err)
	users := &fakeUsers{creds: map[string]model.Credentials{
		"alice": {User: model.User{UserID: 1, Username: "alice", Email: "alice@example.com"}, PasswordHash: hash},
	}}
	h := NewAuthHandler(users, cfg, hasher, tokens, nil)
	assert.Same(t, tokens, h.Tokens)
	assert.Same(t, hasher, h.Hasher)

	rec := serve(t, h.Login, http.MethodPost, "/auth/login", `{"username":"alice","password":"Password123"}`, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// The token carries the injected clock, so it is already expired for a
	// service that reads the real time.
	_, err = auth.NewTokenService(cfg).Verify(resp.AccessToken)
	assert.Error(t, err)
	_, err = tokens.Verify(resp.AccessToken)
	assert.NoError(t, err)
}

func TestMeAndVerifyToken(t *testing.T) {
	users := &fakeUsers{
		users: map[int64]model.User{1: {UserID: 1, Username: "alice", Email: "alice@example.com"}},
		stats: model.UserStats{TotalPredictions: 4, TotalPoints: 9, GroupsCount: 2},
	}
	h := newAuthHandler(t, users)

	rec := serve(t, h.Me, http.MethodGet, "/auth/me", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":1,"username":"alice","email":"alice@example.com","created_at":null,
		"total_predictions":4,"total_points":9,"groups_count":2}`, rec.Body.String())

	rec = serve(t, h.Me, http.MethodGet, "/auth/me", "", 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, h.VerifyToken, http.MethodGet, "/auth/verify-token", "", 1)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A token whose user was deleted is treated like any bad credential.
	rec = serve(t, h.VerifyToken, http.MethodGet, "/auth/verify-token", "", 2)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.UnauthorizedMessage, errorBody(t, rec))
}

func TestAuthHealth(t *testing.T) {
	rec := serve(t, newAuthHandler(t, &fakeUsers{}).Health, http.MethodGet, "/auth/health", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","password_hashing":true,"jwt_tokens":true,
		"message":"Authentication system is working properly"}`, rec.Body.String())
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
	"github.com/prajwalvathreya/nba-project-backend/internal/repository"
)

// ProfileStore reads and writes the caller's bio and statistics.
type ProfileStore interface {
	GetBio(ctx context.Context, id int64) (model.Bio, error)
	UpsertBio(ctx context.Context, id int64, bio string) error
	Stats(ctx context.Context, id int64) (model.UserStats, error)
}

type UserHandler struct {
	Profiles ProfileStore
	Log      *zap.Logger
}

func NewUserHandler(p ProfileStore, log *zap.Logger) *UserHandler {
	return &UserHandler{Profiles: p, Log: orNop(log)}
}

type bioReq struct {
	Bio string `json:"bio" validate:"max=1000"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	b, err := h.Profiles.GetBio(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch profile", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	var req bioReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Profiles.UpsertBio(ctx, uid, req.Bio); err != nil {
		return serverError(c, h.Log, "Failed to update bio", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Bio updated successfully"})
}

func (h *UserHandler) Stats(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	s, err := h.Profiles.Stats(ctx, uid)
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch stats", err)
	}
	return c.JSON(http.StatusOK, s)
}

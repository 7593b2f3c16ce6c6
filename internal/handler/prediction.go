package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
	"github.com/prajwalvathreya/nba-project-backend/internal/repository"
)

// PredictionStore is implemented by repository.PredictionRepo.
type PredictionStore interface {
	Create(ctx context.Context, in model.PredictionInput) (model.Prediction, error)
	ForUserInGroup(ctx context.Context, userID, groupID int64) ([]model.Prediction, error)
	ForUser(ctx context.Context, userID int64) ([]model.Prediction, error)
	ForFixture(ctx context.Context, fixtureID, groupID int64) ([]model.FixturePrediction, error)
	GetByID(ctx context.Context, pid int64) (model.Prediction, error)
	Update(ctx context.Context, in model.PredictionInput) (model.Prediction, error)
	Delete(ctx context.Context, userID, groupID, fixtureID int64) (int64, error)
	ByMatchRange(ctx context.Context, userID int64, min, max *int64) ([]model.Prediction, error)
}

type PredictionHandler struct {
	Predictions PredictionStore
	Log         *zap.Logger
}

func NewPredictionHandler(p PredictionStore, log *zap.Logger) *PredictionHandler {
	return &PredictionHandler{Predictions: p, Log: orNop(log)}
}

// predictionReq is the body of create and update.  Scores are pointers so a
// missing score is told apart from a zero.
type predictionReq struct {
	GroupID       int64  `json:"group_id" validate:"gt=0"`
	FixtureID     int64  `json:"fixture_id" validate:"gt=0"`
	PredHomeScore *int64 `json:"pred_home_score" validate:"required,gte=0"`
	PredAwayScore *int64 `json:"pred_away_score" validate:"required,gte=0"`
}

func (r predictionReq) input(userID int64) model.PredictionInput {
	return model.PredictionInput{
		UserID:        userID,
		GroupID:       r.GroupID,
		FixtureID:     r.FixtureID,
		PredHomeScore: *r.PredHomeScore,
		PredAwayScore: *r.PredAwayScore,
	}
}

func (h *PredictionHandler) Create(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	var req predictionReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	p, err := h.Predictions.Create(ctx, req.input(uid))
	switch {
	case errors.Is(err, repository.ErrGameStarted):
		return errorJSON(c, http.StatusBadRequest, "Cannot predict - game has already started")
	case errors.Is(err, repository.ErrPredictionExists):
		return errorJSON(c, http.StatusBadRequest, "You already have a prediction for this game in this group")
	case err != nil:
		return serverError(c, h.Log, "Failed to create prediction", err)
	}
	h.Log.Info("prediction created",
		zap.Int64("user_id", uid), zap.Int64("group_id", req.GroupID), zap.Int64("fixture_id", req.FixtureID))
	return c.JSON(http.StatusCreated, p)
}

// Mine lists the caller's predictions, optionally limited to ?group_id=.
func (h *PredictionHandler) Mine(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	groupID, ok := optionalQueryID(c, "group_id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "group_id must be a positive integer")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var (
		ps  []model.Prediction
		err error
	)
	if groupID != nil {
		ps, err = h.Predictions.ForUserInGroup(ctx, uid, *groupID)
	} else {
		ps, err = h.Predictions.ForUser(ctx, uid)
	}
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch your predictions", err)
	}
	return c.JSON(http.StatusOK, ps)
}

// MineInRange lists the caller's latest prediction per fixture for match
// numbers within ?min_match= and ?max_match=, both optional.
func (h *PredictionHandler) MineInRange(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	lo, okLo := optionalQueryID(c, "min_match")
	hi, okHi := optionalQueryID(c, "max_match")
	if !okLo || !okHi {
		return errorJSON(c, http.StatusBadRequest, "min_match and max_match must be positive integers")
	}
	if lo != nil && hi != nil && *lo > *hi {
		return errorJSON(c, http.StatusBadRequest, "min_match must not exceed max_match")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	ps, err := h.Predictions.ByMatchRange(ctx, uid, lo, hi)
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch your predictions", err)
	}
	return c.JSON(http.StatusOK, ps)
}

// ForFixture lists every prediction for a fixture in ?group_id=.
func (h *PredictionHandler) ForFixture(c echo.Context) error {
	fixtureID, ok := positiveParam(c, "fixture_id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid fixture_id")
	}
	groupID, ok := optionalQueryID(c, "group_id")
	if !ok || groupID == nil {
		return errorJSON(c, http.StatusBadRequest, "group_id query parameter is required")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	ps, err := h.Predictions.ForFixture(ctx, fixtureID, *groupID)
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch fixture predictions", err)
	}
	return c.JSON(http.StatusOK, ps)
}

func (h *PredictionHandler) Get(c echo.Context) error {
	pid, ok := positiveParam(c, "pid")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid pid")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	p, err := h.Predictions.GetByID(ctx, pid)
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, fmt.Sprintf("Prediction %d not found", pid))
	}
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch prediction", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PredictionHandler) Update(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	var req predictionReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	p, err := h.Predictions.Update(ctx, req.input(uid))
	if err != nil {
		return h.mutationError(c, "update", err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes the caller's prediction given ?group_id=&fixture_id=.
func (h *PredictionHandler) Delete(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	groupID, okG := optionalQueryID(c, "group_id")
	fixtureID, okF := optionalQueryID(c, "fixture_id")
	if !okG || !okF || groupID == nil || fixtureID == nil {
		return errorJSON(c, http.StatusBadRequest, "group_id and fixture_id query parameters are required")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	n, err := h.Predictions.Delete(ctx, uid, *groupID, *fixtureID)
	if err != nil {
		return h.mutationError(c, "delete", err)
	}
	h.Log.Info("prediction deleted", zap.Int64("user_id", uid), zap.Int64("fixture_id", *fixtureID))
	return c.JSON(http.StatusOK, model.DeleteResult{Message: "Prediction successfully deleted", DeletedCount: n})
}

// mutationError maps update and delete failures, which share their rules.
func (h *PredictionHandler) mutationError(c echo.Context, verb string, err error) error {
	switch {
	case errors.Is(err, repository.ErrPredictionNotFound):
		return errorJSON(c, http.StatusNotFound, "Prediction not found for this game in this group")
	case errors.Is(err, repository.ErrPredictionLocked), errors.Is(err, repository.ErrGameStarted):
		return errorJSON(c, http.StatusBadRequest,
			fmt.Sprintf("Cannot %s - prediction is locked or game has started", verb))
	}
	return serverError(c, h.Log, fmt.Sprintf("Failed to %s prediction", verb), err)
}

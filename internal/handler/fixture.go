package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
	"github.com/prajwalvathreya/nba-project-backend/internal/repository"
)

// FixtureStore is implemented by repository.FixtureRepo.
type FixtureStore interface {
	Next(ctx context.Context) ([]model.Fixture, error)
	Upcoming(ctx context.Context, days int) ([]model.Fixture, error)
	UpTo(ctx context.Context, day time.Time) ([]model.Fixture, error)
	GetByMatchNum(ctx context.Context, matchNum int64) (model.Fixture, error)
	LastUpdated(ctx context.Context) (model.Fixture, error)
}

// PickSource supplies the caller's predicted scores for the next fixtures.
type PickSource interface {
	NextPicks(ctx context.Context, userID int64) ([]model.ScorePick, error)
}

type FixtureHandler struct {
	Fixtures FixtureStore
	Picks    PickSource
	Log      *zap.Logger
	now      func() time.Time
}

func NewFixtureHandler(f FixtureStore, p PickSource, log *zap.Logger) *FixtureHandler {
	return &FixtureHandler{Fixtures: f, Picks: p, Log: orNop(log), now: time.Now}
}

const (
	defaultUpcomingDays = 7
	maxUpcomingDays     = 30
)

// Next lists every fixture on the next game date.
func (h *FixtureHandler) Next(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	fs, err := h.Fixtures.Next(ctx)
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch fixtures", err)
	}
	return c.JSON(http.StatusOK, fs)
}

// Upcoming lists fixtures within ?days= days (1..30, default 7).
func (h *FixtureHandler) Upcoming(c echo.Context) error {
	days := defaultUpcomingDays
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxUpcomingDays {
			return errorJSON(c, http.StatusBadRequest, fmt.Sprintf("days must be between 1 and %d", maxUpcomingDays))
		}
		days = n
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	fs, err := h.Fixtures.Upcoming(ctx, days)
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch fixtures", err)
	}
	return c.JSON(http.StatusOK, fs)
}

// Past lists fixtures up to and including today.
func (h *FixtureHandler) Past(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	fs, err := h.Fixtures.UpTo(ctx, h.now())
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch fixtures up to today", err)
	}
	return c.JSON(http.StatusOK, fs)
}

func (h *FixtureHandler) LastUpdated(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	f, err := h.Fixtures.LastUpdated(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "No fixtures found")
	}
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch last updated fixture", err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FixtureHandler) Get(c echo.Context) error {
	n, ok := positiveParam(c, "match_num")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid match_num")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	f, err := h.Fixtures.GetByMatchNum(ctx, n)
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, fmt.Sprintf("Fixture with match number %d not found", n))
	}
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch fixture", err)
	}
	return c.JSON(http.StatusOK, f)
}

// NextWithPredictions returns the next fixtures with the caller's
// predicted scores in place of the actual ones.  Failing to load the
// predictions degrades to the plain fixtures.
func (h *FixtureHandler) NextWithPredictions(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	fs, err := h.Fixtures.Next(ctx)
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch merged fixtures with predictions", err)
	}
	picks, err := h.Picks.NextPicks(ctx, uid)
	if err != nil {
		h.Log.Warn("could not load predictions for next fixtures", zap.Int64("user_id", uid), zap.Error(err))
		picks = nil
	}
	return c.JSON(http.StatusOK, mergePicks(fs, picks))
}

func mergePicks(fs []model.Fixture, picks []model.ScorePick) []model.Fixture {
	byMatch := make(map[int64]model.ScorePick, len(picks))
	for _, p := range picks {
		byMatch[p.MatchNum] = p
	}
	out := make([]model.Fixture, len(fs))
	for i, f := range fs {
		if p, ok := byMatch[f.MatchNum]; ok {
			f.HomeScore, f.AwayScore = p.PredHomeScore, p.PredAwayScore
		}
		out[i] = f
	}
	return out
}

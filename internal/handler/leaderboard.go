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
	"github.com/prajwalvathreya/nba-project-backend/internal/service"
)

// StandingStore is the read side of repository.LeaderboardRepo.
type StandingStore interface {
	ForGroup(ctx context.Context, groupID int64) ([]model.LeaderboardEntry, error)
	UserRank(ctx context.Context, userID, groupID int64) (model.UserRank, error)
}

// FixtureScorer is implemented by service.Scorer.
type FixtureScorer interface {
	ScoreFixture(ctx context.Context, fixtureID, home, away int64) (model.FixtureResult, error)
	Recalculate(ctx context.Context, trigger string) (model.RecalcSummary, error)
}

type LeaderboardHandler struct {
	Standings StandingStore
	Scorer    FixtureScorer
	Log       *zap.Logger
}

func NewLeaderboardHandler(s StandingStore, scorer FixtureScorer, log *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{Standings: s, Scorer: scorer, Log: orNop(log)}
}

type scoresReq struct {
	HomeScore *int64 `json:"home_score" validate:"required,gte=0"`
	AwayScore *int64 `json:"away_score" validate:"required,gte=0"`
}

func (h *LeaderboardHandler) Group(c echo.Context) error {
	groupID, ok := positiveParam(c, "group_id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "group_id must be greater than 0")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	rows, err := h.Standings.ForGroup(ctx, groupID)
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch leaderboard", err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Me returns the caller's rank within a group.
func (h *LeaderboardHandler) Me(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	groupID, ok := positiveParam(c, "group_id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "group_id must be greater than 0")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	r, err := h.Standings.UserRank(ctx, uid, groupID)
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, fmt.Sprintf("You are not a member of group %d", groupID))
	}
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch your rank", err)
	}
	return c.JSON(http.StatusOK, r)
}

// SetScores records a fixture's final score and rescores its predictions.
// Admin only.
func (h *LeaderboardHandler) SetScores(c echo.Context) error {
	fixtureID, ok := positiveParam(c, "fixture_id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "fixture_id must be greater than 0")
	}
	var req scoresReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	res, err := h.Scorer.ScoreFixture(ctx, fixtureID, *req.HomeScore, *req.AwayScore)
	if errors.Is(err, repository.ErrFixtureNotFound) {
		return errorJSON(c, http.StatusNotFound, "Fixture not found")
	}
	if err != nil {
		return serverError(c, h.Log, "Failed to set/update fixture scores", err)
	}
	admin, _ := auth.IdentityFrom(c)
	h.Log.Info("fixture scores set",
		zap.String("admin", admin.Username),
		zap.Int64("fixture_id", fixtureID),
		zap.Int64("home_score", res.HomeScore),
		zap.Int64("away_score", res.AwayScore))
	return c.JSON(http.StatusOK, res)
}

// Recalculate rebuilds every leaderboard.  Admin only.
func (h *LeaderboardHandler) Recalculate(c echo.Context) error {
	// A full rebuild can outlast the default request budget.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*dbTimeout)
	defer cancel()

	sum, err := h.Scorer.Recalculate(ctx, service.TriggerAdmin)
	if err != nil {
		return serverError(c, h.Log, "Failed to recalculate leaderboards", err)
	}
	return c.JSON(http.StatusOK, sum)
}

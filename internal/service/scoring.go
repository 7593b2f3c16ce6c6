// Package service holds the workflows that span more than one repository
// or reach outside the database.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/metrics"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
	"github.com/prajwalvathreya/nba-project-backend/internal/queue"
	"github.com/prajwalvathreya/nba-project-backend/internal/repository"
)

// ScoreStore is the part of the leaderboard repository used for scoring.
type ScoreStore interface {
	CompleteFixture(ctx context.Context, fixtureID, home, away int64) (model.FixtureResult, error)
	UpdateFixtureScores(ctx context.Context, fixtureID, home, away int64) (model.FixtureResult, error)
	RecalculateAll(ctx context.Context) (model.RecalcSummary, error)
}

// EventPublisher delivers fixture completion events.
type EventPublisher interface {
	PublishFixtureCompleted(ctx context.Context, ev queue.FixtureCompletedEvent) error
}

// Scorer records final scores and recalculates leaderboards.
type Scorer struct {
	store  ScoreStore
	events EventPublisher // nil disables events
	log    *zap.Logger
	now    func() time.Time
}

func NewScorer(store ScoreStore, events EventPublisher, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{store: store, events: events, log: log, now: time.Now}
}

// ScoreFixture completes the fixture with the given final score.  A fixture
// that is already completed has its score corrected instead.  On success a
// fixture.completed event is published; publish failures are logged and
// never returned.
func (s *Scorer) ScoreFixture(ctx context.Context, fixtureID, home, away int64) (model.FixtureResult, error) {
	rescored := false
	res, err := s.store.CompleteFixture(ctx, fixtureID, home, away)
	if errors.Is(err, repository.ErrFixtureCompleted) {
		s.log.Info("fixture already completed, updating scores", zap.Int64("fixture_id", fixtureID))
		rescored = true
		res, err = s.store.UpdateFixtureScores(ctx, fixtureID, home, away)
	}
	if err != nil {
		return model.FixtureResult{}, err
	}
	s.log.Info("fixture scored",
		zap.Int64("fixture_id", fixtureID),
		zap.Int64("home_score", home),
		zap.Int64("away_score", away),
		zap.Int64("predictions_scored", res.PredictionsScored),
		zap.Bool("rescored", rescored),
	)

	if s.events != nil {
		ev := queue.NewFixtureCompletedEvent(res, rescored, s.now())
		if err := s.events.PublishFixtureCompleted(ctx, ev); err != nil {
			s.log.Warn("fixture event not published", zap.Int64("fixture_id", fixtureID), zap.Error(err))
		}
	}
	return res, nil
}

// Trigger labels for Recalculate.
const (
	TriggerAdmin    = "admin"
	TriggerSchedule = "schedule"
)

// Recalculate rebuilds every leaderboard.  trigger is recorded in metrics
// and logs.
func (s *Scorer) Recalculate(ctx context.Context, trigger string) (model.RecalcSummary, error) {
	start := time.Now()
	sum, err := s.store.RecalculateAll(ctx)
	metrics.LeaderboardRecalcDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LeaderboardRecalcs.WithLabelValues(trigger, metrics.ResultError).Inc()
		s.log.Error("leaderboard recalculation failed", zap.String("trigger", trigger), zap.Error(err))
		return model.RecalcSummary{}, err
	}
	metrics.LeaderboardRecalcs.WithLabelValues(trigger, metrics.ResultOK).Inc()
	s.log.Info("leaderboards recalculated",
		zap.String("trigger", trigger),
		zap.Int64("groups_updated", sum.GroupsUpdated),
		zap.Int64("users_updated", sum.UsersUpdated),
		zap.Int64("total_points_awarded", sum.TotalPointsAwarded),
	)
	return sum, nil
}

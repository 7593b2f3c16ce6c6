// Package queue defines the messages exchanged over RabbitMQ together with
// the publisher and the background consumer for them.
package queue

import (
	"fmt"
	"time"

	"github.com/prajwalvathreya/nba-project-backend/internal/model"
)

// FixtureCompletedQueue is the durable queue carrying FixtureCompletedEvent.
const FixtureCompletedQueue = "fixture.completed"

// FixtureCompletedEvent is published after a fixture's final score has been
// recorded and its predictions scored.  It carries enough for downstream
// consumers to log or notify without querying the database.
type FixtureCompletedEvent struct {
	FixtureID         int64  `json:"fixture_id"`
	HomeTeam          string `json:"home_team"`
	AwayTeam          string `json:"away_team"`
	HomeScore         int64  `json:"home_score"`
	AwayScore         int64  `json:"away_score"`
	PredictionsScored int64  `json:"predictions_scored"`
	Rescored          bool   `json:"rescored"`
	CompletedAt       string `json:"completed_at"`
}

// NewFixtureCompletedEvent builds the event for a scoring result.  rescored
// marks a correction of an already completed fixture.
func NewFixtureCompletedEvent(r model.FixtureResult, rescored bool, at time.Time) FixtureCompletedEvent {
	return FixtureCompletedEvent{
		FixtureID:         r.MatchNum,
		HomeTeam:          r.HomeTeam,
		AwayTeam:          r.AwayTeam,
		HomeScore:         r.HomeScore,
		AwayScore:         r.AwayScore,
		PredictionsScored: r.PredictionsScored,
		Rescored:          rescored,
		CompletedAt:       at.UTC().Format(time.RFC3339),
	}
}

// LogLine renders the event as one line of the fixture results log.
func (ev FixtureCompletedEvent) LogLine() string {
	kind := "Fixture completed"
	if ev.Rescored {
		kind = "Fixture rescored"
	}
	return fmt.Sprintf("[%s] %s | fixture_id=%d | %s %d - %d %s | predictions_scored=%d\n",
		ev.CompletedAt, kind, ev.FixtureID, ev.HomeTeam, ev.HomeScore, ev.AwayScore, ev.AwayTeam, ev.PredictionsScored)
}

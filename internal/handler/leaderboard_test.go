package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prajwalvathreya/nba-project-backend/internal/model"
	"github.com/prajwalvathreya/nba-project-backend/internal/repository"
	"github.com/prajwalvathreya/nba-project-backend/internal/service"
)

type fakeStandings struct{ err error }

func (f fakeStandings) ForGroup(context.Context, int64) ([]model.LeaderboardEntry, error) {
	return []model.LeaderboardEntry{}, f.err
}
func (f fakeStandings) UserRank(context.Context, int64, int64) (model.UserRank, error) {
	return model.UserRank{}, f.err
}

type fakeScorer struct {
	err        error
	gotTrigger string
	gotScores  [3]int64
}

func (f *fakeScorer) ScoreFixture(_ context.Context, fixtureID, home, away int64) (model.FixtureResult, error) {
	f.gotScores = [3]int64{fixtureID, home, away}
	return model.FixtureResult{MatchNum: fixtureID, HomeScore: home, AwayScore: away, Completed: true}, f.err
}

func (f *fakeScorer) Recalculate(_ context.Context, trigger string) (model.RecalcSummary, error) {
	f.gotTrigger = trigger
	return model.RecalcSummary{GroupsUpdated: 2, UsersUpdated: 5, TotalPointsAwarded: 40}, f.err
}

func TestLeaderboardReads(t *testing.T) {
	h := NewLeaderboardHandler(fakeStandings{}, &fakeScorer{}, nil)

	rec := serve(t, h.Group, http.MethodGet, "/leaderboard/0", "", 1, "group_id", "0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "group_id must be greater than 0", errorBody(t, rec))

	rec = serve(t, h.Group, http.MethodGet, "/leaderboard/3", "", 1, "group_id", "3")
	assert.Equal(t, http.StatusOK, rec.Code)

	h = NewLeaderboardHandler(fakeStandings{err: repository.ErrNotMember}, &fakeScorer{}, nil)
	rec = serve(t, h.Me, http.MethodGet, "/leaderboard/3/me", "", 1, "group_id", "3")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "You are not a member of group 3", errorBody(t, rec))
}

func TestSetScores(t *testing.T) {
	scorer := &fakeScorer{}
	h := NewLeaderboardHandler(fakeStandings{}, scorer, nil)

	rec := serve(t, h.SetScores, http.MethodPut, "/leaderboard/admin/fixtures/12/scores",
		`{"home_score":110,"away_score":0}`, 1, "fixture_id", "12")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [3]int64{12, 110, 0}, scorer.gotScores)

	rec = serve(t, h.SetScores, http.MethodPut, "/leaderboard/admin/fixtures/12/scores",
		`{"home_score":110}`, 1, "fixture_id", "12")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "away_score is required", errorBody(t, rec))

	h = NewLeaderboardHandler(fakeStandings{}, &fakeScorer{err: repository.ErrFixtureNotFound}, nil)
	rec = serve(t, h.SetScores, http.MethodPut, "/leaderboard/admin/fixtures/99/scores",
		`{"home_score":1,"away_score":2}`, 1, "fixture_id", "99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Fixture not found", errorBody(t, rec))
}

func TestRecalculate(t *testing.T) {
	scorer := &fakeScorer{}
	rec := serve(t, NewLeaderboardHandler(fakeStandings{}, scorer, nil).Recalculate,
		http.MethodPost, "/leaderboard/admin/recalculate", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.TriggerAdmin, scorer.gotTrigger)
	assert.JSONEq(t, `{"groups_updated":2,"users_updated":5,"total_points_awarded":40}`, rec.Body.String())

	rec = serve(t, NewLeaderboardHandler(fakeStandings{}, &fakeScorer{err: errors.New("deadlock")}, nil).Recalculate,
		http.MethodPost, "/leaderboard/admin/recalculate", "", 1)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to recalculate leaderboards", errorBody(t, rec))
}

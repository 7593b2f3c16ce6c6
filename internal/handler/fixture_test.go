package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prajwalvathreya/nba-project-backend/internal/model"
	"github.com/prajwalvathreya/nba-project-backend/internal/repository"
)

type fakeFixtures struct {
	fixtures []model.Fixture
	err      error
	gotDays  int
	gotDay   time.Time
}

func (f *fakeFixtures) Next(context.Context) ([]model.Fixture, error) { return f.fixtures, f.err }
func (f *fakeFixtures) Upcoming(_ context.Context, days int) ([]model.Fixture, error) {
	f.gotDays = days
	return f.fixtures, f.err
}
func (f *fakeFixtures) UpTo(_ context.Context, day time.Time) ([]model.Fixture, error) {
	f.gotDay = day
	return f.fixtures, f.err
}
func (f *fakeFixtures) GetByMatchNum(context.Context, int64) (model.Fixture, error) {
	return model.Fixture{}, f.err
}
func (f *fakeFixtures) LastUpdated(context.Context) (model.Fixture, error) {
	return model.Fixture{}, f.err
}

type fakePicks struct {
	picks []model.ScorePick
	err   error
}

func (f fakePicks) NextPicks(context.Context, int64) ([]model.ScorePick, error) {
	return f.picks, f.err
}

func TestUpcomingDays(t *testing.T) {
	store := &fakeFixtures{fixtures: []model.Fixture{}}
	h := NewFixtureHandler(store, fakePicks{}, nil)

	rec := serve(t, h.Upcoming, http.MethodGet, "/fixtures/upcoming", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, store.gotDays)

	rec = serve(t, h.Upcoming, http.MethodGet, "/fixtures/upcoming?days=30", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, store.gotDays)

	for _, q := range []string{"0", "31", "week"} {
		rec = serve(t, h.Upcoming, http.MethodGet, "/fixtures/upcoming?days="+q, "", 0)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Equal(t, "days must be between 1 and 30", errorBody(t, rec))
	}
}

func TestPastUsesToday(t *testing.T) {
	store := &fakeFixtures{}
	h := NewFixtureHandler(store, fakePicks{}, nil)
	today := time.Date(2025, 1, 15, 20, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return today }

	rec := serve(t, h.Past, http.MethodGet, "/fixtures/past", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, today, store.gotDay)
}

func TestFixtureNotFound(t *testing.T) {
	h := NewFixtureHandler(&fakeFixtures{err: repository.ErrFixtureNotFound}, fakePicks{}, nil)

	rec := serve(t, h.Get, http.MethodGet, "/fixtures/12", "", 0, "match_num", "12")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Fixture with match number 12 not found", errorBody(t, rec))

	rec = serve(t, h.Get, http.MethodGet, "/fixtures/0", "", 0, "match_num", "0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h.LastUpdated, http.MethodGet, "/fixtures/lastupdatedfixture", "", 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMergePicks(t *testing.T) {
	fs := []model.Fixture{
		{MatchNum: 1, HomeTeam: "LAL", AwayTeam: "BOS"},
		{MatchNum: 2, HomeTeam: "GSW", AwayTeam: "MIA", HomeScore: ptr[int64](99)},
	}
	picks := []model.ScorePick{{MatchNum: 1, PredHomeScore: ptr[int64](110), PredAwayScore: ptr[int64](104)}}

	got := mergePicks(fs, picks)
	require.Len(t, got, 2)
	assert.Equal(t, int64(110), *got[0].HomeScore)
	assert.Equal(t, int64(104), *got[0].AwayScore)
	assert.Equal(t, int64(99), *got[1].HomeScore)
	assert.Nil(t, fs[0].HomeScore, "input must not be modified")
}

func TestNextWithPredictionsDegrades(t *testing.T) {
	store := &fakeFixtures{fixtures: []model.Fixture{{MatchNum: 1, HomeTeam: "LAL", AwayTeam: "BOS"}}}
	h := NewFixtureHandler(store, fakePicks{err: errors.New("db down")}, nil)

	rec := serve(t, h.NextWithPredictions, http.MethodGet, "/fixtures/next-fixtures-with-predictions", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Fixture
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Nil(t, got[0].HomeScore)

	rec = serve(t, h.NextWithPredictions, http.MethodGet, "/fixtures/next-fixtures-with-predictions", "", 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package repository

import (
	"context"
	"time"

	"github.com/prajwalvathreya/nba-project-backend/internal/database"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
)

// FixtureRepo serves the read-only fixture schedule.
type FixtureRepo struct{ Proc database.Caller }

func NewFixtureRepo(proc database.Caller) *FixtureRepo { return &FixtureRepo{Proc: proc} }

// Next returns every fixture on the earliest game date from today on.
func (r *FixtureRepo) Next(ctx context.Context) ([]model.Fixture, error) {
	return r.list(ctx, "get_next_fixtures")
}

// Upcoming returns fixtures within the next days days.
func (r *FixtureRepo) Upcoming(ctx context.Context, days int) ([]model.Fixture, error) {
	return r.list(ctx, "get_upcoming_fixtures", days)
}

// UpTo returns fixtures scheduled on or before day.
func (r *FixtureRepo) UpTo(ctx context.Context, day time.Time) ([]model.Fixture, error) {
	return r.list(ctx, "get_fixtures_up_to_date", day.Format(model.DateLayout))
}

func (r *FixtureRepo) GetByMatchNum(ctx context.Context, matchNum int64) (model.Fixture, error) {
	return r.one(ctx, "get_fixture_by_id", matchNum)
}

// LastUpdated returns the most recently modified fixture.
func (r *FixtureRepo) LastUpdated(ctx context.Context) (model.Fixture, error) {
	return r.one(ctx, "get_last_updated_fixture")
}

func (r *FixtureRepo) list(ctx context.Context, proc string, args ...any) ([]model.Fixture, error) {
	recs, err := r.Proc.Call(ctx, proc, args...)
	if err != nil {
		return nil, err
	}
	out := make([]model.Fixture, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decodeFixture(rec))
	}
	return out, nil
}

func (r *FixtureRepo) one(ctx context.Context, proc string, args ...any) (model.Fixture, error) {
	recs, err := r.Proc.Call(ctx, proc, args...)
	if err != nil {
		return model.Fixture{}, err
	}
	if len(recs) == 0 {
		return model.Fixture{}, ErrFixtureNotFound
	}
	return decodeFixture(recs[0]), nil
}

package repository

import (
	"context"

	"github.com/prajwalvathreya/nba-project-backend/internal/database"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
)

// LeaderboardRepo reads group standings and drives fixture scoring.
type LeaderboardRepo struct{ Proc database.Caller }

func NewLeaderboardRepo(proc database.Caller) *LeaderboardRepo {
	return &LeaderboardRepo{Proc: proc}
}

// ForGroup returns the ranked members of groupID.
func (r *LeaderboardRepo) ForGroup(ctx context.Context, groupID int64) ([]model.LeaderboardEntry, error) {
	recs, err := r.Proc.Call(ctx, "get_group_leaderboard", groupID)
	if err != nil {
		return nil, err
	}
	out := make([]model.LeaderboardEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decodeEntry(rec))
	}
	return out, nil
}

// UserRank returns userID's standing in groupID, or ErrNotMember.
func (r *LeaderboardRepo) UserRank(ctx context.Context, userID, groupID int64) (model.UserRank, error) {
	recs, err := r.Proc.Call(ctx, "get_user_rank_in_group", userID, groupID)
	if err != nil {
		return model.UserRank{}, err
	}
	if len(recs) == 0 {
		return model.UserRank{}, ErrNotMember
	}
	return decodeRank(recs[0]), nil
}

// CompleteFixture records the final score, scores every prediction and
// refreshes the affected leaderboards.
func (r *LeaderboardRepo) CompleteFixture(ctx context.Context, fixtureID, home, away int64) (model.FixtureResult, error) {
	return r.score(ctx, "complete_fixture", fixtureID, home, away)
}

// UpdateFixtureScores corrects the score of an already completed fixture
// and rescores its predictions.
func (r *LeaderboardRepo) UpdateFixtureScores(ctx context.Context, fixtureID, home, away int64) (model.FixtureResult, error) {
	return r.score(ctx, "update_fixture_scores", fixtureID, home, away)
}

func (r *LeaderboardRepo) score(ctx context.Context, proc string, fixtureID, home, away int64) (model.FixtureResult, error) {
	recs, err := r.Proc.Call(ctx, proc, fixtureID, home, away)
	if err != nil {
		return model.FixtureResult{}, translate(err,
			signal{match: "already completed", target: ErrFixtureCompleted},
			signal{match: "not found", target: ErrFixtureNotFound},
		)
	}
	if len(recs) == 0 {
		return model.FixtureResult{}, ErrEmptyResult
	}
	return decodeFixtureResult(recs[0]), nil
}

// RecalculateAll rebuilds every group's leaderboard from scored
// predictions.
func (r *LeaderboardRepo) RecalculateAll(ctx context.Context) (model.RecalcSummary, error) {
	recs, err := r.Proc.Call(ctx, "recalculate_all_leaderboards")
	if err != nil {
		return model.RecalcSummary{}, err
	}
	if len(recs) == 0 {
		return model.RecalcSummary{}, nil
	}
	return model.RecalcSummary{
		GroupsUpdated:      recs[0].Int64("groups_updated"),
		UsersUpdated:       recs[0].Int64("users_updated"),
		TotalPointsAwarded: recs[0].Int64("total_points_awarded"),
	}, nil
}

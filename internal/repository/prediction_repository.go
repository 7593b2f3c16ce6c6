package repository

import (
	"context"

	"github.com/prajwalvathreya/nba-project-backend/internal/database"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
)

// PredictionRepo manages score predictions.  Locking and the "game has
// started" rule are enforced inside the procedures; this layer only maps
// their SIGNALs.
type PredictionRepo struct{ Proc database.Caller }

func NewPredictionRepo(proc database.Caller) *PredictionRepo { return &PredictionRepo{Proc: proc} }

// Create stores a new prediction.
func (r *PredictionRepo) Create(ctx context.Context, in model.PredictionInput) (model.Prediction, error) {
	recs, err := r.Proc.Call(ctx, "create_prediction",
		in.UserID, in.GroupID, in.FixtureID, in.PredHomeScore, in.PredAwayScore)
	if err != nil {
		return model.Prediction{}, translate(err,
			signal{match: "game has already started", target: ErrGameStarted},
			signal{match: "already exists", target: ErrPredictionExists},
		)
	}
	if len(recs) == 0 {
		return model.Prediction{}, ErrEmptyResult
	}
	return decodePrediction(recs[0]), nil
}

// ForUserInGroup lists userID's predictions in groupID.
func (r *PredictionRepo) ForUserInGroup(ctx context.Context, userID, groupID int64) ([]model.Prediction, error) {
	return r.list(ctx, "get_user_predictions", userID, groupID)
}

// ForUser lists userID's predictions across every group.
func (r *PredictionRepo) ForUser(ctx context.Context, userID int64) ([]model.Prediction, error) {
	return r.list(ctx, "get_all_user_predictions", userID)
}

// ForFixture lists every member's prediction for a fixture within a group.
func (r *PredictionRepo) ForFixture(ctx context.Context, fixtureID, groupID int64) ([]model.FixturePrediction, error) {
	recs, err := r.Proc.Call(ctx, "get_fixture_predictions", fixtureID, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]model.FixturePrediction, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decodeFixturePrediction(rec))
	}
	return out, nil
}

func (r *PredictionRepo) GetByID(ctx context.Context, pid int64) (model.Prediction, error) {
	recs, err := r.Proc.Call(ctx, "get_prediction_by_id", pid)
	if err != nil {
		return model.Prediction{}, err
	}
	if len(recs) == 0 {
		return model.Prediction{}, ErrPredictionNotFound
	}
	return decodePrediction(recs[0]), nil
}

// Update replaces the predicted score while the prediction is unlocked.
func (r *PredictionRepo) Update(ctx context.Context, in model.PredictionInput) (model.Prediction, error) {
	recs, err := r.Proc.Call(ctx, "update_prediction",
		in.UserID, in.GroupID, in.FixtureID, in.PredHomeScore, in.PredAwayScore)
	if err != nil {
		return model.Prediction{}, translate(err, mutationSignals...)
	}
	if len(recs) == 0 {
		return model.Prediction{}, ErrEmptyResult
	}
	return decodePrediction(recs[0]), nil
}

// Delete removes the caller's prediction for a fixture in a group.
func (r *PredictionRepo) Delete(ctx context.Context, userID, groupID, fixtureID int64) (int64, error) {
	recs, err := r.Proc.Call(ctx, "delete_prediction", userID, groupID, fixtureID)
	if err != nil {
		return 0, translate(err, mutationSignals...)
	}
	if len(recs) == 0 {
		return 0, ErrEmptyResult
	}
	return recs[0].Int64("deleted_count"), nil
}

var mutationSignals = []signal{
	{match: "not found", target: ErrPredictionNotFound},
	{match: "locked", target: ErrPredictionLocked},
	{match: "already started", target: ErrGameStarted},
}

// NextPicks returns the caller's predicted scores for the next fixtures.
func (r *PredictionRepo) NextPicks(ctx context.Context, userID int64) ([]model.ScorePick, error) {
	recs, err := r.Proc.Call(ctx, "get_next_fixtures_with_user_predictions", userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.ScorePick, 0, len(recs))
	for _, rec := range recs {
		out = append(out, model.ScorePick{
			MatchNum:      rec.Int64("match_num"),
			PredHomeScore: rec.NullInt64("pred_home_score"),
			PredAwayScore: rec.NullInt64("pred_away_score"),
		})
	}
	return out, nil
}

// ByMatchRange lists userID's predictions for fixtures whose match number
// lies in [min, max], keeping only the most recent prediction per fixture.
// A nil bound is open.
func (r *PredictionRepo) ByMatchRange(ctx context.Context, userID int64, min, max *int64) ([]model.Prediction, error) {
	preds, err := r.list(ctx, "get_user_predictions_by_match_range", userID, min, max)
	if err != nil {
		return nil, err
	}
	latest := make(map[int64]int, len(preds))
	out := preds[:0]
	for _, p := range preds {
		i, seen := latest[p.FixtureID]
		switch {
		case !seen:
			latest[p.FixtureID] = len(out)
			out = append(out, p)
		case p.PredictionTime.After(out[i].PredictionTime):
			out[i] = p
		}
	}
	return out, nil
}

func (r *PredictionRepo) list(ctx context.Context, proc string, args ...any) ([]model.Prediction, error) {
	recs, err := r.Proc.Call(ctx, proc, args...)
	if err != nil {
		return nil, err
	}
	out := make([]model.Prediction, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decodePrediction(rec))
	}
	return out, nil
}

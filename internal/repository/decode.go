package repository

import (
	"time"

	"github.com/prajwalvathreya/nba-project-backend/internal/database"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
)

// Row decoders shared by the repositories.  Column names follow the
// procedures' result sets.

func decodeUser(r database.Record) model.User {
	return model.User{
		UserID:    r.Int64("user_id"),
		Username:  r.String("username"),
		Email:     r.String("email"),
		CreatedAt: r.NullTime("created_at"),
	}
}

func decodeGroup(r database.Record) model.Group {
	g := model.Group{
		GroupID:         r.Int64("group_id"),
		GroupCode:       r.String("group_code"),
		GroupName:       r.String("group_name"),
		CreatorID:       r.Int64("creator_id"),
		CreationDate:    r.Time("creation_date"),
		CreatorUsername: r.NullString("creator_username"),
		MemberCount:     r.NullInt64("member_count"),
		JoinedDate:      r.NullTime("joined_date"),
	}
	if r.Has("is_creator") {
		b := r.Bool("is_creator")
		g.IsCreator = &b
	}
	return g
}

func decodeMember(r database.Record) model.GroupMember {
	return model.GroupMember{
		UserID:       r.Int64("user_id"),
		Username:     r.String("username"),
		Email:        r.String("email"),
		JoinedDate:   r.Time("joined_date"),
		IsCreator:    r.Bool("is_creator"),
		TotalPoints:  r.Int64("total_points"),
		RankPosition: r.NullInt64("rank_position"),
	}
}

func decodeFixture(r database.Record) model.Fixture {
	f := model.Fixture{
		MatchNum:  r.Int64("match_num"),
		HomeTeam:  r.String("home_team"),
		AwayTeam:  r.String("away_team"),
		HomeScore: r.NullInt64("home_score"),
		AwayScore: r.NullInt64("away_score"),
		Completed: r.Bool("completed"),
		StartTime: r.Time("start_time"),
		GameDate:  dateString(r, "game_date"),
		GameTime:  clockString(r, "game_time"),
	}
	f.FillSchedule()
	return f
}

func decodePrediction(r database.Record) model.Prediction {
	p := model.Prediction{
		PID:             r.Int64("pid"),
		UserID:          r.Int64("user_id"),
		GroupID:         r.Int64("group_id"),
		FixtureID:       r.Int64("fixture_id"),
		PredHomeScore:   r.Int64("pred_home_score"),
		PredAwayScore:   r.Int64("pred_away_score"),
		PredictionTime:  r.Time("prediction_time"),
		Locked:          r.Bool("locked"),
		PointsEarned:    r.NullInt64("points_earned"),
		HomeTeam:        r.String("home_team"),
		AwayTeam:        r.String("away_team"),
		StartTime:       r.Time("start_time"),
		Completed:       r.Bool("completed"),
		ActualHomeScore: r.NullInt64("actual_home_score"),
		ActualAwayScore: r.NullInt64("actual_away_score"),
		GameDate:        dateString(r, "game_date"),
		GameTime:        clockString(r, "game_time"),
	}
	if !p.StartTime.IsZero() {
		if p.GameDate == "" {
			p.GameDate = p.StartTime.Format(model.DateLayout)
		}
		if p.GameTime == "" {
			p.GameTime = p.StartTime.Format(model.ClockLayout)
		}
	}
	return p
}

func decodeFixturePrediction(r database.Record) model.FixturePrediction {
	return model.FixturePrediction{
		PID:            r.Int64("pid"),
		UserID:         r.Int64("user_id"),
		Username:       r.String("username"),
		PredHomeScore:  r.Int64("pred_home_score"),
		PredAwayScore:  r.Int64("pred_away_score"),
		PredictionTime: r.Time("prediction_time"),
		Locked:         r.Bool("locked"),
		PointsEarned:   r.NullInt64("points_earned"),
	}
}

func decodeEntry(r database.Record) model.LeaderboardEntry {
	return model.LeaderboardEntry{
		UserID:                 r.Int64("user_id"),
		Username:               r.String("username"),
		Email:                  r.String("email"),
		TotalPoints:            r.Int64("total_points"),
		RankPosition:           r.NullInt64("rank_position"),
		LastUpdated:            r.Time("last_updated"),
		TotalPredictions:       r.Int64("total_predictions"),
		ScoredPredictions:      r.Int64("scored_predictions"),
		ExactPredictions:       r.Int64("exact_predictions"),
		AvgPointsPerPrediction: nullFloat(r, "avg_points_per_prediction"),
	}
}

func decodeRank(r database.Record) model.UserRank {
	return model.UserRank{
		UserID:                 r.Int64("user_id"),
		Username:               r.String("username"),
		TotalPoints:            r.Int64("total_points"),
		RankPosition:           r.NullInt64("rank_position"),
		LastUpdated:            r.Time("last_updated"),
		TotalPredictions:       r.Int64("total_predictions"),
		ScoredPredictions:      r.Int64("scored_predictions"),
		ExactPredictions:       r.Int64("exact_predictions"),
		AvgPointsPerPrediction: nullFloat(r, "avg_points_per_prediction"),
		TotalPlayers:           r.Int64("total_players"),
	}
}

func decodeFixtureResult(r database.Record) model.FixtureResult {
	return model.FixtureResult{
		MatchNum:          r.Int64("match_num"),
		HomeTeam:          r.String("home_team"),
		AwayTeam:          r.String("away_team"),
		HomeScore:         r.Int64("home_score"),
		AwayScore:         r.Int64("away_score"),
		Completed:         r.Bool("completed"),
		StartTime:         r.Time("start_time"),
		TotalPredictions:  r.Int64("total_predictions"),
		PredictionsScored: r.Int64("predictions_scored"),
	}
}

func nullFloat(r database.Record, col string) *float64 {
	if !r.Has(col) {
		return nil
	}
	f := r.Float64(col)
	return &f
}

// dateString renders a DATE column, which arrives as time.Time with
// parseTime and as text otherwise.
func dateString(r database.Record, col string) string {
	if t, ok := r[col].(time.Time); ok {
		return t.Format(model.DateLayout)
	}
	return r.String(col)
}

// clockString renders a TIME column.  The driver never parses TIME, so it
// is normally text already.
func clockString(r database.Record, col string) string {
	if t, ok := r[col].(time.Time); ok {
		return t.Format(model.ClockLayout)
	}
	return r.String(col)
}

package model

import "time"

// LeaderboardEntry is one ranked member of a group.
type LeaderboardEntry struct {
	UserID                 int64     `json:"user_id"`
	Username               string    `json:"username"`
	Email                  string    `json:"email"`
	TotalPoints            int64     `json:"total_points"`
	RankPosition           *int64    `json:"rank_position"`
	LastUpdated            time.Time `json:"last_updated"`
	TotalPredictions       int64     `json:"total_predictions"`
	ScoredPredictions      int64     `json:"scored_predictions"`
	ExactPredictions       int64     `json:"exact_predictions"`
	AvgPointsPerPrediction *float64  `json:"avg_points_per_prediction"`
}

// UserRank is the caller's own standing in a group.
type UserRank struct {
	UserID                 int64     `json:"user_id"`
	Username               string    `json:"username"`
	TotalPoints            int64     `json:"total_points"`
	RankPosition           *int64    `json:"rank_position"`
	LastUpdated            time.Time `json:"last_updated"`
	TotalPredictions       int64     `json:"total_predictions"`
	ScoredPredictions      int64     `json:"scored_predictions"`
	ExactPredictions       int64     `json:"exact_predictions"`
	AvgPointsPerPrediction *float64  `json:"avg_points_per_prediction"`
	TotalPlayers           int64     `json:"total_players"`
}

// FixtureResult is returned after an admin sets a fixture's final score.
type FixtureResult struct {
	MatchNum          int64     `json:"match_num"`
	HomeTeam          string    `json:"home_team"`
	AwayTeam          string    `json:"away_team"`
	HomeScore         int64     `json:"home_score"`
	AwayScore         int64     `json:"away_score"`
	Completed         bool      `json:"completed"`
	StartTime         time.Time `json:"start_time"`
	TotalPredictions  int64     `json:"total_predictions"`
	PredictionsScored int64     `json:"predictions_scored"`
}

// RecalcSummary is the outcome of recalculate_all_leaderboards.
type RecalcSummary struct {
	GroupsUpdated      int64 `json:"groups_updated"`
	UsersUpdated       int64 `json:"users_updated"`
	TotalPointsAwarded int64 `json:"total_points_awarded"`
}

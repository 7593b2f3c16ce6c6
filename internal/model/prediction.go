package model

import "time"

// Prediction is a user's score guess for one fixture within one group,
// joined with the fixture it refers to.
//
// Fields:
//   - Locked: set once the game starts; locked predictions are read-only.
//   - PointsEarned: null until the fixture is completed and scored.
//   - ActualHomeScore: the fixture's final score, null while pending.
type Prediction struct {
	PID             int64     `json:"pid"`
	UserID          int64     `json:"user_id"`
	GroupID         int64     `json:"group_id"`
	FixtureID       int64     `json:"fixture_id"`
	PredHomeScore   int64     `json:"pred_home_score"`
	PredAwayScore   int64     `json:"pred_away_score"`
	PredictionTime  time.Time `json:"prediction_time"`
	Locked          bool      `json:"locked"`
	PointsEarned    *int64    `json:"points_earned"`
	HomeTeam        string    `json:"home_team"`
	AwayTeam        string    `json:"away_team"`
	StartTime       time.Time `json:"start_time"`
	Completed       bool      `json:"completed"`
	ActualHomeScore *int64    `json:"actual_home_score"`
	ActualAwayScore *int64    `json:"actual_away_score"`
	GameDate        string    `json:"game_date"`
	GameTime        string    `json:"game_time"`
}

// FixturePrediction is one member's prediction as listed for a fixture.
type FixturePrediction struct {
	PID            int64     `json:"pid"`
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	PredHomeScore  int64     `json:"pred_home_score"`
	PredAwayScore  int64     `json:"pred_away_score"`
	PredictionTime time.Time `json:"prediction_time"`
	Locked         bool      `json:"locked"`
	PointsEarned   *int64    `json:"points_earned"`
}

// PredictionInput carries the fields of a create or update request.
type PredictionInput struct {
	UserID        int64
	GroupID       int64
	FixtureID     int64
	PredHomeScore int64
	PredAwayScore int64
}

// ScorePick is the caller's predicted score for a fixture, used to overlay
// predictions onto the next fixtures.
type ScorePick struct {
	MatchNum      int64
	PredHomeScore *int64
	PredAwayScore *int64
}

// DeleteResult is returned by delete and leave operations.
type DeleteResult struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

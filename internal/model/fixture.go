package model

import "time"

// Date and clock layouts used for the derived game_date/game_time fields.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// Fixture is a scheduled game.  MatchNum doubles as the fixture id in
// predictions.  Scores stay null until the game is completed.
type Fixture struct {
	MatchNum  int64     `json:"match_num"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeScore *int64    `json:"home_score"`
	AwayScore *int64    `json:"away_score"`
	Completed bool      `json:"completed"`
	StartTime time.Time `json:"start_time"`
	GameDate  string    `json:"game_date"`
	GameTime  string    `json:"game_time"`
}

// FillSchedule derives GameDate and GameTime from StartTime when the
// procedure did not return them.
func (f *Fixture) FillSchedule() {
	if f.StartTime.IsZero() {
		return
	}
	if f.GameDate == "" {
		f.GameDate = f.StartTime.Format(DateLayout)
	}
	if f.GameTime == "" {
		f.GameTime = f.StartTime.Format(ClockLayout)
	}
}

package model

import "time"

// User is the public view of an account as returned by the user
// procedures (get_user_by_id, create_user, get_user_for_login).
//
// Fields:
//   - UserID: primary key of the User table.
//   - Username: unique, always stored lowercase.
//   - Email: unique address.
//   - CreatedAt: registration time; some procedures omit it.
type User struct {
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at"`
}

// Credentials pairs a user with the stored bcrypt hash.  It is only used
// during login and never serialized.
type Credentials struct {
	User
	PasswordHash string `json:"-"`
}

// UserStats is the aggregate returned by get_user_stats.
type UserStats struct {
	TotalPredictions      int64   `json:"total_predictions"`
	TotalPoints           int64   `json:"total_points"`
	GroupsCount           int64   `json:"groups_count"`
	CorrectPredictions    int64   `json:"correct_predictions"`
	ExactScorePredictions int64   `json:"exact_score_predictions"`
	AccuracyPercentage    float64 `json:"accuracy_percentage"`
}

// UserProfile is the /auth/me response: the user plus headline stats.
type UserProfile struct {
	User
	TotalPredictions int64 `json:"total_predictions"`
	TotalPoints      int64 `json:"total_points"`
	GroupsCount      int64 `json:"groups_count"`
}

// Bio is the free-text profile kept in the Profile table.
type Bio struct {
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
}

// LoginUser is the user object embedded in a login response.
type LoginUser struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	User        LoginUser `json:"user"`
}

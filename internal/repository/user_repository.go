package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/prajwalvathreya/nba-project-backend/internal/database"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
)

// SIGNAL codes raised by create_user.
const (
	codeUsernameExists = 3001
	codeEmailExists    = 3002
)

// UserRepo reads and writes accounts.  Account data goes through stored
// procedures; the optional bio lives in the Profile table and is queried
// directly.
type UserRepo struct {
	Proc database.Caller
	DB   *sql.DB
}

func NewUserRepo(proc database.Caller, db *sql.DB) *UserRepo {
	return &UserRepo{Proc: proc, DB: db}
}

// UsernameExists reports whether the lowercased username is taken.
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "check_username_exists", strings.ToLower(username))
}

// EmailExists reports whether the lowercased email is taken.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "check_email_exists", strings.ToLower(email))
}

func (r *UserRepo) exists(ctx context.Context, proc, value string) (bool, error) {
	recs, err := r.Proc.Call(ctx, proc, value)
	if err != nil || len(recs) == 0 {
		return false, err
	}
	return recs[0].Int64("exists") > 0, nil
}

// Create inserts a user with an already hashed password.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (model.User, error) {
	recs, err := r.Proc.Call(ctx, "create_user", username, email, passwordHash)
	if err != nil {
		return model.User{}, translate(err,
			signal{code: codeUsernameExists, target: ErrUsernameExists},
			signal{code: codeEmailExists, target: ErrEmailExists},
		)
	}
	if len(recs) == 0 {
		return model.User{}, ErrEmptyResult
	}
	return decodeUser(recs[0]), nil
}

// ForLogin looks a user up by username or email and returns the stored
// hash alongside.
func (r *UserRepo) ForLogin(ctx context.Context, login string) (model.Credentials, error) {
	recs, err := r.Proc.Call(ctx, "get_user_for_login", login)
	if err != nil {
		return model.Credentials{}, err
	}
	if len(recs) == 0 {
		return model.Credentials{}, ErrNotFound
	}
	return model.Credentials{User: decodeUser(recs[0]), PasswordHash: recs[0].String("password")}, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	recs, err := r.Proc.Call(ctx, "get_user_by_id", id)
	if err != nil {
		return model.User{}, err
	}
	if len(recs) == 0 {
		return model.User{}, ErrNotFound
	}
	return decodeUser(recs[0]), nil
}

// Stats returns the user's aggregate statistics; a user without any
// activity gets zeroes.
func (r *UserRepo) Stats(ctx context.Context, id int64) (model.UserStats, error) {
	recs, err := r.Proc.Call(ctx, "get_user_stats", id)
	if err != nil || len(recs) == 0 {
		return model.UserStats{}, err
	}
	s := recs[0]
	return model.UserStats{
		TotalPredictions:      s.Int64("total_predictions"),
		TotalPoints:           s.Int64("total_points"),
		GroupsCount:           s.Int64("groups_count"),
		CorrectPredictions:    s.Int64("correct_predictions"),
		ExactScorePredictions: s.Int64("exact_score_predictions"),
		AccuracyPercentage:    s.Float64("accuracy_percentage"),
	}, nil
}

// GetBio returns the username and optional bio.
func (r *UserRepo) GetBio(ctx context.Context, id int64) (model.Bio, error) {
	var (
		b   model.Bio
		bio sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT u.username, p.bio FROM User u LEFT JOIN Profile p ON u.user_id = p.user_id WHERE u.user_id = ?",
		id).Scan(&b.Username, &bio)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bio{}, ErrNotFound
	}
	if err != nil {
		return model.Bio{}, err
	}
	if bio.Valid {
		b.Bio = &bio.String
	}
	return b, nil
}

// UpsertBio creates or replaces the user's bio.
func (r *UserRepo) UpsertBio(ctx context.Context, id int64, bio string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO Profile (user_id, bio) VALUES (?, ?) ON DUPLICATE KEY UPDATE bio = VALUES(bio)",
		id, bio)
	return err
}

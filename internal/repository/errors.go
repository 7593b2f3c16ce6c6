// Package repository defines the data access layer.  Every repository
// calls stored procedures through database.Caller and translates the
// procedures' SIGNAL errors into the sentinel values below, so handlers can
// branch with errors.Is instead of matching message text.
package repository

import (
	"errors"
	"fmt"

	"github.com/prajwalvathreya/nba-project-backend/internal/database"
)

// ErrForbidden is returned when the caller attempts an operation reserved
// for someone else.  Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation collides with existing state,
// such as a duplicate username.  The specific sentinels below wrap it.
var ErrConflict = errors.New("conflict")

// ErrNotFound is the generic missing-row error.
var ErrNotFound = errors.New("not found")

// ErrEmptyResult means a procedure that must return a row returned none.
var ErrEmptyResult = errors.New("procedure returned no rows")

var (
	ErrUsernameExists     = fmt.Errorf("%w: username already exists", ErrConflict)
	ErrEmailExists        = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrAlreadyMember      = fmt.Errorf("%w: already a member of this group", ErrConflict)
	ErrPredictionExists   = fmt.Errorf("%w: prediction already exists", ErrConflict)
	ErrFixtureCompleted   = fmt.Errorf("%w: fixture already completed", ErrConflict)
	ErrCreatorCannotLeave = fmt.Errorf("%w: group creator cannot leave", ErrConflict)
	ErrGameStarted        = fmt.Errorf("%w: game has already started", ErrConflict)
	ErrPredictionLocked   = fmt.Errorf("%w: prediction is locked", ErrConflict)

	ErrNotGroupCreator = fmt.Errorf("%w: only the group creator may do this", ErrForbidden)

	ErrGroupNotFound      = fmt.Errorf("group %w", ErrNotFound)
	ErrFixtureNotFound    = fmt.Errorf("fixture %w", ErrNotFound)
	ErrPredictionNotFound = fmt.Errorf("prediction %w", ErrNotFound)
	ErrNotMember          = fmt.Errorf("membership %w", ErrNotFound)
)

// signal maps a procedure message fragment, or a numeric code when code is
// non-zero, to a sentinel.
type signal struct {
	code   int
	match  string
	target error
}

// translate returns err with the first matching sentinel attached, or err
// unchanged when it is not a procedure error or nothing matches.  Rules
// are tried in order.
func translate(err error, rules ...signal) error {
	pe, ok := database.AsProcError(err)
	if !ok {
		return err
	}
	for _, r := range rules {
		if (r.code != 0 && pe.Code == r.code) || (r.match != "" && pe.Contains(r.match)) {
			return fmt.Errorf("%w: %w", r.target, pe)
		}
	}
	return err
}

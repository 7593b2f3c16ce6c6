package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
)

// dbTimeout bounds every request's database work.
const dbTimeout = 5 * time.Second

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// callerID returns the user id the auth gate stored in the context.
func callerID(c echo.Context) (int64, bool) {
	id, ok := auth.IdentityFrom(c)
	if !ok || id.UserID <= 0 {
		return 0, false
	}
	return id.UserID, true
}

// positiveParam parses a path parameter that must be a positive integer.
func positiveParam(c echo.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	return n, err == nil && n > 0
}

// optionalQueryID parses an optional positive integer query parameter.  The
// second result is false when the value is present but invalid.
func optionalQueryID(c echo.Context, name string) (*int64, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return nil, false
	}
	return &n, true
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// serverError logs err and answers with a generic 500 carrying msg.
func serverError(c echo.Context, log *zap.Logger, msg string, err error) error {
	log.Error(msg, zap.Error(err), zap.String("path", c.Request().URL.Path))
	return errorJSON(c, http.StatusInternalServerError, msg)
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

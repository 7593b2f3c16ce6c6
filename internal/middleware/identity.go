package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
)

// callerKey identifies the caller for rate-limit keys: the user id set by
// the auth gate, or "anon" on public routes.
func callerKey(c echo.Context) string {
	if id, ok := c.Get(auth.ContextUserID).(int64); ok && id > 0 {
		return strconv.FormatInt(id, 10)
	}
	return "anon"
}

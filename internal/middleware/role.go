package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
)

// RequireAdmin allows only the listed usernames through.  It must run after
// the auth gate; a request without an identity is treated as unauthenticated.
// An empty list locks the route for everyone.
func RequireAdmin(usernames ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(usernames))
	for _, u := range usernames {
		allowed[strings.ToLower(u)] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := auth.IdentityFrom(c)
			if !ok {
				return auth.Unauthorized(c)
			}
			if !allowed[strings.ToLower(id.Username)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Admin privileges required"})
			}
			return next(c)
		}
	}
}

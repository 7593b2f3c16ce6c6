// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
	"github.com/prajwalvathreya/nba-project-backend/internal/config"
	"github.com/prajwalvathreya/nba-project-backend/internal/handler"
	"github.com/prajwalvathreya/nba-project-backend/internal/middleware"
)

// Deps collects everything the routes need.  Redis may be nil, which
// disables rate limiting and caching.
type Deps struct {
	Log         *zap.Logger
	Gate        *auth.Gate
	Redis       *redis.Client
	RateLimit   config.RateLimitConfig
	Cache       config.CacheConfig
	CORSOrigins []string
	Admins      []string

	System      *handler.SystemHandler
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Group       *handler.GroupHandler
	Fixture     *handler.FixtureHandler
	Prediction  *handler.PredictionHandler
	Leaderboard *handler.LeaderboardHandler
}

// New builds the Echo instance with every route registered.
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = errorHandler(d.Log)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	RegisterSystem(e, d.System)
	RegisterAuth(e, d)
	RegisterUser(e, d)
	RegisterGroups(e, d)
	RegisterFixtures(e, d)
	RegisterPredictions(e, d)
	RegisterLeaderboard(e, d)
	return e
}

// RegisterSystem exposes the unauthenticated service endpoints.
func RegisterSystem(e *echo.Echo, s *handler.SystemHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if s == nil {
		return
	}
	e.GET("/", s.Root)
	e.GET("/health", s.Health)
	e.GET("/info", s.Info)
}

// RegisterAuth mounts /auth.  Register, login and the bcrypt self-test
// share their own, tighter rate-limit bucket.
func RegisterAuth(e *echo.Echo, d Deps) {
	g := e.Group("/auth")
	limit := middleware.NewTokenBucket(d.RateLimit.ForAuth(), d.Redis, d.Log)
	g.POST("/register", d.Auth.Register, limit)
	g.POST("/login", d.Auth.Login, limit)
	g.GET("/health", d.Auth.Health, limit)

	gated := g.Group("", d.Gate.Middleware())
	gated.GET("/me", d.Auth.Me)
	gated.GET("/verify-token", d.Auth.VerifyToken)
}

func RegisterUser(e *echo.Echo, d Deps) {
	g := e.Group("/user", d.Gate.Middleware(), apiLimit(d))
	g.GET("/me/profile", d.User.GetProfile)
	g.PUT("/me/profile", d.User.UpdateProfile)
	g.GET("/me/stats", d.User.Stats)
}

func RegisterGroups(e *echo.Echo, d Deps) {
	e.GET("/groups/code/:group_code", d.Group.ByCode, apiLimit(d))

	g := e.Group("/groups", d.Gate.Middleware(), apiLimit(d))
	g.POST("", d.Group.Create)
	g.POST("/join", d.Group.Join)
	g.GET("/me", d.Group.Mine)
	g.GET("/:group_id", d.Group.Get)
	g.GET("/:group_id/members", d.Group.Members)
	g.DELETE("/:group_id/leave", d.Group.Leave)
	g.DELETE("/:group_id", d.Group.Delete)
}

// RegisterFixtures mounts the fixture reads.  Public reads are cached; the
// per-user merged view is gated and never cached.
func RegisterFixtures(e *echo.Echo, d Deps) {
	g := e.Group("/fixtures", apiLimit(d))
	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Log)
	g.GET("/next", d.Fixture.Next, cache)
	g.GET("/upcoming", d.Fixture.Upcoming, cache)
	g.GET("/past", d.Fixture.Past, cache)
	g.GET("/lastupdatedfixture", d.Fixture.LastUpdated, cache)
	g.GET("/next-fixtures-with-predictions", d.Fixture.NextWithPredictions, d.Gate.Middleware())
	g.GET("/:match_num", d.Fixture.Get, cache)
}

func RegisterPredictions(e *echo.Echo, d Deps) {
	g := e.Group("/predictions", d.Gate.Middleware(), apiLimit(d))
	g.POST("", d.Prediction.Create)
	g.PUT("", d.Prediction.Update)
	g.DELETE("", d.Prediction.Delete)
	g.GET("/me", d.Prediction.Mine)
	g.GET("/me/range", d.Prediction.MineInRange)
	g.GET("/fixture/:fixture_id", d.Prediction.ForFixture)
	g.GET("/:pid", d.Prediction.Get)
}

// RegisterLeaderboard mounts standings for members and the admin scoring
// endpoints, which additionally require an ADMIN_USERNAMES entry.
func RegisterLeaderboard(e *echo.Echo, d Deps) {
	g := e.Group("/leaderboard", d.Gate.Middleware(), apiLimit(d))

	admin := g.Group("/admin", middleware.RequireAdmin(d.Admins...))
	admin.PUT("/fixtures/:fixture_id/scores", d.Leaderboard.SetScores)
	admin.POST("/recalculate", d.Leaderboard.Recalculate)

	g.GET("/:group_id", d.Leaderboard.Group)
	g.GET("/:group_id/me", d.Leaderboard.Me)
}

func apiLimit(d Deps) echo.MiddlewareFunc {
	return middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log)
}

// errorHandler renders every framework error as JSON.  Unknown routes get
// a fixed body.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := any(http.StatusText(code))
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = he.Message
		} else {
			log.Error("unhandled error", zap.Error(err), zap.String("path", c.Request().URL.Path))
		}

		var body echo.Map
		switch code {
		case http.StatusNotFound:
			body = echo.Map{"error": "Not Found", "message": "The requested endpoint was not found"}
		case http.StatusMethodNotAllowed:
			body = echo.Map{"error": "Method Not Allowed", "message": "The requested method is not allowed for this endpoint"}
		default:
			body = echo.Map{"error": msg}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

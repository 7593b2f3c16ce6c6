package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
	"github.com/prajwalvathreya/nba-project-backend/internal/database"
)

// Health is the liveness probe used by load balancers.  It does not touch
// the database.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// DBInspector reports database connectivity and row counts.
type DBInspector interface {
	Check(ctx context.Context) database.Status
	Stats(ctx context.Context) (*database.Stats, error)
}

// SystemHandler serves the service-level endpoints: welcome, the full
// health report and API info.
type SystemHandler struct {
	DB      DBInspector
	Auth    auth.Info
	Version string
	Log     *zap.Logger
}

func NewSystemHandler(db DBInspector, authInfo auth.Info, version string, log *zap.Logger) *SystemHandler {
	return &SystemHandler{DB: db, Auth: authInfo, Version: version, Log: orNop(log)}
}

func (h *SystemHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Welcome to NBA Basketball Prediction API",
		"version": h.Version,
		"docs":    "/info",
		"health":  "/health",
	})
}

type dbReport struct {
	Status       string          `json:"status"`
	Host         string          `json:"host"`
	Database     string          `json:"database"`
	MySQLVersion string          `json:"mysql_version"`
	TablesCount  int             `json:"tables_count"`
	Statistics   *database.Stats `json:"statistics"`
}

type authReport struct {
	JWTConfigured    bool   `json:"jwt_configured"`
	Algorithm        string `json:"algorithm"`
	TokenExpireHours int    `json:"token_expire_hours"`
}

// Health reports "healthy" only when the database is connected and the
// JWT secret is configured; otherwise "degraded".  It always answers 200 so
// the body can be inspected.
func (h *SystemHandler) Health(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	st := h.DB.Check(ctx)
	if st.Error != "" {
		h.Log.Warn("database health check failed", zap.String("error", st.Error))
	}
	stats, err := h.DB.Stats(ctx)
	if err != nil {
		h.Log.Warn("database stats unavailable", zap.Error(err))
	}

	status := "degraded"
	dbOK := st.Error == "" && (st.Status == "connected" || st.Status == "healthy")
	if dbOK && h.Auth.SecretConfigured {
		status = "healthy"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": status,
		"database": dbReport{
			Status:       st.Status,
			Host:         st.Host,
			Database:     st.Database,
			MySQLVersion: st.MySQLVersion,
			TablesCount:  st.TablesCount,
			Statistics:   stats,
		},
		"authentication": authReport{
			JWTConfigured:    h.Auth.SecretConfigured,
			Algorithm:        h.Auth.Algorithm,
			TokenExpireHours: h.Auth.ExpireHours,
		},
		"version": h.Version,
	})
}

// Info describes the API and its current row counts.
func (h *SystemHandler) Info(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	stats, err := h.DB.Stats(ctx)
	if err != nil {
		return serverError(c, h.Log, "Failed to retrieve API information", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"api": echo.Map{
			"name":        "NBA Basketball Prediction API",
			"version":     h.Version,
			"description": "Echo-based NBA score prediction platform",
		},
		"features": []string{
			"User authentication with JWT tokens",
			"Group-based predictions",
			"NBA fixture integration",
			"Leaderboard rankings",
			"Fixture completion events",
		},
		"statistics": stats,
		"endpoints": echo.Map{
			"authentication": "/auth/*",
			"health":         "/health",
			"metrics":        "/metrics",
		},
	})
}

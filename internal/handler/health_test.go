package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
	"github.com/prajwalvathreya/nba-project-backend/internal/database"
)

type fakeInspector struct {
	status   database.Status
	stats    *database.Stats
	statsErr error
}

func (f fakeInspector) Check(context.Context) database.Status { return f.status }
func (f fakeInspector) Stats(context.Context) (*database.Stats, error) {
	return f.stats, f.statsErr
}

func healthStatus(t *testing.T, db DBInspector, info auth.Info) string {
	t.Helper()
	rec := serve(t, NewSystemHandler(db, info, "1.0.0", nil).Health, http.MethodGet, "/health", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Status
}

func TestSystemHealth(t *testing.T) {
	configured := auth.Info{Algorithm: auth.Algorithm, ExpireHours: 24, SecretConfigured: true}
	up := fakeInspector{status: database.Status{Status: "connected", Database: "nba_db"}, stats: &database.Stats{Users: 3}}

	assert.Equal(t, "healthy", healthStatus(t, up, configured))
	assert.Equal(t, "degraded", healthStatus(t, up, auth.Info{}))
	assert.Equal(t, "degraded", healthStatus(t,
		fakeInspector{status: database.Status{Status: "failed", Error: "dial tcp: refused"}}, configured))
}

func TestSystemInfo(t *testing.T) {
	h := NewSystemHandler(fakeInspector{stats: &database.Stats{Users: 3, Fixtures: 1230}}, auth.Info{}, "1.0.0", nil)

	rec := serve(t, h.Info, http.MethodGet, "/info", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fixtures":1230`)

	h.DB = fakeInspector{statsErr: errors.New("boom")}
	rec = serve(t, h.Info, http.MethodGet, "/info", "", 0)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = serve(t, Health, http.MethodGet, "/healthz", "", 0)
	assert.Equal(t, "ok", rec.Body.String())
}

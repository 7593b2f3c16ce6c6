package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCaller answers procedure calls from a fixed table.
type stubCaller map[string][]Record

func (s stubCaller) Call(_ context.Context, proc string, _ ...any) ([]Record, error) {
	recs, ok := s[proc]
	if !ok {
		return nil, errors.New("no such procedure: " + proc)
	}
	return recs, nil
}

func tableRows(names ...string) []Record {
	out := make([]Record, len(names))
	for i, n := range names {
		out[i] = Record{"TABLE_NAME": n}
	}
	return out
}

func TestInspectorCheck(t *testing.T) {
	in := NewInspector(stubCaller{
		"test_database_connection": {{"current_db": "nba_db", "version": "8.0.36"}},
		"get_database_health":      {{"status": "connected"}},
		"check_required_tables":    tableRows(RequiredTables...),
	}, Options{Host: "db", Name: "nba_db"})

	st := in.Check(context.Background())
	assert.Equal(t, "connected", st.Status)
	assert.Equal(t, "8.0.36", st.MySQLVersion)
	assert.Equal(t, len(RequiredTables), st.TablesCount)
	assert.Empty(t, st.Error)
}

func TestInspectorCheckReportsFailure(t *testing.T) {
	st := NewInspector(stubCaller{}, Options{Host: "db", Name: "nba_db"}).Check(context.Background())
	assert.Equal(t, "failed", st.Status)
	assert.Equal(t, "nba_db", st.Database)
	assert.NotEmpty(t, st.Error)
}

func TestVerifySchema(t *testing.T) {
	in := NewInspector(stubCaller{"check_required_tables": tableRows("User", "Group", "Fixture")}, Options{})
	err := in.VerifySchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Leaderboard, Prediction, UserGroups")

	in = NewInspector(stubCaller{"check_required_tables": tableRows(RequiredTables...)}, Options{})
	assert.NoError(t, in.VerifySchema(context.Background()))
}

func TestStats(t *testing.T) {
	in := NewInspector(stubCaller{
		"get_database_stats": {{"users": int64(4), "groups": []byte("2"), "fixtures": int64(1230), "predictions": int64(88)}},
	}, Options{})
	st, err := in.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Stats{Users: 4, Groups: 2, Fixtures: 1230, Predictions: 88}, st)
}

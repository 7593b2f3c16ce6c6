package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// RequiredTables must exist before the service accepts traffic.
var RequiredTables = []string{"User", "Group", "UserGroups", "Fixture", "Prediction", "Leaderboard"}

// Status is the database section of the health report.
type Status struct {
	Status       string   `json:"status"`
	Host         string   `json:"host,omitempty"`
	Database     string   `json:"database"`
	MySQLVersion string   `json:"mysql_version,omitempty"`
	Tables       []string `json:"tables_found,omitempty"`
	TablesCount  int      `json:"tables_count"`
	Error        string   `json:"error,omitempty"`
}

// Stats are the row counts reported by get_database_stats.
type Stats struct {
	Users       int64 `json:"users"`
	Groups      int64 `json:"groups"`
	Fixtures    int64 `json:"fixtures"`
	Predictions int64 `json:"predictions"`
}

// Inspector reports on the schema and data through diagnostic procedures.
type Inspector struct {
	db   Caller
	host string
	name string
}

func NewInspector(db Caller, o Options) *Inspector {
	return &Inspector{db: db, host: o.Host, name: o.Name}
}

// Check never fails; problems are reported in Status.Status and Error.
func (in *Inspector) Check(ctx context.Context) Status {
	st := Status{Status: "failed", Host: in.host, Database: in.name}

	conn, err := in.db.Call(ctx, "test_database_connection")
	if err != nil {
		st.Error = err.Error()
		return st
	}
	if len(conn) == 0 {
		st.Error = "test_database_connection returned no rows"
		return st
	}
	st.Status = "connected"
	if db := conn[0].String("current_db"); db != "" {
		st.Database = db
	}
	st.MySQLVersion = conn[0].String("version")

	if health, err := in.db.Call(ctx, "get_database_health"); err == nil && len(health) > 0 {
		if s := health[0].String("status"); s != "" {
			st.Status = s
		}
	}
	tables, err := in.tables(ctx)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Tables = tables
	st.TablesCount = len(tables)
	return st
}

func (in *Inspector) tables(ctx context.Context) ([]string, error) {
	recs, err := in.db.Call(ctx, "check_required_tables")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.String("TABLE_NAME"))
	}
	return out, nil
}

// VerifySchema returns an error naming every missing required table.
func (in *Inspector) VerifySchema(ctx context.Context) error {
	found, err := in.tables(ctx)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(found))
	for _, t := range found {
		have[t] = true
	}
	var missing []string
	for _, t := range RequiredTables {
		if !have[t] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("database: missing required tables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Stats returns nil when the procedure yields nothing.
func (in *Inspector) Stats(ctx context.Context) (*Stats, error) {
	recs, err := in.db.Call(ctx, "get_database_stats")
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	r := recs[0]
	return &Stats{
		Users:       r.Int64("users"),
		Groups:      r.Int64("groups"),
		Fixtures:    r.Int64("fixtures"),
		Predictions: r.Int64("predictions"),
	}, nil
}

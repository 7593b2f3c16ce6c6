package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/metrics"
)

// MySQL error numbers in this range are raised by SIGNAL statements inside
// the stored procedures and carry a user-facing message.
const (
	businessCodeMin = 1000
	businessCodeMax = 5999
)

// ProcError is a business rule violation signalled by a stored procedure.
type ProcError struct {
	Proc    string
	Code    int
	Message string
}

func (e *ProcError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Contains reports whether the signalled message contains substr,
// case-insensitively.  Procedures identify most failures by message only.
func (e *ProcError) Contains(substr string) bool {
	return strings.Contains(strings.ToLower(e.Message), strings.ToLower(substr))
}

// AsProcError unwraps err to a *ProcError.
func AsProcError(err error) (*ProcError, bool) {
	var pe *ProcError
	ok := errors.As(err, &pe)
	return pe, ok
}

// Caller executes a stored procedure and returns the rows of its last
// non-empty result set.  Repositories depend on this interface.
type Caller interface {
	Call(ctx context.Context, proc string, args ...any) ([]Record, error)
}

// Gateway runs every procedure call in its own transaction: committed when
// the call and all result sets succeed, rolled back otherwise.
type Gateway struct {
	db  *sql.DB
	log *zap.Logger
}

func NewGateway(db *sql.DB, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{db: db, log: log}
}

var procName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Call executes CALL proc(args...).  Procedures may emit several result
// sets; the last one holding rows wins, and an all-empty call returns nil.
func (g *Gateway) Call(ctx context.Context, proc string, args ...any) (recs []Record, err error) {
	if !procName.MatchString(proc) {
		return nil, fmt.Errorf("database: invalid procedure name %q", proc)
	}
	start := time.Now()
	defer func() {
		result := metrics.ResultOK
		if err != nil {
			result = metrics.ResultError
		}
		metrics.ProcedureCalls.WithLabelValues(proc, result).Observe(time.Since(start).Seconds())
	}()

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, g.classify(proc, err)
	}
	recs, err = callIn(ctx, tx, proc, args)
	if err != nil {
		_ = tx.Rollback()
		return nil, g.classify(proc, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, g.classify(proc, err)
	}
	g.log.Debug("procedure executed", zap.String("procedure", proc), zap.Int("rows", len(recs)))
	return recs, nil
}

func callIn(ctx context.Context, tx *sql.Tx, proc string, args []any) ([]Record, error) {
	q := "CALL " + proc + "(" + placeholders(len(args)) + ")"
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var last []Record
	for {
		set, err := readSet(rows)
		if err != nil {
			return nil, err
		}
		if len(set) > 0 {
			last = set
		}
		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return last, nil
}

func readSet(rows *sql.Rows) ([]Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(Record, len(cols))
		for i, c := range cols {
			rec[c] = vals[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// classify turns SIGNAL errors into *ProcError and wraps everything else.
func (g *Gateway) classify(proc string, err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number >= businessCodeMin && me.Number <= businessCodeMax {
		g.log.Info("procedure rejected call",
			zap.String("procedure", proc), zap.Uint16("code", me.Number), zap.String("message", me.Message))
		return &ProcError{Proc: proc, Code: int(me.Number), Message: me.Message}
	}
	g.log.Error("procedure failed", zap.String("procedure", proc), zap.Error(err))
	return fmt.Errorf("database: call %s: %w", proc, err)
}

// Ping checks connectivity for health endpoints.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

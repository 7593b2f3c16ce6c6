package database

import (
	"strconv"
	"time"
)

// Record is one result row addressed by column name.  Values are whatever
// the driver produced: int64, float64, []byte, string, time.Time or nil.
// The accessors coerce between them so callers do not care whether the
// text or binary protocol was used.
type Record map[string]any

func (r Record) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}

func (r Record) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func (r Record) NullString(col string) *string {
	if !r.Has(col) {
		return nil
	}
	s := r.String(col)
	return &s
}

func (r Record) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
	case []byte:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	}
	return 0
}

func (r Record) Int(col string) int { return int(r.Int64(col)) }

func (r Record) NullInt64(col string) *int64 {
	if !r.Has(col) {
		return nil
	}
	n := r.Int64(col)
	return &n
}

func (r Record) Float64(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// Bool treats non-zero numbers and "true" as true; TINYINT(1) arrives as a
// number.
func (r Record) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case []byte, string:
		b, err := strconv.ParseBool(r.String(col))
		return err == nil && b
	}
	return r.Int64(col) != 0
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
}

func (r Record) Time(col string) time.Time {
	switch v := r[col].(type) {
	case time.Time:
		return v.UTC()
	case []byte, string:
		s := r.String(col)
		for _, l := range timeLayouts {
			if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func (r Record) NullTime(col string) *time.Time {
	if !r.Has(col) {
		return nil
	}
	t := r.Time(col)
	if t.IsZero() {
		return nil
	}
	return &t
}

func parseInt(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	// DECIMAL and SUM() results arrive as "12.00".
	f, _ := strconv.ParseFloat(s, 64)
	return int64(f)
}

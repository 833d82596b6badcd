package crud

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/crudgen/dialect/sql"
	"github.com/syssam/crudgen/graph"
	"github.com/syssam/crudgen/query"
	"github.com/syssam/crudgen/schema/field"
)

// scanRecords scans all rows into records and closes rows. Values are
// normalized to the Go type of their field.
func scanRecords(rows sql.ColumnScanner, t *graph.Type) (records []query.Record, err error) {
	defer func() {
		if cerr := rows.Close(); err == nil {
			err = cerr
		}
	}()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	fields := make([]*graph.Field, len(columns))
	for i, c := range columns {
		fields[i], _ = t.Field(c)
	}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		r := make(query.Record, len(columns))
		for i, c := range columns {
			v, err := normalize(fields[i], values[i])
			if err != nil {
				return nil, err
			}
			r[c] = v
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// normalize converts a driver value to the Go type of the field:
// drivers differ in how they return text, booleans, integers, times and
// uuids. Unknown columns are returned unchanged.
func normalize(f *graph.Field, v any) (any, error) {
	if f == nil || v == nil {
		return v, nil
	}
	if b, ok := v.([]byte); ok && f.Type != field.TypeBytes && f.Type != field.TypeUUID {
		v = string(b)
	}
	switch f.Type {
	case field.TypeString, field.TypeText, field.TypeEnum, field.TypeDecimal:
		switch v := v.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		}
	case field.TypeBool:
		switch v := v.(type) {
		case bool:
			return v, nil
		case int64:
			return v != 0, nil
		case string:
			return strconv.ParseBool(v)
		}
	case field.TypeInt, field.TypeInt64:
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("crud: column %s: %w", f.Name, err)
		}
		if f.Type == field.TypeInt {
			return int(n), nil
		}
		return n, nil
	case field.TypeFloat64:
		switch v := v.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			return strconv.ParseFloat(v, 64)
		}
	case field.TypeTime:
		switch v := v.(type) {
		case time.Time:
			return v, nil
		case string:
			return parseTime(v)
		case int64:
			return time.Unix(v, 0).UTC(), nil
		}
	case field.TypeUUID:
		switch v := v.(type) {
		case uuid.UUID:
			return v, nil
		case [16]byte:
			return uuid.UUID(v), nil
		case string:
			return uuid.Parse(v)
		case []byte:
			if len(v) == 16 {
				return uuid.FromBytes(v)
			}
			return uuid.ParseBytes(v)
		}
	case field.TypeBytes:
		switch v := v.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		}
	}
	return nil, fmt.Errorf("crud: column %s: unexpected %T for %s field", f.Name, v, f.Type)
}

func toInt64(v any) (int64, error) {
	switch v := v.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("unsigned value %d overflows int64", v)
		}
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	}
	return 0, fmt.Errorf("unexpected %T for integer field", v)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	// Drop the monotonic clock reading of time.Time.String.
	if i := strings.Index(s, " m="); i > 0 {
		s = s[:i]
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("crud: cannot parse time %q", s)
}

// Value returns the value of column name in r converted to T. It reports
// false when the column is missing, NULL, or holds another type.
//
//	name, ok := crud.Value[string](rec, "name")
func Value[T any](r query.Record, name string) (T, bool) {
	v, ok := r[name].(T)
	return v, ok
}

// Key converts a primary key returned by Table.Insert to T.
func Key[T any](v any) (T, error) {
	k, ok := v.(T)
	if !ok {
		return k, fmt.Errorf("crud: primary key %v is %T, not %T", v, v, k)
	}
	return k, nil
}

package tablestore

import (
	"encoding/json"
	"strconv"
	"time"
)

// Backends hand back numbers in whatever width their driver chooses
// (int64, float64, json.Number, []byte). These helpers normalize them.

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	case float32:
		return int64(x)
	case json.Number:
		n, _ := x.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(x, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(x), 10, 64)
		return n
	}
	return 0
}

// Int64 exposes the normalization to the translation layer.
func Int64(v any) int64 { return toInt64(v) }

// Millis reads a timestamp column as epoch milliseconds. Numeric values pass
// through Int64; text is tried as an integer, then as an ISO timestamp the
// way PostgREST renders timestamptz.
func Millis(v any) int64 {
	switch x := v.(type) {
	case time.Time:
		return x.UnixMilli()
	case []byte:
		return Millis(string(x))
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return n
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t.UnixMilli()
			}
		}
		return 0
	}
	return toInt64(v)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999", // timestamp without time zone
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Bool normalizes driver booleans (bool, 0/1 integers, "t"/"true").
func Bool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(x)
		return b
	case []byte:
		b, _ := strconv.ParseBool(string(x))
		return b
	case nil:
		return false
	}
	return toInt64(v) != 0
}

// String normalizes driver text ([]byte or string).
func String(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case nil:
		return ""
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// JSONBytes returns the raw JSON encoding of a JSON-column value, whether the
// backend returned it as text, bytes or an already-decoded value.
func JSONBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	case json.RawMessage:
		return x, nil
	}
	return json.Marshal(v)
}

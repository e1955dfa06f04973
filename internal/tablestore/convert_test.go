package tablestore

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMillis(t *testing.T) {
	iso := time.Date(2025, 1, 2, 3, 4, 5, 123e6, time.UTC).UnixMilli()
	cases := map[string]struct {
		in   any
		want int64
	}{
		"int64":       {int64(42), 42},
		"json number": {json.Number("1700000000123"), 1700000000123},
		"digits":      {"17", 17},
		"postgrest":   {"2025-01-02T03:04:05.123+00:00", iso},
		"utc z":       {"2025-01-02T03:04:05.123Z", iso},
		"no zone":     {"2025-01-02T03:04:05.123", iso},
		"sql text":    {[]byte("2025-01-02 03:04:05.123+00:00"), iso},
		"time value":  {time.UnixMilli(iso), iso},
		"garbage":     {"yesterday", 0},
		"missing":     {nil, 0},
	}
	for name, tc := range cases {
		if got := Millis(tc.in); got != tc.want {
			t.Errorf("%s: Millis(%v) = %d, want %d", name, tc.in, got, tc.want)
		}
	}
}

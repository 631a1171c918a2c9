package timeutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts accepted for textual timestamps, tried in order. Layouts without a
// zone are interpreted in local time, matching how capture agents record them.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse normalizes the mixed timestamp encodings found in activity records.
// Capture agents have written integer epoch seconds, ISO-8601 strings, and
// native time values over time; every ingestion point goes through this one
// function instead of type-switching locally.
func Parse(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case int:
		return time.Unix(int64(t), 0), nil
	case int64:
		return time.Unix(t, 0), nil
	case float64:
		// JSON numbers decode as float64.
		return time.Unix(int64(t), 0), nil
	case json.Number:
		sec, err := t.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid epoch timestamp %q", t.String())
		}
		return time.Unix(sec, 0), nil
	case string:
		return parseString(t)
	case []byte:
		return parseString(string(t))
	case nil:
		return time.Time{}, fmt.Errorf("missing timestamp")
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	// Epoch seconds sometimes arrive as decimal strings.
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0), nil
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

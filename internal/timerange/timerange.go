package timerange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognized reports a phrase the resolver cannot map to a time range.
var ErrUnrecognized = errors.New("unrecognized time range")

// Resolver maps natural-language phrases like "last week" or "yesterday" to
// concrete [start, end) bounds.
type Resolver struct {
	w   *when.Parser
	now func() time.Time
}

func NewResolver() *Resolver {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Resolver{w: w, now: time.Now}
}

// Resolve parses a time range phrase. Fixed phrases are handled directly;
// anything else goes through natural-language date parsing and becomes the
// range between the parsed instant and now.
func (r *Resolver) Resolve(phrase string) (time.Time, time.Time, error) {
	now := r.now()
	midnight := startOfDay(now)
	normalized := strings.ToLower(strings.TrimSpace(phrase))

	switch normalized {
	case "today":
		return midnight, midnight.AddDate(0, 0, 1), nil
	case "yesterday":
		return midnight.AddDate(0, 0, -1), midnight, nil
	case "this week":
		return startOfWeek(now), now, nil
	case "last week":
		weekStart := startOfWeek(now)
		return weekStart.AddDate(0, 0, -7), weekStart, nil
	case "this month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, nil
	case "last month":
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return monthStart.AddDate(0, -1, 0), monthStart, nil
	}

	// "last N days" / "last N hours"
	if start, ok := parseLastN(normalized, now); ok {
		return start, now, nil
	}

	// Explicit date: the whole of that day.
	if day, err := time.ParseInLocation("2006-01-02", normalized, now.Location()); err == nil {
		return day, day.AddDate(0, 0, 1), nil
	}

	result, err := r.w.Parse(phrase, now)
	if err != nil || result == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, phrase)
	}
	if result.Time.After(now) {
		return now, result.Time, nil
	}
	return result.Time, now, nil
}

// Describe renders resolved bounds as a human-readable label.
func Describe(start, end time.Time) string {
	// End bounds are exclusive; the last covered instant names the label.
	last := end.Add(-time.Second)
	if sameDay(start, last) {
		return start.Format("January 2, 2006")
	}
	if start.Year() == last.Year() {
		return fmt.Sprintf("%s to %s", start.Format("January 2"), last.Format("January 2, 2006"))
	}
	return fmt.Sprintf("%s to %s", start.Format("January 2, 2006"), last.Format("January 2, 2006"))
}

func parseLastN(phrase string, now time.Time) (time.Time, bool) {
	fields := strings.Fields(phrase)
	if len(fields) != 3 || fields[0] != "last" {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n <= 0 {
		return time.Time{}, false
	}
	switch fields[2] {
	case "day", "days":
		return startOfDay(now).AddDate(0, 0, -(n - 1)), true
	case "hour", "hours":
		return now.Add(-time.Duration(n) * time.Hour), true
	case "week", "weeks":
		return startOfDay(now).AddDate(0, 0, -7*n), true
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Monday midnight.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

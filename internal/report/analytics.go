package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"lookback/internal/storage"
	"lookback/internal/timeutil"
)

// computeAnalytics derives the period metrics from raw screenshot and session
// records. intervalSeconds is the configured capture interval; each screenshot
// is worth that much estimated time in the app/window/hour/day buckets.
//
// Missing optional fields default (no duration -> 0, no app or title ->
// "Unknown"), but a screenshot timestamp that cannot be normalized is an
// input-validation error and aborts the computation.
func computeAnalytics(screenshots []storage.Screenshot, sessions []storage.Session, intervalSeconds int) (Analytics, error) {
	intervalMinutes := float64(intervalSeconds) / 60.0

	var sessionMinutes int64
	for _, s := range sessions {
		sessionMinutes += s.DurationSeconds / 60
	}

	times := make([]time.Time, len(screenshots))
	for i, ss := range screenshots {
		t, err := timeutil.Parse(ss.Timestamp)
		if err != nil {
			return Analytics{}, fmt.Errorf("screenshot %s: %w", ss.ID, err)
		}
		times[i] = t
	}

	apps := newMinuteCounter()
	windows := newMinuteCounter()
	for _, ss := range screenshots {
		apps.add(orUnknown(ss.AppName), intervalMinutes)
		windows.add(ellipsize(orUnknown(ss.WindowTitle), 50), intervalMinutes)
	}

	totalAppMinutes := apps.total()
	denominator := totalAppMinutes
	if denominator == 0 {
		denominator = 1
	}
	topApps := make([]AppUsage, 0, len(apps.order))
	for _, name := range apps.order {
		mins := apps.minutes[name]
		topApps = append(topApps, AppUsage{
			Name:       name,
			Minutes:    int(mins),
			Percentage: round1(mins / denominator * 100),
		})
	}
	sort.SliceStable(topApps, func(i, j int) bool { return topApps[i].Minutes > topApps[j].Minutes })
	topApps = topApps[:min(len(topApps), 10)]

	topWindows := make([]WindowUsage, 0, len(windows.order))
	for _, title := range windows.order {
		topWindows = append(topWindows, WindowUsage{Title: title, Minutes: int(windows.minutes[title])})
	}
	sort.SliceStable(topWindows, func(i, j int) bool { return topWindows[i].Minutes > topWindows[j].Minutes })
	topWindows = topWindows[:min(len(topWindows), 10)]

	var hourMinutes [24]float64
	days := newMinuteCounter()
	for _, t := range times {
		hourMinutes[t.Hour()] += intervalMinutes
		days.add(t.Format("2006-01-02"), intervalMinutes)
	}

	var byHour [24]int
	for i, m := range hourMinutes {
		byHour[i] = int(m)
	}

	dayKeys := append([]string(nil), days.order...)
	sort.Strings(dayKeys)
	byDay := make([]DayActivity, 0, len(dayKeys))
	for _, day := range dayKeys {
		byDay = append(byDay, DayActivity{Date: day, Minutes: int(days.minutes[day])})
	}

	totalActive := int(sessionMinutes)
	if totalActive == 0 {
		// No session records (or none with durations): the sampled
		// app-minute estimate is the only signal left.
		totalActive = int(totalAppMinutes)
	}

	return Analytics{
		TotalActiveMinutes: totalActive,
		TotalSessions:      len(sessions),
		TopApps:            topApps,
		TopWindows:         topWindows,
		ActivityByHour:     byHour,
		ActivityByDay:      byDay,
		BusiestPeriod:      busiestPeriod(times),
	}, nil
}

// busiestPeriod labels the (weekday, part-of-day) bucket with the most
// screenshots, e.g. "Tuesday afternoon". Ties keep the first key encountered.
func busiestPeriod(times []time.Time) string {
	if len(times) == 0 {
		return "No activity"
	}

	counts := map[string]int{}
	var order []string
	for _, t := range times {
		var period string
		switch {
		case t.Hour() < 12:
			period = "morning"
		case t.Hour() < 17:
			period = "afternoon"
		default:
			period = "evening"
		}
		key := fmt.Sprintf("%s %s", t.Weekday(), period)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	busiest := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[busiest] {
			busiest = key
		}
	}
	return busiest
}

// minuteCounter accumulates float minutes per key while remembering
// first-seen key order, so descending sorts break ties deterministically.
type minuteCounter struct {
	minutes map[string]float64
	order   []string
}

func newMinuteCounter() *minuteCounter {
	return &minuteCounter{minutes: map[string]float64{}}
}

func (c *minuteCounter) add(key string, mins float64) {
	if _, seen := c.minutes[key]; !seen {
		c.order = append(c.order, key)
	}
	c.minutes[key] += mins
}

func (c *minuteCounter) total() float64 {
	var sum float64
	for _, m := range c.minutes {
		sum += m
	}
	return sum
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

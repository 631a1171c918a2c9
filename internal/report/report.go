package report

import (
	"time"

	"lookback/internal/storage"
)

// Kind selects the report shape. An unknown value falls back to KindSummary.
type Kind string

const (
	KindSummary  Kind = "summary"
	KindDetailed Kind = "detailed"
	KindStandup  Kind = "standup"
)

// ValidKind reports whether s names a supported report kind.
func ValidKind(s string) bool {
	switch Kind(s) {
	case KindSummary, KindDetailed, KindStandup:
		return true
	}
	return false
}

// AppUsage is one application's estimated share of the period.
type AppUsage struct {
	Name       string  `json:"name"`
	Minutes    int     `json:"minutes"`
	Percentage float64 `json:"percentage"`
}

// WindowUsage is one window title's estimated minutes. Titles longer than 50
// characters are truncated with an ellipsis.
type WindowUsage struct {
	Title   string `json:"title"`
	Minutes int    `json:"minutes"`
}

// DayActivity is the estimated minutes recorded on one calendar day.
type DayActivity struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// Analytics holds the quantitative metrics for a report period.
//
// App, window, hour and day minutes are sampling estimates: every screenshot
// contributes the full capture interval to its buckets, so deduplicated
// samples or gaps in capture make these over- or under-estimate true elapsed
// time. TotalActiveMinutes comes from measured sessions when any exist and
// falls back to the app-minute estimate otherwise.
type Analytics struct {
	TotalActiveMinutes int           `json:"total_active_minutes"`
	TotalSessions      int           `json:"total_sessions"`
	TopApps            []AppUsage    `json:"top_apps"`
	TopWindows         []WindowUsage `json:"top_windows"`
	ActivityByHour     [24]int       `json:"activity_by_hour"`
	ActivityByDay      []DayActivity `json:"activity_by_day"`
	BusiestPeriod      string        `json:"busiest_period"`
}

// Section is a named block of narrative content within a report.
type Section struct {
	Title       string               `json:"title"`
	Content     string               `json:"content"`
	Screenshots []storage.Screenshot `json:"screenshots"`
}

// Report is the finished artifact. Every Generate call builds a fresh
// instance; nothing mutates a report after it is returned.
type Report struct {
	Title            string               `json:"title"`
	TimeRange        string               `json:"time_range"`
	GeneratedAt      time.Time            `json:"generated_at"`
	ExecutiveSummary string               `json:"executive_summary"`
	Sections         []Section            `json:"sections"`
	Analytics        Analytics            `json:"analytics"`
	KeyScreenshots   []storage.Screenshot `json:"key_screenshots"`
	RawSummaries     []storage.Summary    `json:"raw_summaries"`
}

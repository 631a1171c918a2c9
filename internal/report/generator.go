package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"lookback/internal/logger"
	"lookback/internal/storage"
	"lookback/internal/timerange"
	"lookback/internal/timeutil"
)

// RecordStore provides the read-only range queries a report is built from.
// Implementations return empty slices, never nil, when nothing matches.
type RecordStore interface {
	SummariesInRange(start, end time.Time) ([]storage.Summary, error)
	SummariesByProject(start, end time.Time) (map[string][]storage.Summary, error)
	ScreenshotsInRange(start, end time.Time) ([]storage.Screenshot, error)
	SessionsInRange(start, end time.Time) ([]storage.Session, error)
}

// Backend is the optional narrative text generator. Its absence changes the
// richness of report prose, never whether generation succeeds.
type Backend interface {
	Available() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// RangeResolver maps a natural-language phrase to concrete bounds.
type RangeResolver interface {
	Resolve(phrase string) (time.Time, time.Time, error)
}

// Options control one generation call.
type Options struct {
	Kind               Kind
	IncludeScreenshots bool
	MaxScreenshots     int
	SeparateProjects   bool
}

func DefaultOptions() Options {
	return Options{
		Kind:               KindSummary,
		IncludeScreenshots: true,
		MaxScreenshots:     10,
		SeparateProjects:   true,
	}
}

// Generator synthesizes activity reports for natural-language time ranges.
// It holds no mutable state between calls; every Generate recomputes from
// the record store.
type Generator struct {
	store           RecordStore
	backend         Backend
	resolver        RangeResolver
	intervalSeconds int
	log             *logrus.Logger
}

// NewGenerator wires a report generator. intervalSeconds is the configured
// capture interval, passed in explicitly so analytics stay independently
// testable.
func NewGenerator(store RecordStore, backend Backend, resolver RangeResolver, intervalSeconds int) *Generator {
	return &Generator{
		store:           store,
		backend:         backend,
		resolver:        resolver,
		intervalSeconds: intervalSeconds,
		log:             logger.GetLogger(),
	}
}

// Generate produces a fresh report for the given time range phrase. An
// unparseable phrase is the only fatal input error; missing records and
// backend failures degrade per field instead.
func (g *Generator) Generate(ctx context.Context, timeRange string, opts Options) (*Report, error) {
	start, end, err := g.resolver.Resolve(timeRange)
	if err != nil {
		return nil, err
	}
	rangeLabel := timerange.Describe(start, end)

	g.log.Infof("Generating %s report for %s", opts.Kind, rangeLabel)

	summaries, err := g.store.SummariesInRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	var byProject map[string][]storage.Summary
	if opts.SeparateProjects {
		if byProject, err = g.store.SummariesByProject(start, end); err != nil {
			return nil, fmt.Errorf("failed to query summaries by project: %w", err)
		}
	}
	screenshots, err := g.store.ScreenshotsInRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query screenshots: %w", err)
	}
	sessions, err := g.store.SessionsInRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}

	g.log.Debugf("Found %d summaries (%d projects), %d screenshots, %d sessions",
		len(summaries), len(byProject), len(screenshots), len(sessions))

	analytics, err := computeAnalytics(screenshots, sessions, g.intervalSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to compute analytics: %w", err)
	}

	keyScreenshots := []storage.Screenshot{}
	if opts.IncludeScreenshots {
		keyScreenshots = selectKeyScreenshots(screenshots, summaries, opts.MaxScreenshots)
	}

	var rep *Report
	switch opts.Kind {
	case KindStandup:
		rep = g.generateStandup(ctx, summaries, rangeLabel)
	case KindDetailed:
		rep = g.generateDetailed(ctx, summaries, analytics, rangeLabel)
	default:
		rep = g.generateSummary(ctx, summaries, byProject, analytics, rangeLabel)
	}

	// Kind-independent fields, identical semantics across all shapes.
	rep.TimeRange = rangeLabel
	rep.GeneratedAt = time.Now()
	rep.Analytics = analytics
	rep.KeyScreenshots = keyScreenshots
	rep.RawSummaries = summaries

	return rep, nil
}

// generateSummary is the high-level overview shape: project-aware sections
// when more than one project context exists, thematic grouping otherwise.
func (g *Generator) generateSummary(ctx context.Context, summaries []storage.Summary, byProject map[string][]storage.Summary, analytics Analytics, rangeLabel string) *Report {
	rep := &Report{
		Title:    fmt.Sprintf("Activity Report: %s", rangeLabel),
		Sections: []Section{},
	}

	if len(summaries) == 0 {
		rep.ExecutiveSummary = "No activity recorded during this period."
		return rep
	}

	if workProjectCount(byProject) > 1 {
		rep.Sections = g.projectSections(ctx, byProject)
		rep.ExecutiveSummary = g.projectExecutiveSummary(ctx, byProject, analytics, rangeLabel)
		return rep
	}

	texts := summaryTexts(summaries)
	rep.ExecutiveSummary = g.synthesize(ctx, plainExecutivePrompt(texts, analytics, rangeLabel), func() string {
		return fallbackExecutiveSummary(texts, analytics)
	})
	rep.Sections = g.themeSections(ctx, summaries)
	return rep
}

// generateDetailed is the day-by-day shape: one section per calendar day in
// chronological order.
func (g *Generator) generateDetailed(ctx context.Context, summaries []storage.Summary, analytics Analytics, rangeLabel string) *Report {
	byDay := map[string][]storage.Summary{}
	for _, s := range summaries {
		start, err := timeutil.Parse(s.StartTime)
		if err != nil {
			// Not placeable on a day; day grouping skips it.
			continue
		}
		key := start.Format("2006-01-02")
		byDay[key] = append(byDay[key], s)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	sections := make([]Section, 0, len(days))
	for _, day := range days {
		texts := summaryTexts(byDay[day])
		content := "No detailed activity recorded."
		if len(texts) > 0 {
			content = g.synthesize(ctx, dayPrompt(texts), func() string {
				return strings.Join(firstN(texts, 3), " ")
			})
		}

		dayTime, _ := time.ParseInLocation("2006-01-02", day, time.Local)
		sections = append(sections, Section{
			Title:       dayTime.Format("Monday, January 02"),
			Content:     content,
			Screenshots: []storage.Screenshot{},
		})
	}

	allTexts := summaryTexts(summaries)
	executive := fallbackExecutiveSummary(allTexts, analytics)
	if len(allTexts) > 0 {
		executive = g.synthesize(ctx, overviewPrompt(firstN(allTexts, 20)), func() string {
			return fallbackExecutiveSummary(allTexts, analytics)
		})
	}

	return &Report{
		Title:            fmt.Sprintf("Detailed Report: %s", rangeLabel),
		ExecutiveSummary: executive,
		Sections:         sections,
	}
}

// generateStandup is the brief shape: a single bullet-style block, no
// sections.
func (g *Generator) generateStandup(ctx context.Context, summaries []storage.Summary, rangeLabel string) *Report {
	texts := summaryTexts(summaries)

	var content string
	switch {
	case len(texts) == 0:
		content = "No activity to report."
	default:
		content = g.synthesize(ctx, standupPrompt(texts), func() string {
			var b strings.Builder
			b.WriteString("What I worked on:\n")
			for _, text := range firstN(texts, 3) {
				fmt.Fprintf(&b, "- %s\n", ellipsize(text, 100))
			}
			return b.String()
		})
	}

	return &Report{
		Title:            fmt.Sprintf("Standup: %s", rangeLabel),
		ExecutiveSummary: content,
		Sections:         []Section{},
	}
}

package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"lookback/internal/storage"
	"lookback/internal/timeutil"
)

// skipContexts are classifier buckets that are not bodies of work; they never
// get their own report section.
var skipContexts = map[string]bool{
	"browsing":      true,
	"communication": true,
	"music":         true,
	"media":         true,
	"unknown":       true,
}

const themeHeading = "## "

// workProjectCount counts project labels that are actual bodies of work.
// Generic non-work buckets do not make a period multi-project.
func workProjectCount(byProject map[string][]storage.Summary) int {
	n := 0
	for project := range byProject {
		if !skipContexts[strings.ToLower(project)] {
			n++
		}
	}
	return n
}

// synthesize runs one narrative backend call, degrading to fallback when the
// backend is absent, errors, or returns nothing. A failed call costs this one
// unit its prose, never the report.
func (g *Generator) synthesize(ctx context.Context, prompt string, fallback func() string) string {
	if g.backend == nil || !g.backend.Available() {
		return fallback()
	}
	text, err := g.backend.Generate(ctx, prompt)
	if err != nil {
		g.log.Warnf("Narrative backend call failed, using fallback: %v", err)
		return fallback()
	}
	if strings.TrimSpace(text) == "" {
		return fallback()
	}
	return text
}

// projectSections builds one section per work project, longest total
// duration first. Projects in non-work contexts and projects with no summary
// text are dropped.
func (g *Generator) projectSections(ctx context.Context, byProject map[string][]storage.Summary) []Section {
	type projectTime struct {
		name    string
		seconds int64
	}
	totals := make([]projectTime, 0, len(byProject))
	for project, summaries := range byProject {
		var seconds int64
		for _, s := range summaries {
			seconds += summaryDurationSeconds(s)
		}
		totals = append(totals, projectTime{name: project, seconds: seconds})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].seconds != totals[j].seconds {
			return totals[i].seconds > totals[j].seconds
		}
		return totals[i].name < totals[j].name
	})

	sections := []Section{}
	for _, pt := range totals {
		if skipContexts[strings.ToLower(pt.name)] {
			continue
		}
		texts := summaryTexts(byProject[pt.name])
		if len(texts) == 0 {
			continue
		}

		content := g.synthesize(ctx, projectSectionPrompt(pt.name, texts), func() string {
			return strings.Join(firstN(texts, 3), " ")
		})
		sections = append(sections, Section{
			Title:       fmt.Sprintf("Project: %s", pt.name),
			Content:     content,
			Screenshots: []storage.Screenshot{},
		})
	}
	return sections
}

// projectExecutiveSummary writes the executive summary for multi-project
// periods. The prompt explicitly tells the backend the projects are
// unrelated; the fallback is a plain per-project listing.
func (g *Generator) projectExecutiveSummary(ctx context.Context, byProject map[string][]storage.Summary, analytics Analytics, rangeLabel string) string {
	projects := make([]string, 0, len(byProject))
	for project := range byProject {
		projects = append(projects, project)
	}
	sort.Strings(projects)

	lines := []string{}
	for _, project := range projects {
		if skipContexts[strings.ToLower(project)] {
			continue
		}
		texts := summaryTexts(byProject[project])
		if len(texts) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("**%s**: %s", project, strings.Join(firstN(texts, 3), "; ")))
	}

	if len(lines) == 0 {
		return "No significant project activity recorded."
	}

	return g.synthesize(ctx, projectExecutivePrompt(lines, len(byProject), analytics, rangeLabel), func() string {
		return fmt.Sprintf("Active time: %d minutes.\n\n%s", analytics.TotalActiveMinutes, strings.Join(lines, "\n"))
	})
}

// themeSections asks the backend to group all summaries into thematic
// categories. With no backend there is nothing to group against, so the
// result is intentionally empty rather than an error. Fewer than 3 summaries
// are not worth grouping.
func (g *Generator) themeSections(ctx context.Context, summaries []storage.Summary) []Section {
	if len(summaries) < 3 {
		return []Section{}
	}
	texts := summaryTexts(summaries)
	if len(texts) == 0 || g.backend == nil || !g.backend.Available() {
		return []Section{}
	}

	response, err := g.backend.Generate(ctx, themePrompt(texts))
	if err != nil {
		g.log.Warnf("Theme grouping call failed, skipping thematic sections: %v", err)
		return []Section{}
	}
	return parseThemeSections(response)
}

// parseThemeSections splits backend output on "## " heading lines. The format
// is best effort: lines before the first heading are dropped, and malformed
// output simply yields fewer (or zero) sections.
func parseThemeSections(response string) []Section {
	sections := []Section{}
	var title string
	var content []string

	flush := func() {
		if title != "" {
			sections = append(sections, Section{
				Title:       title,
				Content:     strings.Join(content, " "),
				Screenshots: []storage.Screenshot{},
			})
		}
	}

	for _, line := range strings.Split(response, "\n") {
		if strings.HasPrefix(line, themeHeading) {
			flush()
			title = strings.TrimSpace(strings.TrimPrefix(line, themeHeading))
			content = nil
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" && title != "" {
			content = append(content, trimmed)
		}
	}
	flush()

	return sections
}

// summaryDurationSeconds is the covered span of one summary. Records with
// missing or unparseable bounds contribute zero.
func summaryDurationSeconds(s storage.Summary) int64 {
	start, err := timeutil.Parse(s.StartTime)
	if err != nil {
		return 0
	}
	end, err := timeutil.Parse(s.EndTime)
	if err != nil {
		return 0
	}
	return int64(end.Sub(start).Seconds())
}

// fallbackExecutiveSummary is the deterministic executive summary used when
// no narrative backend is reachable.
func fallbackExecutiveSummary(texts []string, analytics Analytics) string {
	if len(texts) == 0 {
		return "No activity recorded during this period."
	}

	apps := make([]string, 0, 3)
	for i, app := range analytics.TopApps {
		if i >= 3 {
			break
		}
		apps = append(apps, app.Name)
	}

	lines := []string{
		fmt.Sprintf("During this period, %d minutes of activity were recorded across %d sessions.",
			analytics.TotalActiveMinutes, analytics.TotalSessions),
		"",
		fmt.Sprintf("Top applications used: %s.", strings.Join(apps, ", ")),
		"",
		"Key activities:",
	}
	for _, text := range firstN(texts, 5) {
		lines = append(lines, fmt.Sprintf("- %s", ellipsize(text, 150)))
	}
	return strings.Join(lines, "\n")
}

// summaryTexts collects the non-empty summary texts in original order.
func summaryTexts(summaries []storage.Summary) []string {
	texts := []string{}
	for _, s := range summaries {
		if s.Summary != "" {
			texts = append(texts, s.Summary)
		}
	}
	return texts
}

func firstN(texts []string, n int) []string {
	if len(texts) > n {
		return texts[:n]
	}
	return texts
}

// ellipsize caps s at max characters, appending an ellipsis when cut.
func ellipsize(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"lookback/internal/report"
	"lookback/internal/timeutil"
)

// Markdown renders a finished report for terminal display or saving to disk.
// The report object itself carries no presentation; all formatting lives
// here.
func Markdown(rep *report.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rep.Title)
	fmt.Fprintf(&b, "Time range: %s  \n", rep.TimeRange)
	fmt.Fprintf(&b, "Generated: %s\n\n", rep.GeneratedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(rep.ExecutiveSummary)
	b.WriteString("\n")

	for _, section := range rep.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", section.Title, section.Content)
	}

	writeAnalytics(&b, rep.Analytics)

	if len(rep.KeyScreenshots) > 0 {
		b.WriteString("\n## Key Screenshots\n\n")
		for _, ss := range rep.KeyScreenshots {
			line := ss.ID
			if t, err := timeutil.Parse(ss.Timestamp); err == nil {
				line = t.Format("2006-01-02 15:04")
			}
			app := ss.AppName
			if app == "" {
				app = "Unknown"
			}
			if ss.WindowTitle != "" {
				fmt.Fprintf(&b, "- %s: %s (%s)\n", line, app, ss.WindowTitle)
			} else {
				fmt.Fprintf(&b, "- %s: %s\n", line, app)
			}
		}
	}

	return b.String()
}

func writeAnalytics(b *strings.Builder, a report.Analytics) {
	b.WriteString("\n## Analytics\n\n")
	fmt.Fprintf(b, "- Active time: %s minutes across %d sessions\n",
		humanize.Comma(int64(a.TotalActiveMinutes)), a.TotalSessions)
	fmt.Fprintf(b, "- Busiest period: %s\n", a.BusiestPeriod)

	if len(a.TopApps) > 0 {
		b.WriteString("\n### Top Applications\n\n")
		b.WriteString("| Application | Minutes | Share |\n|---|---:|---:|\n")
		for _, app := range a.TopApps {
			fmt.Fprintf(b, "| %s | %d | %.1f%% |\n", app.Name, app.Minutes, app.Percentage)
		}
	}

	if len(a.TopWindows) > 0 {
		b.WriteString("\n### Top Windows\n\n")
		b.WriteString("| Window | Minutes |\n|---|---:|\n")
		for _, w := range a.TopWindows {
			fmt.Fprintf(b, "| %s | %d |\n", w.Title, w.Minutes)
		}
	}

	if len(a.ActivityByDay) > 0 {
		b.WriteString("\n### Activity by Day\n\n")
		b.WriteString("| Date | Minutes |\n|---|---:|\n")
		for _, d := range a.ActivityByDay {
			fmt.Fprintf(b, "| %s | %d |\n", d.Date, d.Minutes)
		}
	}
}

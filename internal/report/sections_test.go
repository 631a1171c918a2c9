package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lookback/internal/storage"
)

// fakeBackend scripts narrative responses for tests. A nil err with empty
// response exercises the blank-output fallback path.
type fakeBackend struct {
	available bool
	response  string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeBackend) Available() bool { return f.available }

func (f *fakeBackend) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func sectionGen(b Backend) *Generator {
	return NewGenerator(nil, b, nil, 60)
}

func TestSynthesizeFallbacks(t *testing.T) {
	fallback := func() string { return "fallback text" }

	tests := []struct {
		name      string
		backend   Backend
		want      string
		wantCalls int
	}{
		{name: "nil backend", backend: nil, want: "fallback text"},
		{name: "unavailable", backend: &fakeBackend{available: false, response: "prose"}, want: "fallback text"},
		{name: "backend error", backend: &fakeBackend{available: true, err: errors.New("boom")}, want: "fallback text", wantCalls: 1},
		{name: "blank output", backend: &fakeBackend{available: true, response: "  \n"}, want: "fallback text", wantCalls: 1},
		{name: "success", backend: &fakeBackend{available: true, response: "prose"}, want: "prose", wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sectionGen(tt.backend)
			got := g.synthesize(context.Background(), "prompt", fallback)
			if got != tt.want {
				t.Errorf("synthesize = %q, want %q", got, tt.want)
			}
			if fb, ok := tt.backend.(*fakeBackend); ok && fb.calls != tt.wantCalls {
				t.Errorf("backend called %d times, want %d", fb.calls, tt.wantCalls)
			}
		})
	}
}

func TestProjectSectionsOrderAndFiltering(t *testing.T) {
	byProject := map[string][]storage.Summary{
		"api-server": {
			{Summary: "fixed auth bug", StartTime: "2025-08-25T09:00:00", EndTime: "2025-08-25T09:30:00"},
		},
		"website": {
			{Summary: "redesigned landing page", StartTime: "2025-08-25T10:00:00", EndTime: "2025-08-25T12:00:00"},
		},
		"browsing": {
			{Summary: "read news", StartTime: "2025-08-25T13:00:00", EndTime: "2025-08-25T14:00:00"},
		},
		"scratch": {
			{StartTime: "2025-08-25T15:00:00", EndTime: "2025-08-25T16:00:00"}, // no text
		},
	}

	g := sectionGen(nil)
	sections := g.projectSections(context.Background(), byProject)

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}
	// website spans 2h, api-server 30m: longest first.
	if sections[0].Title != "Project: website" || sections[1].Title != "Project: api-server" {
		t.Errorf("section order = [%s, %s]", sections[0].Title, sections[1].Title)
	}
	if sections[0].Content != "redesigned landing page" {
		t.Errorf("fallback content = %q", sections[0].Content)
	}
}

func TestProjectSectionsFallbackJoinsFirstThree(t *testing.T) {
	byProject := map[string][]storage.Summary{
		"api-server": {
			{Summary: "one", StartTime: "2025-08-25T09:00:00", EndTime: "2025-08-25T09:30:00"},
			{Summary: "two", StartTime: "2025-08-25T09:30:00", EndTime: "2025-08-25T10:00:00"},
			{Summary: "three", StartTime: "2025-08-25T10:00:00", EndTime: "2025-08-25T10:30:00"},
			{Summary: "four", StartTime: "2025-08-25T10:30:00", EndTime: "2025-08-25T11:00:00"},
		},
	}

	g := sectionGen(nil)
	sections := g.projectSections(context.Background(), byProject)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Content != "one two three" {
		t.Errorf("fallback content = %q, want first three texts joined", sections[0].Content)
	}
}

func TestProjectExecutiveSummary(t *testing.T) {
	byProject := map[string][]storage.Summary{
		"api-server": {{Summary: "fixed auth bug"}},
		"website":    {{Summary: "shipped redesign"}},
	}
	analytics := Analytics{TotalActiveMinutes: 120}

	g := sectionGen(nil)
	got := g.projectExecutiveSummary(context.Background(), byProject, analytics, "August 25, 2025")

	if !strings.HasPrefix(got, "Active time: 120 minutes.") {
		t.Errorf("fallback summary missing active-time line: %q", got)
	}
	if !strings.Contains(got, "**api-server**: fixed auth bug") || !strings.Contains(got, "**website**: shipped redesign") {
		t.Errorf("fallback summary missing project lines: %q", got)
	}
}

func TestProjectExecutiveSummaryAllSkipped(t *testing.T) {
	byProject := map[string][]storage.Summary{
		"Browsing": {{Summary: "read news"}},
		"unknown":  {{Summary: "misc"}},
	}

	g := sectionGen(&fakeBackend{available: true, response: "should not be used"})
	got := g.projectExecutiveSummary(context.Background(), byProject, Analytics{}, "today")
	if got != "No significant project activity recorded." {
		t.Errorf("got %q", got)
	}
}

func TestThemeSectionsRequireVolumeAndBackend(t *testing.T) {
	two := []storage.Summary{{Summary: "a"}, {Summary: "b"}}
	three := []storage.Summary{{Summary: "a"}, {Summary: "b"}, {Summary: "c"}}

	g := sectionGen(&fakeBackend{available: true, response: "## Coding\nWrote code."})
	if got := g.themeSections(context.Background(), two); len(got) != 0 {
		t.Errorf("expected no theme sections below 3 summaries, got %+v", got)
	}

	g = sectionGen(nil)
	if got := g.themeSections(context.Background(), three); len(got) != 0 {
		t.Errorf("expected no theme sections without a backend, got %+v", got)
	}

	g = sectionGen(&fakeBackend{available: true, err: errors.New("boom")})
	if got := g.themeSections(context.Background(), three); len(got) != 0 {
		t.Errorf("expected no theme sections on backend error, got %+v", got)
	}

	g = sectionGen(&fakeBackend{available: true, response: "## Coding\nWrote code."})
	got := g.themeSections(context.Background(), three)
	if len(got) != 1 || got[0].Title != "Coding" {
		t.Errorf("expected one Coding section, got %+v", got)
	}
}

func TestParseThemeSections(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []Section
	}{
		{
			name: "two categories",
			response: "## Development\nWorked on the API.\nReviewed pull requests.\n\n## Research\nRead about databases.",
			want: []Section{
				{Title: "Development", Content: "Worked on the API. Reviewed pull requests."},
				{Title: "Research", Content: "Read about databases."},
			},
		},
		{
			name:     "preamble dropped",
			response: "Here are the categories:\n## Writing\nDrafted docs.",
			want:     []Section{{Title: "Writing", Content: "Drafted docs."}},
		},
		{
			name:     "no headings",
			response: "Just some prose without structure.",
			want:     []Section{},
		},
		{
			name:     "empty",
			response: "",
			want:     []Section{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseThemeSections(tt.response)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d sections, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Title != tt.want[i].Title || got[i].Content != tt.want[i].Content {
					t.Errorf("section %d = {%q, %q}, want {%q, %q}",
						i, got[i].Title, got[i].Content, tt.want[i].Title, tt.want[i].Content)
				}
			}
		})
	}
}

func TestSummaryDurationSeconds(t *testing.T) {
	s := storage.Summary{StartTime: "2024-01-01T09:00:00", EndTime: "2024-01-01T09:30:00"}
	if got := summaryDurationSeconds(s); got != 1800 {
		t.Errorf("summaryDurationSeconds = %d, want 1800", got)
	}

	bad := storage.Summary{StartTime: "garbage", EndTime: "2024-01-01T09:30:00"}
	if got := summaryDurationSeconds(bad); got != 0 {
		t.Errorf("unparseable start should contribute 0, got %d", got)
	}
}

func TestFallbackExecutiveSummary(t *testing.T) {
	analytics := Analytics{
		TotalActiveMinutes: 95,
		TotalSessions:      2,
		TopApps: []AppUsage{
			{Name: "Editor"}, {Name: "Browser"}, {Name: "Terminal"}, {Name: "Slack"},
		},
	}
	texts := []string{"built the parser", strings.Repeat("y", 200)}

	got := fallbackExecutiveSummary(texts, analytics)
	if !strings.Contains(got, "During this period, 95 minutes of activity were recorded across 2 sessions.") {
		t.Errorf("missing activity line: %q", got)
	}
	if !strings.Contains(got, "Top applications used: Editor, Browser, Terminal.") {
		t.Errorf("expected top three apps only: %q", got)
	}
	if !strings.Contains(got, "- built the parser") {
		t.Errorf("missing activity bullet: %q", got)
	}
	if !strings.Contains(got, strings.Repeat("y", 150)+"...") {
		t.Errorf("long bullet not ellipsized at 150: %q", got)
	}
	if strings.Contains(got, strings.Repeat("y", 151)) {
		t.Errorf("bullet exceeds 150 characters: %q", got)
	}
}

func TestEllipsize(t *testing.T) {
	if got := ellipsize("short", 10); got != "short" {
		t.Errorf("ellipsize(short) = %q", got)
	}
	if got := ellipsize("abcdefgh", 5); got != "abcde..." {
		t.Errorf("ellipsize = %q, want abcde...", got)
	}
}

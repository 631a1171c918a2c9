package timerange

import (
	"errors"
	"testing"
	"time"
)

// A Wednesday afternoon, so week boundaries are unambiguous.
var testNow = time.Date(2025, 8, 27, 15, 30, 0, 0, time.Local)

func testResolver() *Resolver {
	r := NewResolver()
	r.now = func() time.Time { return testNow }
	return r
}

func TestResolveFixedPhrases(t *testing.T) {
	midnight := time.Date(2025, 8, 27, 0, 0, 0, 0, time.Local)
	monday := time.Date(2025, 8, 25, 0, 0, 0, 0, time.Local)

	tests := []struct {
		phrase string
		start  time.Time
		end    time.Time
	}{
		{"today", midnight, midnight.AddDate(0, 0, 1)},
		{"Today", midnight, midnight.AddDate(0, 0, 1)},
		{"yesterday", midnight.AddDate(0, 0, -1), midnight},
		{"this week", monday, testNow},
		{"last week", monday.AddDate(0, 0, -7), monday},
		{"this month", time.Date(2025, 8, 1, 0, 0, 0, 0, time.Local), testNow},
		{"last month", time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local), time.Date(2025, 8, 1, 0, 0, 0, 0, time.Local)},
		{"last 3 days", midnight.AddDate(0, 0, -2), testNow},
		{"last 6 hours", testNow.Add(-6 * time.Hour), testNow},
		{"last 2 weeks", midnight.AddDate(0, 0, -14), testNow},
		{"2025-08-01", time.Date(2025, 8, 1, 0, 0, 0, 0, time.Local), time.Date(2025, 8, 2, 0, 0, 0, 0, time.Local)},
	}

	r := testResolver()
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			start, end, err := r.Resolve(tt.phrase)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.phrase, err)
			}
			if !start.Equal(tt.start) || !end.Equal(tt.end) {
				t.Errorf("Resolve(%q) = [%v, %v), want [%v, %v)", tt.phrase, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestResolveNaturalLanguage(t *testing.T) {
	r := testResolver()

	start, end, err := r.Resolve("3 days ago")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !end.Equal(testNow) {
		t.Errorf("expected range to end now, got %v", end)
	}
	if !start.Before(end) {
		t.Errorf("expected start %v before end %v", start, end)
	}
}

func TestResolveUnrecognized(t *testing.T) {
	r := testResolver()

	_, _, err := r.Resolve("the cretaceous period")
	if err == nil {
		t.Fatal("expected error for unrecognized phrase")
	}
	if !errors.Is(err, ErrUnrecognized) {
		t.Errorf("expected ErrUnrecognized, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  string
	}{
		{
			name:  "single day",
			start: time.Date(2025, 8, 27, 0, 0, 0, 0, time.Local),
			end:   time.Date(2025, 8, 28, 0, 0, 0, 0, time.Local),
			want:  "August 27, 2025",
		},
		{
			name:  "same year span",
			start: time.Date(2025, 8, 18, 0, 0, 0, 0, time.Local),
			end:   time.Date(2025, 8, 25, 0, 0, 0, 0, time.Local),
			want:  "August 18 to August 24, 2025",
		},
		{
			name:  "cross year span",
			start: time.Date(2024, 12, 29, 0, 0, 0, 0, time.Local),
			end:   time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local),
			want:  "December 29, 2024 to January 4, 2025",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.start, tt.end); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

package ride

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

func TestNewWindow_DayRollover(t *testing.T) {
	w := NewWindow(mustParse(t, "2024-01-01T22:00:00Z"), 3)
	assert.Equal(t, mustParse(t, "2024-01-02T01:00:00Z"), w.End)
}

func TestNewWindow_YearRollover(t *testing.T) {
	w := NewWindow(mustParse(t, "2024-12-31T23:00:00Z"), 2)
	assert.Equal(t, mustParse(t, "2025-01-01T01:00:00Z"), w.End)
}

func TestNewWindow_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, loc)

	w := NewWindow(start, 5)

	assert.Equal(t, time.UTC, w.Start.Location())
	assert.True(t, w.Start.Equal(start))
	assert.Equal(t, 5*time.Hour, w.End.Sub(w.Start))
}

func TestWindow_Overlaps(t *testing.T) {
	base := mustParse(t, "2024-01-01T10:00:00Z")
	window := func(startOffset, hours int) Window {
		return NewWindow(base.Add(time.Duration(startOffset)*time.Hour), hours)
	}

	testCases := []struct {
		name     string
		a        Window
		b        Window
		overlaps bool
	}{
		{name: "partial overlap", a: window(0, 2), b: window(1, 2), overlaps: true},
		{name: "contained", a: window(0, 4), b: window(1, 1), overlaps: true},
		{name: "identical", a: window(0, 2), b: window(0, 2), overlaps: true},
		{name: "same start different length", a: window(0, 2), b: window(0, 1), overlaps: true},
		{name: "back to back", a: window(0, 2), b: window(2, 2), overlaps: false},
		{name: "disjoint", a: window(0, 2), b: window(3, 2), overlaps: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.overlaps, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

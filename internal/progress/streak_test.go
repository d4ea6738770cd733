package progress

import (
	"testing"
	"time"
)

func TestNextStreak(t *testing.T) {
	loc := time.FixedZone("test", -5*3600)
	now := time.Date(2026, 5, 20, 8, 15, 0, 0, loc)
	at := func(days int, hour int) *time.Time {
		t := time.Date(2026, 5, 20+days, hour, 0, 0, 0, loc)
		return &t
	}

	tests := []struct {
		name       string
		prev       int
		last       *time.Time
		completing bool
		want       int
	}{
		{"first completion", 5, nil, true, 1},
		{"read only call", 5, at(-3, 10), false, 5},
		{"read only call without history", 0, nil, false, 0},
		{"same day", 5, at(0, 1), true, 5},
		{"same day later hour", 5, at(0, 23), true, 5},
		{"yesterday", 5, at(-1, 9), true, 6},
		{"yesterday late evening", 5, at(-1, 23), true, 6},
		{"two days ago", 5, at(-2, 9), true, 1},
		{"three days ago", 5, at(-3, 9), true, 1},
		{"future date counts as today", 5, at(2, 9), true, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStreak(tt.prev, tt.last, tt.completing, now)
			if got != tt.want {
				t.Errorf("NextStreak(%d, %v, %v) = %d, want %d", tt.prev, tt.last, tt.completing, got, tt.want)
			}
		})
	}
}

func TestNextStreak_CalendarDaysNotHours(t *testing.T) {
	// 00:10 today vs 23:50 yesterday is twenty minutes apart but a new day.
	now := time.Date(2026, 1, 2, 0, 10, 0, 0, time.UTC)
	last := time.Date(2026, 1, 1, 23, 50, 0, 0, time.UTC)
	if got := NextStreak(2, &last, true, now); got != 3 {
		t.Errorf("got %d, want 3", got)
	}

	// 47 hours apart but only one calendar day.
	now = time.Date(2026, 1, 3, 23, 0, 0, 0, time.UTC)
	last = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := NextStreak(2, &last, true, now); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}

func TestNextStreak_UsesLocalDate(t *testing.T) {
	// Stored in UTC on Jan 2, but that is still Jan 1 in the learner's zone.
	loc := time.FixedZone("west", -8*3600)
	last := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, loc)
	if got := NextStreak(4, &last, true, now); got != 5 {
		t.Errorf("got %d, want 5", got)
	}
}

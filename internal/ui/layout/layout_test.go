package layout

import (
	"strings"
	"testing"

	"github.com/abhisek/pennywise/internal/progress"
)

func TestRenderHearts(t *testing.T) {
	tests := []struct {
		n            int
		full, hollow int
	}{
		{5, 5, 0},
		{3, 3, 2},
		{0, 0, 5},
		{-1, 0, 5},
		{9, 5, 0},
	}
	for _, tt := range tests {
		got := RenderHearts(tt.n)
		if c := strings.Count(got, "♥"); c != tt.full {
			t.Errorf("RenderHearts(%d): %d full hearts, want %d", tt.n, c, tt.full)
		}
		if c := strings.Count(got, "♡"); c != tt.hollow {
			t.Errorf("RenderHearts(%d): %d empty hearts, want %d", tt.n, c, tt.hollow)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	p := &progress.UserProgress{UserID: "ana", XP: 240, Level: 3, Streak: 6, Hearts: 4}
	got := RenderHeader("Learning Path", p, 120)

	for _, want := range []string{"Pennywise", "Learning Path", "Lv 3 · 240 XP", "★ 6 day"} {
		if !strings.Contains(got, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestRenderHeader_NoProgressYet(t *testing.T) {
	got := RenderHeader("Home", nil, 100)
	if strings.Contains(got, "XP") {
		t.Error("header should not show stats before progress loads")
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) {
		t.Error("expected narrow terminal to be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("expected minimum size to fit")
	}
}

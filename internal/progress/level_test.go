package progress

import "testing"

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{-10, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{150, 2},
		{250, 3},
		{1000, 11},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 2000; xp++ {
		lvl := LevelForXP(xp)
		if lvl < prev {
			t.Fatalf("level dropped from %d to %d at xp %d", prev, lvl, xp)
		}
		if xp < XPPerLevel && lvl != 1 {
			t.Fatalf("level at xp %d = %d, want 1", xp, lvl)
		}
		prev = lvl
	}
}

func TestXPToNextLevel(t *testing.T) {
	if got := XPIntoLevel(230); got != 30 {
		t.Errorf("XPIntoLevel(230) = %d, want 30", got)
	}
	if got := XPToNextLevel(230); got != 70 {
		t.Errorf("XPToNextLevel(230) = %d, want 70", got)
	}
	if got := XPToNextLevel(300); got != 100 {
		t.Errorf("XPToNextLevel(300) = %d, want 100", got)
	}
}

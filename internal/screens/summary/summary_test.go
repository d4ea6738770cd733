package summary

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pennywise/internal/router"
	"github.com/abhisek/pennywise/internal/screen"
	"github.com/abhisek/pennywise/internal/session"
)

func testSummary() *session.Summary {
	return &session.Summary{
		LessonID:        "budget-1",
		LessonTitle:     "What Is a Budget?",
		Duration:        3 * time.Minute,
		TotalQuestions:  5,
		FirstTryCorrect: 4,
		Retries:         1,
		QuestionXP:      45,
		BonusXP:         session.CompletionBonus,
		TotalXP:         95,
		Accuracy:        80,
		Saved:           true,
		XP:              195,
		Level:           2,
		LeveledUp:       true,
		Streak:          3,
		StreakExtended:  true,
		XPToNextLevel:   5,
		HeartsLeft:      4,
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary(), nil)
	if s.Title() != "Lesson Complete" {
		t.Errorf("Title = %q, want %q", s.Title(), "Lesson Complete")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary(), nil)
	view := s.View(100, 30)
	for _, want := range []string{"+95 XP", "Level up!", "3 day streak", "5 XP to Level 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	if strings.Contains(view, "may not be saved") {
		t.Error("did not expect a save warning for a saved lesson")
	}
}

func TestSummaryScreen_UnsavedWarning(t *testing.T) {
	sum := testSummary()
	sum.Saved = false
	s := New(sum, nil)
	if !strings.Contains(s.View(100, 30), "Progress may not be saved") {
		t.Error("expected save warning")
	}
}

func TestSummaryScreen_Navigation_EnterWithoutNext(t *testing.T) {
	s := New(testSummary(), nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter (pop)")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestSummaryScreen_Navigation_EnterWithNext(t *testing.T) {
	next := New(testSummary(), nil)
	s := New(testSummary(), func() screen.Screen { return next })
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter (replace)")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if msg.Screen != next {
		t.Error("expected next lesson screen")
	}
}

func TestSummaryScreen_Navigation_Esc(t *testing.T) {
	s := New(testSummary(), nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Error("expected a command on Esc (pop)")
	}
}

func TestSummaryScreen_Retry(t *testing.T) {
	sum := testSummary()
	sum.Saved = false

	calls := 0
	s := New(sum, nil).WithRetry(func() (*session.Summary, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("disk full")
		}
		return testSummary(), nil
	})

	if len(s.KeyHints()) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(s.KeyHints()))
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected retry command")
	}
	s.Update(cmd())
	if !strings.Contains(s.View(100, 30), "disk full") {
		t.Error("expected retry error in view")
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	s.Update(cmd())
	if !s.summary.Saved {
		t.Error("expected summary to be saved after successful retry")
	}
	if len(s.KeyHints()) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(s.KeyHints()))
	}
}

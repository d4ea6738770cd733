package learnpath

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/router"
	"github.com/abhisek/pennywise/internal/screen"
)

const testUser = "learner"

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testPathScreen(t *testing.T, completed ...string) (*PathScreen, *progress.MemoryStore) {
	t.Helper()
	store := progress.NewMemoryStore()
	now := time.Now()
	for _, id := range completed {
		_, err := store.UpsertLessonProgress(context.Background(), testUser, id, progress.LessonRecord{
			Completed: true, Accuracy: 80, XPEarned: 90, CompletedAt: &now,
		})
		if err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	deps := screen.Deps{Aggregator: progress.NewAggregator(store, nil), UserID: testUser}
	s := New(deps, "budgeting-basics")
	s.Update(s.Init()())
	return s, store
}

func (s *PathScreen) cursorLesson() string {
	return s.rows[s.cursor].step.Lesson.ID
}

func TestPathScreen_CursorStartsOnCurrentLesson(t *testing.T) {
	s, _ := testPathScreen(t, "lesson-1", "lesson-2")
	if got := s.cursorLesson(); got != "lesson-3" {
		t.Errorf("cursor on %s, want lesson-3", got)
	}
	if s.rows[s.cursor].step.Status != catalog.StatusCurrent {
		t.Error("expected cursor on a current lesson")
	}
}

func TestPathScreen_View(t *testing.T) {
	s, _ := testPathScreen(t, "lesson-1")
	view := s.View(100, 40)
	for _, want := range []string{"BUDGETING BASICS", "1/5", "80%", "CURRENT", "LOCKED"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestPathScreen_LockedLessonDoesNotStart(t *testing.T) {
	s, _ := testPathScreen(t)
	s.Update(specialKey(tea.KeyDown))
	if got := s.cursorLesson(); got != "lesson-2" {
		t.Fatalf("cursor on %s, want lesson-2", got)
	}
	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("expected no command for a locked lesson")
	}
}

func TestPathScreen_EnterPushesLesson(t *testing.T) {
	s, _ := testPathScreen(t)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	want, _ := catalog.Builtin().Lesson("lesson-1")
	if msg.Screen.Title() != want.Title {
		t.Errorf("pushed %q, want %q", msg.Screen.Title(), want.Title)
	}
}

func TestPathScreen_CursorSkipsHeaders(t *testing.T) {
	s, _ := testPathScreen(t)
	for range 10 {
		s.Update(specialKey(tea.KeyDown))
		if s.rows[s.cursor].kind != rowLesson {
			t.Fatal("cursor landed on a header")
		}
	}
	s.Update(specialKey(tea.KeyTab))
	if s.rows[s.cursor].kind != rowLesson {
		t.Fatal("tab landed on a header")
	}
}

func TestPathScreen_ResumeKeepsCursorAndRefreshes(t *testing.T) {
	s, store := testPathScreen(t)
	if got := s.cursorLesson(); got != "lesson-1" {
		t.Fatalf("cursor on %s, want lesson-1", got)
	}

	now := time.Now()
	if _, err := store.UpsertLessonProgress(context.Background(), testUser, "lesson-1", progress.LessonRecord{
		Completed: true, Accuracy: 100, XPEarned: 100, CompletedAt: &now,
	}); err != nil {
		t.Fatalf("UpsertLessonProgress: %v", err)
	}

	s.Update(s.Resume()())
	if got := s.cursorLesson(); got != "lesson-1" {
		t.Errorf("cursor on %s after resume, want lesson-1", got)
	}
	if s.rows[s.cursor].step.Status != catalog.StatusCompleted {
		t.Error("expected lesson-1 completed after resume")
	}
	if s.rows[s.cursor+1].step.Status != catalog.StatusCurrent {
		t.Error("expected lesson-2 current after resume")
	}
}

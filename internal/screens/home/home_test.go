package home

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

func testHome(t *testing.T, store *progress.MemoryStore) *HomeScreen {
	t.Helper()
	deps := screen.Deps{Aggregator: progress.NewAggregator(store, nil), UserID: testUser}
	h := New(deps)
	h.Update(h.Init()())
	return h
}

func complete(t *testing.T, store *progress.MemoryStore, ids ...string) {
	t.Helper()
	now := time.Now()
	for _, id := range ids {
		if _, err := store.UpsertLessonProgress(context.Background(), testUser, id, progress.LessonRecord{
			Completed: true, Accuracy: 100, XPEarned: 100, CompletedAt: &now,
		}); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
}

func TestNextLesson(t *testing.T) {
	c := catalog.Builtin()

	l, ok := NextLesson(c, nil)
	if !ok || l.ID != "lesson-1" {
		t.Errorf("NextLesson(empty) = %s, %v; want lesson-1", l.ID, ok)
	}

	l, ok = NextLesson(c, map[string]bool{"lesson-1": true, "lesson-2": true})
	if !ok || l.ID != "lesson-3" {
		t.Errorf("NextLesson = %s, %v; want lesson-3", l.ID, ok)
	}

	all := map[string]bool{}
	for _, course := range c.Courses() {
		for _, lesson := range course.Lessons {
			all[lesson.ID] = true
		}
	}
	if _, ok := NextLesson(c, all); ok {
		t.Error("expected no next lesson when everything is completed")
	}
}

func TestHomeScreen_LoadCreatesProgress(t *testing.T) {
	store := progress.NewMemoryStore()
	h := testHome(t, store)

	if h.progress == nil || h.progress.Hearts != progress.MaxHearts {
		t.Fatalf("progress = %+v, want fresh profile", h.progress)
	}
	if _, err := store.GetUserProgress(context.Background(), testUser); err != nil {
		t.Errorf("expected lazily created record, got %v", err)
	}
	if h.menu.Items[0].Detail == "" || h.menu.Items[0].Disabled {
		t.Error("expected CONTINUE to point at the first lesson")
	}
}

func TestHomeScreen_View(t *testing.T) {
	store := progress.NewMemoryStore()
	complete(t, store, "lesson-1")
	h := testHome(t, store)

	view := h.View(120, 40)
	for _, want := range []string{"CONTINUE", "BUDGETING BASICS", "1/5", "PROFILE", "EXIT", "100 XP to Level 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestHomeScreen_OutOfHeartsBanner(t *testing.T) {
	store := progress.NewMemoryStore()
	if _, err := store.UpsertUserProgress(context.Background(), testUser, progress.Patch{Hearts: progress.Int(0)}); err != nil {
		t.Fatal(err)
	}
	h := testHome(t, store)

	if h.mascotVariant() != MascotAlert {
		t.Error("expected alert mascot with no hearts")
	}
	if !strings.Contains(h.View(120, 40), "Out of hearts") {
		t.Error("expected out-of-hearts banner")
	}
}

func TestHomeScreen_CelebratesLessonToday(t *testing.T) {
	store := progress.NewMemoryStore()
	now := time.Now()
	if _, err := store.UpsertUserProgress(context.Background(), testUser, progress.Patch{LastCompletedLesson: &now}); err != nil {
		t.Fatal(err)
	}
	h := testHome(t, store)
	if h.mascotVariant() != MascotCelebrating {
		t.Error("expected celebrating mascot")
	}
}

func TestHomeScreen_ContinuePushesLesson(t *testing.T) {
	h := testHome(t, progress.NewMemoryStore())

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected command on Enter")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	first, _ := catalog.Builtin().Lesson("lesson-1")
	if msg.Screen.Title() != first.Title {
		t.Errorf("pushed %q, want %q", msg.Screen.Title(), first.Title)
	}
}

func TestHomeScreen_CoursePushesPath(t *testing.T) {
	h := testHome(t, progress.NewMemoryStore())

	h.Update(specialKey(tea.KeyDown))
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if msg.Screen.Title() != "Learning Path" {
		t.Errorf("pushed %q, want Learning Path", msg.Screen.Title())
	}
}

func TestHomeScreen_ResumeKeepsSelection(t *testing.T) {
	store := progress.NewMemoryStore()
	h := testHome(t, store)

	h.Update(specialKey(tea.KeyDown))
	h.Update(specialKey(tea.KeyDown))
	complete(t, store, "lesson-1")
	h.Update(h.Resume()())

	if h.menu.Selected != 2 {
		t.Errorf("selected = %d, want 2", h.menu.Selected)
	}
	if !h.completed["lesson-1"] {
		t.Error("expected refreshed completion set")
	}
}

func TestHomeScreen_ProgressMsgUpdatesStats(t *testing.T) {
	h := testHome(t, progress.NewMemoryStore())
	h.Update(screen.ProgressMsg{Progress: &progress.UserProgress{UserID: testUser, XP: 250, Level: 3, Hearts: 2}})
	if h.progress.XP != 250 {
		t.Errorf("XP = %d, want 250", h.progress.XP)
	}
}

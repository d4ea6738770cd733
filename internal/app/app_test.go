package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/router"
	"github.com/abhisek/pennywise/internal/screen"
	"github.com/abhisek/pennywise/internal/screens/profile"
)

func testModel(t *testing.T) AppModel {
	t.Helper()
	deps := screen.Deps{
		Aggregator: progress.NewAggregator(progress.NewMemoryStore(), nil),
		UserID:     "local",
	}
	m := newAppModel(deps)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(AppModel)
}

// drain feeds cmd's message back into the model, following batches.
func drain(m AppModel, cmd tea.Cmd) AppModel {
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(m, c)
		}
		return m
	}
	if msg == nil {
		return m
	}
	updated, next := m.Update(msg)
	return drain(updated.(AppModel), next)
}

func TestApp_InitLoadsProgressIntoHeader(t *testing.T) {
	m := testModel(t)
	m = drain(m, m.Init())

	if m.progress == nil {
		t.Fatal("expected header progress after init")
	}
	view := m.render()
	if !strings.Contains(view, "Pennywise") {
		t.Error("expected brand in header")
	}
	if !strings.Contains(view, "Lv 1 · 0 XP") {
		t.Error("expected level and XP in header")
	}
}

func TestApp_StartLessonOpensOverHome(t *testing.T) {
	l, err := catalog.Builtin().Lesson("lesson-1")
	if err != nil {
		t.Fatal(err)
	}
	deps := screen.Deps{
		Aggregator: progress.NewAggregator(progress.NewMemoryStore(), nil),
		UserID:     "local",
	}
	m := newAppModel(deps, StartLesson(l))
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}
	if got := m.router.Active().Title(); got != l.Title {
		t.Errorf("active title = %q, want %q", got, l.Title)
	}
	if m.Init() == nil {
		t.Error("expected init commands")
	}
}

func TestApp_TooSmall(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	view := updated.(AppModel).render()
	if !strings.Contains(view, "Terminal too small") {
		t.Error("expected min size message")
	}
}

func TestApp_EscPopsPushedScreen(t *testing.T) {
	m := testModel(t)
	m.router.Push(profile.New("local"))

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestApp_SwitchProfile(t *testing.T) {
	m := testModel(t)
	m = drain(m, m.Init())
	m.router.Push(profile.New("local"))

	updated, cmd := m.Update(screen.SwitchProfileMsg{UserID: "ana"})
	m = drain(updated.(AppModel), cmd)

	if m.deps.UserID != "ana" {
		t.Errorf("UserID = %q, want ana", m.deps.UserID)
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
	if m.progress == nil || m.progress.UserID != "ana" {
		t.Errorf("header progress = %+v, want ana's", m.progress)
	}
}

func TestApp_IgnoresOtherUsersProgress(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(screen.ProgressMsg{Progress: &progress.UserProgress{UserID: "someone-else", XP: 999}})
	if updated.(AppModel).progress != nil {
		t.Error("expected progress for another profile to be ignored")
	}
}

package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/router"
	"github.com/abhisek/pennywise/internal/screen"
	"github.com/abhisek/pennywise/internal/screens/learnpath"
	"github.com/abhisek/pennywise/internal/screens/lesson"
	"github.com/abhisek/pennywise/internal/screens/profile"
	"github.com/abhisek/pennywise/internal/ui/components"
)

// homeLoadedMsg carries everything the dashboard shows.
type homeLoadedMsg struct {
	progress *progress.UserProgress
	records  []progress.LessonProgress
	err      error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps       screen.Deps
	menu       components.Menu
	menuLabels []string
	progress   *progress.UserProgress
	completed  map[string]bool
	loaded     bool
	errMsg     string
	now        func() time.Time
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	h := &HomeScreen{
		deps:      deps.WithDefaults(),
		completed: map[string]bool{},
		now:       time.Now,
	}
	h.buildMenu()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume refreshes the dashboard after a lesson or profile screen closes.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		ctx := context.Background()
		p, err := deps.Aggregator.Load(ctx, deps.UserID)
		if err != nil {
			return homeLoadedMsg{err: err}
		}
		records, err := deps.Aggregator.Store().ListLessonProgress(ctx, deps.UserID)
		return homeLoadedMsg{progress: p, records: records, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		h.loaded = true
		h.errMsg = ""
		if msg.err != nil {
			h.errMsg = msg.err.Error()
		}
		if msg.progress != nil {
			h.progress = msg.progress
		}
		h.completed = progress.CompletedSet(msg.records)
		h.buildMenu()
		return h, screen.Announce(msg.progress)

	case screen.ProgressMsg:
		if msg.Progress != nil {
			h.progress = msg.Progress
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// buildMenu lays out CONTINUE, one entry per course, PROFILE and EXIT. The
// cursor stays on the same row across rebuilds.
func (h *HomeScreen) buildMenu() {
	deps := h.deps
	selected := h.menu.Selected

	var items []components.MenuItem

	next, ok := NextLesson(deps.Catalog, h.completed)
	cont := components.MenuItem{Label: "CONTINUE", Disabled: !ok}
	if ok {
		cont.Detail = next.Title
		cont.Action = func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: lesson.New(deps, next)}
			}
		}
	} else {
		cont.Detail = "all lessons done"
	}
	items = append(items, cont)

	for _, c := range deps.Catalog.Courses() {
		steps := catalog.Path(c, h.completed)
		items = append(items, components.MenuItem{
			Label:  strings.ToUpper(c.Title),
			Detail: fmt.Sprintf("%d/%d", catalog.CompletedCount(steps), len(steps)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: learnpath.New(deps, c.ID)}
				}
			},
		})
	}

	items = append(items,
		components.MenuItem{Label: "PROFILE", Detail: deps.UserID, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: profile.New(deps.UserID)}
			}
		}},
		components.MenuItem{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	h.menu = components.NewMenu(items)
	if h.loaded && selected > 0 && selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}

	h.menuLabels = make([]string, len(items))
	for i, it := range items {
		h.menuLabels[i] = it.Label
	}
}

// NextLesson returns the first lesson, in catalog order, that is current on
// its course path.
func NextLesson(c *catalog.Catalog, completed map[string]bool) (catalog.Lesson, bool) {
	for _, course := range c.Courses() {
		for _, step := range catalog.Path(course, completed) {
			if step.Status == catalog.StatusCurrent {
				return step.Lesson, true
			}
		}
	}
	return catalog.Lesson{}, false
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 100

	cw := components.ContentWidth(width)

	var sections []string

	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, renderMascotBox(h.mascotVariant(), cw))
	}

	if h.progress != nil {
		sections = append(sections, renderStatsBar(*h.progress, cw, compact))
		if h.progress.OutOfHearts() {
			sections = append(sections, renderHeartsBanner(cw))
		}
	}
	if h.errMsg != "" {
		sections = append(sections, renderErrorNote(h.errMsg, cw))
	}

	disabled := make(map[int]bool)
	details := make([]string, len(h.menu.Items))
	for i, it := range h.menu.Items {
		disabled[i] = it.Disabled
		details[i] = it.Detail
	}
	if compact {
		sections = append(sections, renderArcadeMenuCompact(h.menuLabels, details, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderArcadeMenu(h.menuLabels, details, h.menu.Selected, cw, disabled))
	}

	content := strings.Join(sections, "\n\n")
	return components.CabinetFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// mascotVariant picks the piggy bank's mood from the learner's progress.
func (h *HomeScreen) mascotVariant() MascotVariant {
	p := h.progress
	switch {
	case p == nil:
		return MascotIdle
	case p.OutOfHearts():
		return MascotAlert
	case p.LastCompletedLesson != nil && sameDay(*p.LastCompletedLesson, h.now()):
		return MascotCelebrating
	}
	return MascotIdle
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

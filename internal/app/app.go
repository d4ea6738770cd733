package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/router"
	"github.com/abhisek/pennywise/internal/screen"
	"github.com/abhisek/pennywise/internal/screens/home"
	"github.com/abhisek/pennywise/internal/screens/lesson"
	"github.com/abhisek/pennywise/internal/ui/layout"
)

// Option adjusts how the app starts.
type Option func(*AppModel)

// StartLesson opens l on top of the home screen.
func StartLesson(l catalog.Lesson) Option {
	return func(m *AppModel) {
		m.start = &l
	}
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps     screen.Deps
	router   *router.Router
	progress *progress.UserProgress
	start    *catalog.Lesson
	boot     []tea.Cmd
	width    int
	height   int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(deps screen.Deps, opts ...Option) AppModel {
	deps = deps.WithDefaults()
	h := home.New(deps)
	m := AppModel{
		deps:   deps,
		router: router.New(h),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.boot = []tea.Cmd{h.Init()}
	if m.start != nil {
		m.boot = append(m.boot, m.router.Push(lesson.New(deps, *m.start)))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.boot...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ProgressMsg:
		if msg.Err != nil {
			m.deps.Log.Warn("progress refresh failed", "user_id", m.deps.UserID, "error", msg.Err)
		} else if msg.Progress != nil && msg.Progress.UserID == m.deps.UserID {
			m.progress = msg.Progress
		}

	case screen.SwitchProfileMsg:
		m.deps.Log.Info("switching profile", "from", m.deps.UserID, "to", msg.UserID)
		m.deps = m.deps.WithUser(msg.UserID)
		m.progress = nil
		m.router = router.New(home.New(m.deps))
		return m, m.router.Active().Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.progress, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	if footerHints == nil {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(deps screen.Deps, opts ...Option) error {
	p := tea.NewProgram(newAppModel(deps, opts...))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

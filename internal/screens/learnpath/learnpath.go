package learnpath

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/router"
	"github.com/abhisek/pennywise/internal/screen"
	"github.com/abhisek/pennywise/internal/screens/lesson"
	"github.com/abhisek/pennywise/internal/ui/layout"
	"github.com/abhisek/pennywise/internal/ui/theme"
)

type rowKind int

const (
	rowCourseHeader rowKind = iota
	rowLesson
)

type row struct {
	kind   rowKind
	course catalog.Course
	step   catalog.PathStep
}

// pathLoadedMsg carries the learner's lesson history.
type pathLoadedMsg struct {
	records []progress.LessonProgress
	err     error
}

// PathScreen lists every course with its lessons marked completed,
// current or locked.
type PathScreen struct {
	deps         screen.Deps
	focus        string
	rows         []row
	records      map[string]progress.LessonProgress
	cursor       int
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*PathScreen)(nil)
var _ screen.KeyHintProvider = (*PathScreen)(nil)
var _ screen.Resumer = (*PathScreen)(nil)

// New creates a PathScreen with the cursor on the current lesson of the
// course focusCourseID.
func New(deps screen.Deps, focusCourseID string) *PathScreen {
	return &PathScreen{deps: deps.WithDefaults(), focus: focusCourseID}
}

func (s *PathScreen) Init() tea.Cmd {
	return s.load()
}

// Resume reloads the path when a lesson is closed.
func (s *PathScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *PathScreen) load() tea.Cmd {
	store, userID := s.deps.Aggregator.Store(), s.deps.UserID
	return func() tea.Msg {
		list, err := store.ListLessonProgress(context.Background(), userID)
		return pathLoadedMsg{records: list, err: err}
	}
}

func (s *PathScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pathLoadedMsg:
		s.applyRecords(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "tab":
			s.nextCourse()
		case "enter":
			return s, s.startLesson()
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

// applyRecords rebuilds the rows from the learner's history. The cursor
// stays on the same lesson across reloads; on first load it goes to the
// current lesson of the focused course.
func (s *PathScreen) applyRecords(msg pathLoadedMsg) {
	if msg.err != nil {
		s.errMsg = msg.err.Error()
	}
	s.records = make(map[string]progress.LessonProgress, len(msg.records))
	for _, lp := range msg.records {
		s.records[lp.LessonID] = lp
	}
	completed := progress.CompletedSet(msg.records)

	var keep string
	if s.loaded && s.cursor < len(s.rows) {
		keep = s.rows[s.cursor].step.Lesson.ID
	}

	s.rows = s.rows[:0]
	for _, c := range s.deps.Catalog.Courses() {
		s.rows = append(s.rows, row{kind: rowCourseHeader, course: c})
		for _, step := range catalog.Path(c, completed) {
			s.rows = append(s.rows, row{kind: rowLesson, course: c, step: step})
		}
	}

	s.cursor = s.pickCursor(keep)
	s.loaded = true
}

func (s *PathScreen) pickCursor(keep string) int {
	first := -1
	for i, r := range s.rows {
		if r.kind != rowLesson {
			continue
		}
		if first < 0 {
			first = i
		}
		if keep != "" && r.step.Lesson.ID == keep {
			return i
		}
		if keep == "" && r.course.ID == s.focus && r.step.Status == catalog.StatusCurrent {
			return i
		}
	}
	if keep == "" {
		// Focused course is fully completed; land on its first lesson.
		for i, r := range s.rows {
			if r.kind == rowLesson && r.course.ID == s.focus {
				return i
			}
		}
	}
	return max(first, 0)
}

func (s *PathScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Loading your path...")
	}

	listHeight := height
	if s.errMsg != "" {
		listHeight--
	}
	s.adjustScroll(listHeight)

	var lines []string
	if s.errMsg != "" {
		lines = append(lines, theme.Warning.Render("  ⚠ Could not load your history: "+s.errMsg))
	}
	visible := 0
	for i, r := range s.rows {
		if i < s.scrollOffset {
			continue
		}
		if visible >= listHeight {
			break
		}
		switch r.kind {
		case rowCourseHeader:
			lines = append(lines, s.renderCourseHeader(r.course, width))
		case rowLesson:
			lines = append(lines, s.renderLessonRow(r, i == s.cursor, width))
		}
		visible++
	}
	return strings.Join(lines, "\n")
}

func (s *PathScreen) Title() string {
	return "Learning Path"
}

// KeyHints returns the key binding hints for the footer.
func (s *PathScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Course"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Back"},
	}
}

// moveCursor moves the cursor by delta, skipping course headers.
func (s *PathScreen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].kind == rowLesson {
			s.cursor = next
			return
		}
		next += delta
	}
}

// nextCourse jumps to the first lesson of the next course, wrapping around.
func (s *PathScreen) nextCourse() {
	if len(s.rows) == 0 {
		return
	}
	current := s.rows[s.cursor].course.ID
	for i := 1; i <= len(s.rows); i++ {
		j := (s.cursor + i) % len(s.rows)
		if s.rows[j].kind == rowLesson && s.rows[j].course.ID != current {
			s.cursor = j
			return
		}
	}
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *PathScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	// Also show the course header above the cursor if possible
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowCourseHeader {
		headerRow--
	}

	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

// startLesson opens the lesson under the cursor unless it is locked.
func (s *PathScreen) startLesson() tea.Cmd {
	if s.cursor >= len(s.rows) {
		return nil
	}
	r := s.rows[s.cursor]
	if r.kind != rowLesson || r.step.Status == catalog.StatusLocked {
		return nil
	}
	next := lesson.New(s.deps, r.step.Lesson)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

// renderCourseHeader renders a course section header with its completion
// count.
func (s *PathScreen) renderCourseHeader(c catalog.Course, width int) string {
	done := 0
	for _, l := range c.Lessons {
		if lp, ok := s.records[l.ID]; ok && lp.Completed {
			done++
		}
	}
	name := strings.ToUpper(c.Title)
	count := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d/%d", done, len(c.Lessons)))
	return lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Padding(1, 0, 0, 2).
		Render(name) + count
}

func statusIcon(st catalog.LessonStatus) string {
	switch st {
	case catalog.StatusCompleted:
		return "✓"
	case catalog.StatusCurrent:
		return "●"
	default:
		return "○"
	}
}

// renderLessonRow renders a single lesson row.
func (s *PathScreen) renderLessonRow(r row, selected bool, width int) string {
	st := r.step.Status

	label := strings.ToUpper(st.String())
	if lp, ok := s.records[r.step.Lesson.ID]; ok && st == catalog.StatusCompleted {
		label = fmt.Sprintf("%d%%", lp.Accuracy)
	}

	padding := 4
	iconWidth := 3
	labelWidth := 10
	spacing := 4
	nameWidth := width - padding - iconWidth - labelWidth - spacing
	if nameWidth < 10 {
		nameWidth = 10
	}

	name := r.step.Lesson.Title
	if len([]rune(name)) > nameWidth {
		name = string([]rune(name)[:nameWidth-1]) + "…"
	}

	var nameStyle, labelStyle lipgloss.Style
	switch {
	case selected:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	case st == catalog.StatusCompleted:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Success)
		labelStyle = lipgloss.NewStyle().Foreground(theme.Success)
	case st == catalog.StatusCurrent:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Text)
		labelStyle = lipgloss.NewStyle().Foreground(theme.ArcadeYellow)
	default:
		nameStyle = theme.Locked
		labelStyle = theme.Locked
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	namePadded := fmt.Sprintf("%-*s", nameWidth, name)
	return fmt.Sprintf("  %s%s %s  %s",
		cursor,
		statusIcon(st),
		nameStyle.Render(namePadded),
		labelStyle.Render(fmt.Sprintf("%9s", label)),
	)
}

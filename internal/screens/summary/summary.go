package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pennywise/internal/router"
	"github.com/abhisek/pennywise/internal/screen"
	"github.com/abhisek/pennywise/internal/session"
	"github.com/abhisek/pennywise/internal/ui/components"
	"github.com/abhisek/pennywise/internal/ui/layout"
	"github.com/abhisek/pennywise/internal/ui/theme"
)

// RetryFunc re-attempts saving the lesson and returns the refreshed summary.
type RetryFunc func() (*session.Summary, error)

// retryDoneMsg carries the outcome of a save retry.
type retryDoneMsg struct {
	summary *session.Summary
	err     error
}

// SummaryScreen displays the lesson-complete summary.
type SummaryScreen struct {
	summary *session.Summary
	next    func() screen.Screen
	retry   RetryFunc
	errMsg  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. next builds the screen for the following
// lesson and may be nil when this was the last lesson of the course.
func New(summary *session.Summary, next func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{summary: summary, next: next}
}

// WithRetry lets the learner retry a failed save with the R key.
func (s *SummaryScreen) WithRetry(fn RetryFunc) *SummaryScreen {
	s.retry = fn
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Lesson Complete"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := make([]layout.KeyHint, 0, 3)
	if s.next != nil {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next lesson"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Continue"})
	}
	if s.canRetry() {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Retry save"})
	}
	hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case retryDoneMsg:
		if msg.err != nil {
			s.errMsg = "Still could not save: " + msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.summary = msg.summary
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if s.next != nil {
				next := s.next()
				return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r", "R":
			if s.canRetry() {
				retry := s.retry
				return s, func() tea.Msg {
					sum, err := retry()
					return retryDoneMsg{summary: sum, err: err}
				}
			}
		}
	}
	return s, nil
}

func (s *SummaryScreen) canRetry() bool {
	return s.retry != nil && s.summary != nil && !s.summary.Saved
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		"Lesson complete!"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), sum.LessonTitle))
	b.WriteString("\n\n")

	// XP breakdown.
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true),
		fmt.Sprintf("+%d XP", sum.TotalXP)))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("%d from questions + %d completion bonus", sum.QuestionXP, sum.BonusXP)))
	b.WriteString("\n\n")

	// Stats line.
	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	statsLine := fmt.Sprintf("Accuracy: %d%%        First try: %d/%d        Retries: %d        Time: %d:%02d",
		sum.Accuracy, sum.FirstTryCorrect, sum.TotalQuestions, sum.Retries, mins, secs)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), statsLine))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	if !sum.Saved {
		b.WriteString(center(theme.Warning, "⚠ Progress may not be saved"))
		b.WriteString("\n")
		if s.errMsg != "" {
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Error), s.errMsg))
			b.WriteString("\n")
		}
		if sum.Level == 0 {
			return b.String()
		}
		b.WriteString("\n")
	}

	if sum.LeveledUp {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
			fmt.Sprintf("Level up! You reached Level %d", sum.Level)))
		b.WriteString("\n")
	}
	if sum.StreakExtended {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent),
			fmt.Sprintf("★ %d day streak", sum.Streak)))
		b.WriteString("\n")
	}

	barWidth := min(width-8, 50)
	bar := components.NewXPBar(sum.XP, barWidth)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		components.XPToNextLabel(sum.XP)))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text),
		"Hearts "+layout.RenderHearts(sum.HeartsLeft)))

	return b.String()
}

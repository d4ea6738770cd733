package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pennywise/internal/session"
	"github.com/abhisek/pennywise/internal/ui/components"
	"github.com/abhisek/pennywise/internal/ui/layout"
	"github.com/abhisek/pennywise/internal/ui/theme"
)

func (s *LessonScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, height, s.errMsg)
	case s.runner == nil:
		return renderLoading(width, height)
	case s.outOfHearts:
		return renderOutOfHearts(width, height)
	case s.confirmQuit:
		return renderQuitConfirm(width, height)
	}
	return s.renderQuestionView(width)
}

// renderQuestionView renders the progress line, the question and either the
// check button or the feedback block.
func (s *LessonScreen) renderQuestionView(width int) string {
	st := s.runner.State()

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + s.lesson.Title)

	infoRight := layout.RenderHearts(st.Hearts) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("   %d/%d done   +%d XP", st.UniqueCompleted, st.TotalQuestions, st.XP))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")

	bar := components.NewProgressBar("", st.Progress(), true, width-4)
	b.WriteString("  " + bar.View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View(width)))
	b.WriteString("\n")

	if s.feedback != nil {
		b.WriteString(s.renderFeedback(width))
	} else {
		btn := components.NewButton("CHECK", st.Phase == session.PhaseAwaitingCheck)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, btn.View()))
		b.WriteString("\n")
		if !s.choice.Lettered {
			b.WriteString(centered(width, theme.Hint, "T / F or arrows, then Enter"))
		} else {
			b.WriteString(centered(width, theme.Hint, "A-D or arrows, then Enter"))
		}
	}

	if s.warning != "" {
		b.WriteString("\n\n")
		b.WriteString(centered(width, theme.Warning, "⚠ "+s.warning))
	}

	return b.String()
}

// renderFeedback renders the result of the last check.
func (s *LessonScreen) renderFeedback(width int) string {
	fb := s.feedback
	q := fb.Question

	var b strings.Builder

	if fb.Correct {
		b.WriteString(centered(width, theme.Correct, fmt.Sprintf("Correct! +%d XP", fb.XPAwarded)))
	} else {
		b.WriteString(centered(width, theme.Incorrect, "Not quite"))
		b.WriteString("\n")
		b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
			"Correct answer: "+q.CorrectOption()))
		b.WriteString("\n")
		b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
			"This question will come back at the end."))
	}
	b.WriteString("\n\n")

	expStyle := lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Foreground(theme.Text)

	if q.Explanation != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, expStyle.Render(q.Explanation)))
		b.WriteString("\n\n")
	}

	switch {
	case s.explaining:
		b.WriteString(centered(width, theme.Hint, "Your tutor is thinking..."))
		b.WriteString("\n\n")
	case s.explanation != nil:
		tutorText := s.explanation.Text
		if s.explanation.Tip != "" {
			tutorText += "\n\nTip: " + s.explanation.Tip
		}
		card := components.ArcadePanel(tutorText, min(width-8, 70), theme.Secondary)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
		b.WriteString("\n\n")
	}

	btn := components.NewButton("CONTINUE", true)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, btn.View()))
	return b.String()
}

func centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

func renderLoading(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Loading lesson...")
}

func renderError(width, height int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Error).
		Render("Could not start lesson\n\n" + msg + "\n\nPress Enter to go back")
}

func renderQuitConfirm(width, height int) string {
	body := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Leave this lesson?") +
		"\n\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Hearts you lost stay lost.\nXP is only awarded when you finish.") +
		"\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Render("Y to leave   N to keep going")
	card := components.ArcadeCard(body, components.ContentWidth(width))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func renderOutOfHearts(width, height int) string {
	body := lipgloss.NewStyle().Foreground(theme.Heart).Bold(true).Render("Out of hearts!") +
		"\n\n" + layout.RenderHearts(0) + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Render("You've used all your hearts.\nRefill them with: pennywise reset --hearts") +
		"\n\n" +
		components.ArcadeButton("BACK TO HOME", true, 22)
	card := components.ArcadePanel(body, components.ContentWidth(width), theme.Heart)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

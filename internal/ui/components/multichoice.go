package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pennywise/internal/ui/theme"
)

// OptionLabels are the letters shown in front of multiple-choice options.
var OptionLabels = []string{"A", "B", "C", "D", "E", "F"}

// MultiChoice renders a question's options. Selection lives in the lesson
// session; this component only draws it. After Reveal the correct option is
// green and a wrong pick is red.
type MultiChoice struct {
	Prompt   string
	Options  []string
	Lettered bool

	Selected int

	revealed bool
	correct  int
}

// NewMultiChoice creates a multiple-choice view with nothing selected.
// True/false questions pass lettered=false and show the options bare.
func NewMultiChoice(prompt string, options []string, lettered bool) MultiChoice {
	return MultiChoice{
		Prompt:   prompt,
		Options:  options,
		Lettered: lettered,
		Selected: -1,
	}
}

// Reveal marks which option is correct so View can color the result.
func (m *MultiChoice) Reveal(correct int) {
	m.revealed = true
	m.correct = correct
}

// Revealed reports whether Reveal has been called.
func (m MultiChoice) Revealed() bool {
	return m.revealed
}

// IndexForKey maps a key press to an option index. Digits 1-9 and, for
// lettered options, a-f are accepted; t/f pick True/False on two-option
// questions that are not lettered.
func (m MultiChoice) IndexForKey(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= '1' && c <= '9':
		i := int(c - '1')
		return i, i < len(m.Options)
	case m.Lettered && c >= 'a' && c <= 'f':
		i := int(c - 'a')
		return i, i < len(m.Options)
	case !m.Lettered && len(m.Options) == 2 && (c == 't' || c == 'f'):
		if c == 't' {
			return 0, true
		}
		return 1, true
	}
	return 0, false
}

// View renders the prompt followed by one line per option.
func (m MultiChoice) View(width int) string {
	var b strings.Builder

	prompt := lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Foreground(theme.Text).
		Bold(true).
		Render(m.Prompt)
	b.WriteString(prompt)
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}

		line := prefix + opt
		if m.Lettered && i < len(OptionLabels) {
			line = fmt.Sprintf("%s%s)  %s", prefix, OptionLabels[i], opt)
		}

		var style lipgloss.Style
		switch {
		case m.revealed && i == m.correct:
			style = theme.Correct
			line += "  ✓"
		case m.revealed && i == m.Selected:
			style = theme.Incorrect
			line += "  ✗"
		case m.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

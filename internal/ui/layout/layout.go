// Package layout draws the chrome around every screen: the header with the
// learner's hearts, level and streak, and the key hint footer.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/ui/theme"
)

// Smallest terminal the app draws in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the learner to grow the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPennywise needs at least %d x %d.\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHearts draws filled and empty hearts out of progress.MaxHearts.
func RenderHearts(n int) string {
	n = max(0, min(n, progress.MaxHearts))
	return lipgloss.NewStyle().Foreground(theme.Heart).Render(strings.Repeat("♥", n)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("♡", progress.MaxHearts-n))
}

// progressBadges is the right side of the header.
func progressBadges(p *progress.UserProgress) string {
	if p == nil {
		return ""
	}
	gap := "   "
	level := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).
		Render(fmt.Sprintf("Lv %d · %d XP", p.Level, p.XP))
	streak := lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("★ %d day", p.Streak))
	return RenderHearts(p.Hearts) + gap + level + gap + streak
}

// bar is the rounded strip used for both header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader renders the brand, the screen title centered, and the
// learner's stats. p may be nil while progress is still loading.
func RenderHeader(title string, p *progress.UserProgress, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Pennywise")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := progressBadges(p)

	inner := max(width-4, 0)
	bw, cw, rw := lipgloss.Width(brand), lipgloss.Width(center), lipgloss.Width(right)

	// Center the title on the full bar, but never let it touch the sides.
	leftGap := max((inner-cw)/2-bw, 1)
	rightGap := max(inner-bw-leftGap-cw-rw, 1)

	return bar(brand+strings.Repeat(" ", leftGap)+center+strings.Repeat(" ", rightGap)+right, width)
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
	}
	return bar("  "+strings.Join(parts, "   "), width)
}

// RenderFrame stacks header, content and footer, padding the content to
// fill whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

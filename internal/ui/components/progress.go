package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int

	// Fill overrides the filled segment style.
	Fill *lipgloss.Style
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// NewXPBar shows how far xp is into the current level.
func NewXPBar(xp, width int) ProgressBar {
	into := progress.XPIntoLevel(xp)
	bar := NewProgressBar(
		fmt.Sprintf("Lv %d", progress.LevelForXP(xp)),
		float64(into)/float64(progress.XPPerLevel),
		false, width)
	bar.Fill = &theme.XPFilled
	return bar
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // " 100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	fill := theme.ProgressFilled
	if p.Fill != nil {
		fill = *p.Fill
	}

	result += fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}

// XPToNextLabel is the caption under an XP bar, for example
// "40 XP to Level 3".
func XPToNextLabel(xp int) string {
	return fmt.Sprintf("%d XP to Level %d", progress.XPToNextLevel(xp), progress.LevelForXP(xp)+1)
}

package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pennywise/internal/ui/theme"
)

// Bounds of the arcade column.
const (
	maxContentWidth = 64
	minContentWidth = 20
)

// ContentWidth is the shared inner width of every box on an arcade screen,
// so cards, menus and bars line up. It leaves room for the cabinet border
// and padding.
func ContentWidth(frameWidth int) int {
	return max(min(frameWidth-6, maxContentWidth), minContentWidth)
}

// CabinetFrame draws the double-line cabinet around a whole screen with
// content centered both ways.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard is a neutral rounded card cw wide.
func ArcadeCard(content string, cw int) string {
	return ArcadePanel(content, cw, theme.Border)
}

// ArcadePanel is a card with its own border color, for alerts such as
// running out of hearts.
func ArcadePanel(content string, cw int, border color.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ArcadeButton renders one menu row. The selected row is lit in arcade
// yellow with a pointer.
func ArcadeButton(label string, selected bool, width int) string {
	base := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	if !selected {
		return base.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
	}
	return base.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.ArcadeYellow).
		BorderForeground(theme.ArcadeYellow).
		Render("▸ " + label)
}

package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/ui/components"
	"github.com/abhisek/pennywise/internal/ui/layout"
	"github.com/abhisek/pennywise/internal/ui/theme"
)

const arcadeTitleFull = `╔═╗╔═╗╔╗╔╔╗╔╦ ╦╦ ╦╦╔═╗╔═╗
╠═╝║╣ ║║║║║║╚╦╝║║║║╚═╗║╣ 
╩  ╚═╝╝╚╝╝╚╝ ╩ ╚╩╝╩╚═╝╚═╝`

const arcadeTitleCompact = "P · E · N · N · Y · W · I · S · E"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders hearts, level, streak and the XP bar in a bordered
// box matching content width.
func renderStatsBar(p progress.UserProgress, cw int, compact bool) string {
	levelStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			layout.RenderHearts(p.Hearts),
			levelStyle.Render(fmt.Sprintf("Lv%d", p.Level)),
			streakStyle.Render(fmt.Sprintf("★%d", p.Streak)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			layout.RenderHearts(p.Hearts),
			levelStyle.Render(fmt.Sprintf("LEVEL %d", p.Level)),
			streakStyle.Render(fmt.Sprintf("★ %d DAY STREAK", p.Streak)),
		)
	}

	bar := components.NewXPBar(p.XP, cw-6)
	body := stats + "\n" + bar.View() + "\n" + dimStyle.Render(components.XPToNextLabel(p.XP))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(body)
}

// renderHeartsBanner warns that lessons are gated until hearts are refilled.
func renderHeartsBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Heart).
		Width(cw).
		Align(lipgloss.Center).
		Render("♥ Out of hearts. Refill with: pennywise reset --hearts")
}

// renderErrorNote renders a dim one-line load error.
func renderErrorNote(msg string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Progress may not be saved: " + msg)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 30

// menuLabel joins a label with its detail for button rendering.
func menuLabel(label, detail string) string {
	if detail == "" {
		return label
	}
	return label + "  " + detail
}

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items, details []string, selected int, cw int, disabled map[int]bool) string {
	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		text := menuLabel(label, details[i])
		if disabled[i] {
			buttons = append(buttons, disabledBtn.Render(text))
		} else {
			buttons = append(buttons, components.ArcadeButton(text, i == selected, buttonWidth))
		}
	}
	block := strings.Join(buttons, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderArcadeMenuCompact renders menu items as simple text lines (no borders)
// for very small terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(items, details []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		text := menuLabel(label, details[i])
		var line string
		if disabled[i] {
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + text)
		} else if i == selected {
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + text + " ")
		} else {
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + text)
		}
		lines = append(lines, line)
	}
	block := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

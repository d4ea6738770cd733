package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pennywise/internal/ui/theme"
)

// MascotVariant selects which piggy bank art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default green
	MascotCelebrating                      // Gold coins: a lesson finished today
	MascotAlert                            // Red: out of hearts
)

const mascotIdle = `  ___
 (o o)__
(  $   ))=
 ^^  ^^`

const mascotCelebrating = ` ° ¢ °
  ___
 (^ ^)__
(  $   ))=
 ^^  ^^`

const mascotAlert = `  ___
 (x x)__  !
(  $   ))=
 ^^  ^^`

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(variant ...MascotVariant) string {
	v := MascotIdle
	if len(variant) > 0 {
		v = variant[0]
	}

	var art string
	var fg = theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Heart
	default:
		art = mascotIdle
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}

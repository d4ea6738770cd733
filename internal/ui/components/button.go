package components

import (
	"github.com/abhisek/pennywise/internal/ui/theme"
)

// Button is the lesson action button. It reads CHECK until an answer is
// evaluated and CONTINUE afterwards; a disabled button is drawn dim.
type Button struct {
	Label   string
	Enabled bool
}

// NewButton creates a new button.
func NewButton(label string, enabled bool) Button {
	return Button{
		Label:   label,
		Enabled: enabled,
	}
}

// View renders the button.
func (b Button) View() string {
	if b.Enabled {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}

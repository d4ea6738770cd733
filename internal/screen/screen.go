package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackHandler is implemented by screens that want to handle Esc themselves
// instead of being popped, for example to confirm abandoning a lesson.
type BackHandler interface {
	HandlesBack() bool
}

// ProgressMsg announces a fresh copy of the learner's progress. The app
// uses it for the header and forwards it to the active screen.
type ProgressMsg struct {
	Progress *progress.UserProgress
	Err      error
}

// SwitchProfileMsg asks the app to restart on another local profile.
type SwitchProfileMsg struct {
	UserID string
}

// Resumer is implemented by screens that reload their data when they become
// active again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

package profile

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pennywise/internal/progress"
	"github.com/abhisek/pennywise/internal/screen"
	"github.com/abhisek/pennywise/internal/ui/components"
	"github.com/abhisek/pennywise/internal/ui/layout"
	"github.com/abhisek/pennywise/internal/ui/theme"
)

// ProfileScreen switches the local profile. Each profile has its own XP,
// hearts and lesson history.
type ProfileScreen struct {
	current string
	input   components.TextInput
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a ProfileScreen showing the current profile id.
func New(current string) *ProfileScreen {
	in := components.NewTextInput("profile name", progress.MaxUserIDLen)
	in.Allow = progress.UserIDRune
	return &ProfileScreen{current: current, input: in}
}

func (p *ProfileScreen) Init() tea.Cmd {
	return p.input.Init()
}

func (p *ProfileScreen) Title() string {
	return "Switch Profile"
}

func (p *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Switch"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (p *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return p, p.submit()
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *ProfileScreen) submit() tea.Cmd {
	id := p.input.Value()
	if err := progress.ValidateUserID(id); err != nil {
		p.input.SetError(strings.TrimPrefix(err.Error(), progress.ErrInvalidUserID.Error()+": "))
		return nil
	}
	if id == p.current {
		p.input.SetError("already playing as " + id)
		return nil
	}
	return func() tea.Msg { return screen.SwitchProfileMsg{UserID: id} }
}

func (p *ProfileScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	body := lipgloss.NewStyle().Foreground(theme.TextDim).Render("Playing as ") +
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(p.current) +
		"\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Render("Switch to profile:") +
		"\n\n" + p.input.View() + "\n\n" +
		theme.Hint.Render("Letters, digits, dot, dash and underscore.\nA new name starts with fresh progress.")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.ArcadeCard(body, cw))
}

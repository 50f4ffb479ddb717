// Package login is the first screen: it asks for a trainer name, opens the
// session and offers to create unknown trainers.
package login

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/todomon/internal/router"
	"github.com/abhisek/todomon/internal/session"
	"github.com/abhisek/todomon/internal/store"
	"github.com/abhisek/todomon/internal/ui/components"
	"github.com/abhisek/todomon/internal/ui/layout"
	"github.com/abhisek/todomon/internal/ui/theme"
)

// Opener opens a session for username, creating the user when create is set.
type Opener func(ctx context.Context, username string, create bool) (*session.Session, error)

// NextFactory builds the screen shown once a session is open.
type NextFactory func(*session.Session) router.Screen

type phase int

const (
	phaseInput phase = iota
	phaseOpening
	phaseConfirmCreate
)

type openedMsg struct {
	username string
	sess     *session.Session
	err      error
}

type confirmMsg struct{ create bool }

// LoginScreen collects the username.
type LoginScreen struct {
	open     Opener
	next     NextFactory
	input    components.TextInput
	confirm  components.Menu
	phase    phase
	username string
	errMsg   string
}

var _ router.Screen = (*LoginScreen)(nil)
var _ router.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen. A non-empty username is opened immediately.
func New(open Opener, next NextFactory, username string) *LoginScreen {
	s := &LoginScreen{
		open:     open,
		next:     next,
		input:    components.NewTextInput("Trainer name", "ash", 32),
		username: strings.TrimSpace(username),
	}
	s.confirm = components.NewMenu([]components.MenuItem{
		{Label: "Yes, start a new adventure", Key: "y", Action: func() tea.Cmd {
			return func() tea.Msg { return confirmMsg{create: true} }
		}},
		{Label: "No, go back", Key: "n", Action: func() tea.Cmd {
			return func() tea.Msg { return confirmMsg{create: false} }
		}},
	})
	return s
}

func (s *LoginScreen) Title() string {
	return "Login"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	if s.phase == phaseConfirmCreate {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Log in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Init() tea.Cmd {
	if s.username != "" {
		s.phase = phaseOpening
		return s.openCmd(s.username, false)
	}
	return s.input.Focus()
}

func (s *LoginScreen) openCmd(username string, create bool) tea.Cmd {
	open := s.open
	return func() tea.Msg {
		sess, err := open(context.Background(), username, create)
		return openedMsg{username: username, sess: sess, err: err}
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case openedMsg:
		return s.handleOpened(msg)

	case confirmMsg:
		if msg.create {
			s.phase = phaseOpening
			return s, s.openCmd(s.username, true)
		}
		s.phase = phaseInput
		return s, s.input.Focus()

	case tea.KeyMsg:
		switch s.phase {
		case phaseConfirmCreate:
			var cmd tea.Cmd
			s.confirm, cmd = s.confirm.Update(msg)
			return s, cmd
		case phaseInput:
			if msg.String() == "enter" {
				return s.submit()
			}
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			s.errMsg = ""
			return s, cmd
		}
	}
	return s, nil
}

func (s *LoginScreen) submit() (router.Screen, tea.Cmd) {
	name := strings.TrimSpace(s.input.Value())
	if err := store.ValidateUsername(name); err != nil {
		s.input.SetError("Please enter a name without slashes.")
		return s, nil
	}
	s.username = name
	s.phase = phaseOpening
	s.errMsg = ""
	return s, s.openCmd(name, false)
}

func (s *LoginScreen) handleOpened(msg openedMsg) (router.Screen, tea.Cmd) {
	switch {
	case msg.err == nil:
		next := s.next(msg.sess)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	case errors.Is(msg.err, store.ErrNotFound):
		s.phase = phaseConfirmCreate
		s.confirm.Selected = 0
		return s, nil
	case errors.Is(msg.err, store.ErrCorrupt):
		s.errMsg = fmt.Sprintf("Save data for %s is corrupt and was left untouched: %v", msg.username, msg.err)
	default:
		s.errMsg = fmt.Sprintf("Could not load %s: %v", msg.username, msg.err)
	}
	s.phase = phaseInput
	return s, s.input.Focus()
}

func (s *LoginScreen) View(width, height int) string {
	sections := []string{RenderBanner(width), ""}

	switch s.phase {
	case phaseOpening:
		sections = append(sections, theme.Hint.Render(fmt.Sprintf("Loading %s...", s.username)))
	case phaseConfirmCreate:
		sections = append(sections,
			theme.Body.Render(fmt.Sprintf("No trainer named %q yet. Create one?", s.username)),
			"",
			s.confirm.View(),
		)
	default:
		sections = append(sections, s.input.View())
	}

	if s.errMsg != "" {
		sections = append(sections, "", lipgloss.NewStyle().
			Width(min(width-4, 70)).
			Foreground(theme.Error).
			Render(s.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}

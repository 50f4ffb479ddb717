package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/todomon/internal/router"
	"github.com/abhisek/todomon/internal/store"
	"github.com/abhisek/todomon/internal/ui/layout"
	"github.com/abhisek/todomon/internal/ui/theme"
)

// Limit is how many events the screen loads.
const Limit = 100

type historyLoadedMsg struct {
	Events []store.Event
	Err    error
}

// HistoryScreen lists a user's recent events, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	username  string
	events    []store.Event
	offset    int
	loaded    bool
	errMsg    string
}

var _ router.Screen = (*HistoryScreen)(nil)
var _ router.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo, username string) *HistoryScreen {
	return &HistoryScreen{eventRepo: eventRepo, username: username}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, username := s.eventRepo, s.username
	return func() tea.Msg {
		events, err := repo.RecentEvents(context.Background(), username, Limit)
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.events)-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing here yet. Go finish a task!")
	}

	var b strings.Builder
	b.WriteString("\n")

	rows := max(height-2, 1)
	end := min(s.offset+rows, len(s.events))
	for _, ev := range s.events[s.offset:end] {
		line := fmt.Sprintf("%s  %-15s %s",
			ev.CreatedAt.Format("Jan 02 15:04"), Describe(ev.Kind), ev.Detail)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(kindColor(ev.Kind)).Width(min(width-4, 72)).Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

// Describe returns a short label for an event kind.
func Describe(k store.EventKind) string {
	switch k {
	case store.EventLogin:
		return "logged in"
	case store.EventLogout:
		return "logged out"
	case store.EventTaskAdded:
		return "added task"
	case store.EventTaskCompleted:
		return "completed"
	case store.EventTaskReset:
		return "daily reset"
	case store.EventEvolved:
		return "partner evolved"
	case store.EventReassigned:
		return "new partner"
	default:
		return string(k)
	}
}

func kindColor(k store.EventKind) color.Color {
	switch k {
	case store.EventEvolved, store.EventReassigned:
		return theme.Accent
	case store.EventTaskCompleted:
		return theme.Success
	case store.EventLogin, store.EventLogout:
		return theme.TextDim
	default:
		return theme.Text
	}
}

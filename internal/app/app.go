package app

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/todomon/internal/router"
	"github.com/abhisek/todomon/internal/screens/board"
	"github.com/abhisek/todomon/internal/screens/login"
	"github.com/abhisek/todomon/internal/session"
	"github.com/abhisek/todomon/internal/store"
	"github.com/abhisek/todomon/internal/ui/layout"
)

// Options configure the TUI.
type Options struct {
	// Open starts a session; see login.Opener.
	Open login.Opener

	// Events backs the history screen. May be nil.
	Events store.EventRepo

	// Username skips the name prompt when set.
	Username string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(open login.Opener, events store.EventRepo, username string) AppModel {
	next := func(sess *session.Session) router.Screen {
		return board.New(sess, events)
	}
	return AppModel{
		router: router.New(login.New(open, next, username)),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(router.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(title, status, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if kp, ok := active.(router.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and closes the session it opened, if
// any, once the program exits.
func Run(opts Options) error {
	var (
		mu     sync.Mutex
		opened *session.Session
	)
	open := func(ctx context.Context, username string, create bool) (*session.Session, error) {
		sess, err := opts.Open(ctx, username, create)
		if err == nil && sess != nil {
			mu.Lock()
			opened = sess
			mu.Unlock()
		}
		return sess, err
	}

	p := tea.NewProgram(newAppModel(open, opts.Events, opts.Username))
	_, err := p.Run()

	mu.Lock()
	if opened != nil {
		opened.Close()
	}
	mu.Unlock()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

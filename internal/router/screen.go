package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/todomon/internal/ui/layout"
)

// Screen is one page of the TUI. The router owns the stack of screens and
// forwards messages to the top one.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area only; the app draws header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider lets a screen put a short status on the right of the header.
type StatusProvider interface {
	Status() string
}

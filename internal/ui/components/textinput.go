package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/todomon/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with todomon styling.
type TextInput struct {
	Model    textinput.Model
	Label    string
	DateOnly bool // accept digits and '-' only
	errMsg   string
}

// NewTextInput creates a styled text input.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, Label: label}
}

// NewDateInput creates an input for YYYY-MM-DD dates.
func NewDateInput(label string) TextInput {
	t := NewTextInput(label, "YYYY-MM-DD (optional)", 10)
	t.DateOnly = true
	return t
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		t.errMsg = ""
		if t.DateOnly {
			key := kmsg.String()
			if len(key) == 1 && key != "-" && (key[0] < '0' || key[0] > '9') {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label, the input and any validation error.
func (t TextInput) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Label)
	view := label + "\n" + t.Model.View()
	if t.errMsg != "" {
		view += "\n" + theme.ErrorText.Render(t.errMsg)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetError shows msg under the input until the next key press.
func (t *TextInput) SetError(msg string) {
	t.errMsg = msg
}

// Package addtask is the form for creating a task.
package addtask

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/todomon/internal/router"
	"github.com/abhisek/todomon/internal/tasks"
	"github.com/abhisek/todomon/internal/ui/components"
	"github.com/abhisek/todomon/internal/ui/layout"
	"github.com/abhisek/todomon/internal/ui/theme"
)

// SubmitMsg is delivered to the screen below when the form is submitted.
type SubmitMsg struct {
	Name      string
	Recurring bool
	Due       *tasks.Date
}

const (
	fieldName = iota
	fieldRecurring
	fieldDue
	fieldCount
)

// AddTaskScreen collects name, recurrence and an optional due date.
type AddTaskScreen struct {
	today     tasks.Date
	name      components.TextInput
	due       components.TextInput
	recurring bool
	focus     int
}

var _ router.Screen = (*AddTaskScreen)(nil)
var _ router.KeyHintProvider = (*AddTaskScreen)(nil)

// New creates the form. today bounds the earliest due date.
func New(today tasks.Date) *AddTaskScreen {
	return &AddTaskScreen{
		today: today,
		name:  components.NewTextInput("Task", "water the plants", 80),
		due:   components.NewDateInput("Due date"),
	}
}

func (s *AddTaskScreen) Title() string {
	return "New Task"
}

func (s *AddTaskScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Space", Description: "Toggle daily"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *AddTaskScreen) Init() tea.Cmd {
	return s.name.Focus()
}

func (s *AddTaskScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "enter":
		return s.submit()
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldName:
		s.name, cmd = s.name.Update(msg)
	case fieldDue:
		s.due, cmd = s.due.Update(msg)
	case fieldRecurring:
		if k := kmsg.String(); k == "space" || k == "x" {
			s.recurring = !s.recurring
		}
	}
	return s, cmd
}

func (s *AddTaskScreen) setFocus(field int) tea.Cmd {
	s.focus = field
	s.name.Blur()
	s.due.Blur()
	switch field {
	case fieldName:
		return s.name.Focus()
	case fieldDue:
		return s.due.Focus()
	}
	return nil
}

func (s *AddTaskScreen) submit() (router.Screen, tea.Cmd) {
	name := strings.TrimSpace(s.name.Value())
	if name == "" {
		s.name.SetError("A task needs a name.")
		return s, s.setFocus(fieldName)
	}

	var due *tasks.Date
	if raw := strings.TrimSpace(s.due.Value()); raw != "" {
		d, err := tasks.ParseDate(raw)
		if err != nil {
			s.due.SetError("Use the format YYYY-MM-DD.")
			return s, s.setFocus(fieldDue)
		}
		if d.Before(s.today) {
			s.due.SetError(fmt.Sprintf("The due date cannot be before today (%s).", s.today))
			return s, s.setFocus(fieldDue)
		}
		due = &d
	}

	result := SubmitMsg{Name: name, Recurring: s.recurring, Due: due}
	return s, func() tea.Msg { return router.PopScreenMsg{Result: result} }
}

func (s *AddTaskScreen) View(width, height int) string {
	check := "[ ]"
	if s.recurring {
		check = "[x]"
	}
	recurStyle := theme.Unselected
	if s.focus == fieldRecurring {
		recurStyle = theme.Selected
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.name.View(),
		"",
		recurStyle.Render(check+" Repeat daily"),
		"",
		s.due.View(),
	)
	card := theme.Card.Width(min(width-4, 60)).Render(form)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

package addtask

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/todomon/internal/router"
	"github.com/abhisek/todomon/internal/tasks"
)

var today = tasks.Date{Year: 2026, Month: 3, Day: 14}

func key(code rune, text string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Text: text}
}

func typeText(t *testing.T, s *AddTaskScreen, text string) {
	t.Helper()
	for _, r := range text {
		s.Update(key(r, string(r)))
	}
}

func submit(t *testing.T, s *AddTaskScreen) tea.Msg {
	t.Helper()
	_, cmd := s.Update(key(tea.KeyEnter, ""))
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestSubmitRequiresName(t *testing.T) {
	s := New(today)
	s.Init()

	msg := submit(t, s)
	_, popped := msg.(router.PopScreenMsg)
	assert.False(t, popped)
	assert.Contains(t, s.View(80, 24), "A task needs a name")
}

func TestSubmitRecurringTask(t *testing.T) {
	s := New(today)
	s.Init()
	typeText(t, s, "stretch")

	s.Update(key(tea.KeyTab, ""))
	s.Update(key(tea.KeySpace, " "))

	msg := submit(t, s)
	pop, ok := msg.(router.PopScreenMsg)
	require.True(t, ok, "expected pop, got %#v", msg)
	assert.Equal(t, SubmitMsg{Name: "stretch", Recurring: true}, pop.Result)
}

func TestSubmitWithDueDate(t *testing.T) {
	s := New(today)
	s.Init()
	typeText(t, s, "taxes")
	s.setFocus(fieldDue)
	typeText(t, s, "2026-04-15")

	msg := submit(t, s)
	pop, ok := msg.(router.PopScreenMsg)
	require.True(t, ok, "expected pop, got %#v", msg)
	got := pop.Result.(SubmitMsg)
	require.NotNil(t, got.Due)
	assert.Equal(t, "2026-04-15", got.Due.String())
}

func TestSubmitRejectsPastDueDate(t *testing.T) {
	s := New(today)
	s.Init()
	typeText(t, s, "late")
	s.setFocus(fieldDue)
	typeText(t, s, "2026-03-13")

	msg := submit(t, s)
	_, popped := msg.(router.PopScreenMsg)
	assert.False(t, popped)
	assert.Contains(t, s.View(100, 24), "cannot be before today")
}

func TestDateInputIgnoresLetters(t *testing.T) {
	s := New(today)
	s.Init()
	s.setFocus(fieldDue)
	typeText(t, s, "20a26")

	assert.Equal(t, "2026", s.due.Value())
}

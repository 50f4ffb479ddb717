package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/todomon/internal/tasks"
)

func TestExperienceBarFraction(t *testing.T) {
	tests := []struct {
		current, threshold int
		want               float64
	}{
		{0, 100, 0},
		{50, 100, 0.5},
		{75, 150, 0.5},
		{200, 100, 1},
		{-5, 100, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		bar := NewExperienceBar("XP", tt.current, tt.threshold, 40)
		assert.InDelta(t, tt.want, bar.Fraction(), 1e-9, "%d/%d", tt.current, tt.threshold)
	}
}

func TestExperienceBarViewShowsCounter(t *testing.T) {
	view := NewExperienceBar("XP", 10, 150, 40).View()
	assert.Contains(t, view, "10/150")
	assert.Contains(t, view, "XP")
}

func TestTaskListSetTasksClampsSelection(t *testing.T) {
	l := TaskList{Selected: 5}
	l.SetTasks([]tasks.Task{{Name: "a"}, {Name: "b"}})
	assert.Equal(t, 1, l.Selected)

	l.SetTasks(nil)
	assert.Equal(t, 0, l.Selected)
}

func TestTaskListViewScrollsToSelection(t *testing.T) {
	var ts []tasks.Task
	for _, n := range []string{"one", "two", "three", "four", "five"} {
		ts = append(ts, tasks.Task{Name: n})
	}
	l := TaskList{Tasks: ts, Selected: 4}

	view := l.View(80, 2)
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, view, "five")
	assert.NotContains(t, view, "one")
}

func TestTaskListViewTags(t *testing.T) {
	due := tasks.Date{Year: 2030, Month: 5, Day: 1}
	l := TaskList{Tasks: []tasks.Task{
		{Name: "water plants", Recurring: true, Completed: true},
		{Name: "taxes", DueDate: &due},
	}}

	view := l.View(80, 10)
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "daily")
	assert.Contains(t, view, "due 2030-05-01")
}

func TestTaskListEmpty(t *testing.T) {
	assert.Contains(t, TaskList{}.View(80, 5), "No tasks yet")
}

func TestMenuNavigationAndHotkeys(t *testing.T) {
	picked := ""
	item := func(label, key string) MenuItem {
		return MenuItem{Label: label, Key: key, Action: func() tea.Cmd {
			picked = label
			return nil
		}}
	}
	m := NewMenu([]MenuItem{item("Yes", "y"), item("No", "n")})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, m.Selected)
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, m.Selected, "stays on the last item")

	m, _ = m.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	assert.Equal(t, 0, m.Selected)
	assert.Equal(t, "Yes", picked)

	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "Yes", picked)
	assert.Contains(t, m.View(), "No")
}

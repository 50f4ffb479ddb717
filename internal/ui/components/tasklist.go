package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/todomon/internal/tasks"
	"github.com/abhisek/todomon/internal/ui/theme"
)

// TaskList is a selectable list of tasks. Selection is by index, matching
// the registry's task identity.
type TaskList struct {
	Tasks    []tasks.Task
	Selected int
}

// SetTasks replaces the tasks, keeping the selection in range.
func (l *TaskList) SetTasks(ts []tasks.Task) {
	l.Tasks = ts
	if l.Selected >= len(ts) {
		l.Selected = len(ts) - 1
	}
	if l.Selected < 0 {
		l.Selected = 0
	}
}

// Update moves the selection.
func (l TaskList) Update(msg tea.Msg) TaskList {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l
	}
	switch kmsg.String() {
	case "up", "k":
		if l.Selected > 0 {
			l.Selected--
		}
	case "down", "j":
		if l.Selected < len(l.Tasks)-1 {
			l.Selected++
		}
	}
	return l
}

// View renders at most height rows, scrolling to keep the selection visible.
func (l TaskList) View(width, height int) string {
	if len(l.Tasks) == 0 {
		return theme.Hint.Render("  No tasks yet. Press a to add one.")
	}
	if height < 1 {
		height = 1
	}

	start := 0
	if l.Selected >= height {
		start = l.Selected - height + 1
	}
	end := min(start+height, len(l.Tasks))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.row(i, width))
	}
	return strings.Join(lines, "\n")
}

func (l TaskList) row(i, width int) string {
	t := l.Tasks[i]

	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	cursor := "  "
	if i == l.Selected {
		cursor = "▸ "
	}

	name := t.Name
	if limit := width - 24; limit > 8 && len([]rune(name)) > limit {
		name = string([]rune(name)[:limit-1]) + "…"
	}

	var tags []string
	if t.Recurring {
		tags = append(tags, "daily")
	}
	if t.DueDate != nil {
		tags = append(tags, "due "+t.DueDate.String())
	}

	style := theme.Unselected
	switch {
	case i == l.Selected:
		style = theme.Selected
	case t.Completed:
		style = theme.Done
	}

	line := style.Render(fmt.Sprintf("%s%d. %s %s", cursor, i+1, box, name))
	if len(tags) > 0 {
		line += "  " + theme.Tag.Render(strings.Join(tags, ", "))
	}
	return line
}

package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/todomon/internal/ui/theme"
)

// MenuItem is one choice. Key, when set, selects and triggers the item
// directly.
type MenuItem struct {
	Label  string
	Key    string
	Action func() tea.Cmd
}

// Menu is a vertical list of choices navigated with the arrow keys.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch k := key.String(); k {
	case "up", "k":
		m.Selected = max(m.Selected-1, 0)
	case "down", "j":
		m.Selected = min(m.Selected+1, len(m.Items)-1)
	case "enter":
		return m, m.trigger()
	default:
		for i, item := range m.Items {
			if item.Key != "" && item.Key == k {
				m.Selected = i
				return m, m.trigger()
			}
		}
	}
	return m, nil
}

func (m Menu) trigger() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	if action := m.Items[m.Selected].Action; action != nil {
		return action()
	}
	return nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		label := item.Label
		if item.Key != "" {
			label += theme.Hint.Render(" (" + item.Key + ")")
		}
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("  ▸ " + label))
		} else {
			b.WriteString(theme.Unselected.Render("    " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Package layout renders the frame shared by every screen: a header bar with
// the app name, screen title and status, the screen body, and a footer of key
// hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/todomon/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

var (
	barStyle = lipgloss.NewStyle().
			Background(theme.BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1)

	brandStyle  = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(theme.Text)
	statusStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	keyStyle    = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(theme.TextDim)
)

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Your partner needs more room!\n\nResize to at least %d x %d\n(now %d x %d)",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		titleStyle.Align(lipgloss.Center).Render(msg))
}

// RenderHeader lays out the brand on the left, the title centred and the
// status on the right. The status wins over the title when space runs out.
func RenderHeader(title, status string, width int) string {
	inner := max(width-barStyle.GetHorizontalFrameSize(), 0)

	left := brandStyle.Render("Todomon")
	right := statusStyle.Render(status)
	middle := titleStyle.Render(title)

	free := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if lipgloss.Width(middle)+2 > free {
		middle = ""
	}
	middle = lipgloss.PlaceHorizontal(max(free, 0), lipgloss.Center, middle)

	return barStyle.Width(width).Render(left + middle + right)
}

func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
	}
	return barStyle.Width(width).Render(strings.Join(parts, "   "))
}

// RenderFrame stacks header, body and footer, padding the body so the footer
// sits on the last rows.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content),
		footer,
	)
}

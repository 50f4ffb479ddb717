package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/todomon/internal/ui/theme"
)

// ExperienceBar shows progress toward the next evolution.
type ExperienceBar struct {
	Label     string
	Current   int
	Threshold int
	Width     int
}

// NewExperienceBar creates an experience bar.
func NewExperienceBar(label string, current, threshold, width int) ExperienceBar {
	return ExperienceBar{
		Label:     label,
		Current:   current,
		Threshold: threshold,
		Width:     width,
	}
}

// Fraction returns the filled share of the bar in [0, 1].
func (p ExperienceBar) Fraction() float64 {
	if p.Threshold <= 0 {
		return 0
	}
	f := float64(p.Current) / float64(p.Threshold)
	return min(max(f, 0), 1)
}

// View renders the bar followed by "current/threshold".
func (p ExperienceBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	counter := fmt.Sprintf("  %d/%d", p.Current, p.Threshold)
	barWidth := p.Width - lipgloss.Width(result) - len(counter)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction())
	empty := barWidth - filled

	result += lipgloss.NewStyle().
		Background(theme.Secondary).
		Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))
	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(counter)

	return result
}

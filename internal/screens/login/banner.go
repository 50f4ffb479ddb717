package login

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/todomon/internal/ui/theme"
)

const bannerArt = `
 ████████╗ ██████╗ ██████╗  ██████╗ ███╗   ███╗ ██████╗ ███╗   ██╗
 ╚══██╔══╝██╔═══██╗██╔══██╗██╔═══██╗████╗ ████║██╔═══██╗████╗  ██║
    ██║   ██║   ██║██║  ██║██║   ██║██╔████╔██║██║   ██║██╔██╗ ██║
    ██║   ██║   ██║██║  ██║██║   ██║██║╚██╔╝██║██║   ██║██║╚██╗██║
    ██║   ╚██████╔╝██████╔╝╚██████╔╝██║ ╚═╝ ██║╚██████╔╝██║ ╚████║
    ╚═╝    ╚═════╝ ╚═════╝  ╚═════╝ ╚═╝     ╚═╝ ╚═════╝ ╚═╝  ╚═══╝`

const bannerCompact = "T O D O M O N"

// RenderBanner returns the banner in the primary color, or a compact
// version for terminals narrower than 70 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 70 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

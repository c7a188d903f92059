package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/bloomify/bloomify/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██╗      ██████╗  ██████╗ ███╗   ███╗██╗███████╗██╗   ██╗
 ██╔══██╗██║     ██╔═══██╗██╔═══██╗████╗ ████║██║██╔════╝╚██╗ ██╔╝
 ██████╔╝██║     ██║   ██║██║   ██║██╔████╔██║██║█████╗   ╚████╔╝
 ██╔══██╗██║     ██║   ██║██║   ██║██║╚██╔╝██║██║██╔══╝    ╚██╔╝
 ██████╔╝███████╗╚██████╔╝╚██████╔╝██║ ╚═╝ ██║██║██║        ██║
 ╚═════╝ ╚══════╝ ╚═════╝  ╚═════╝ ╚═╝     ╚═╝╚═╝╚═╝        ╚═╝`

const bannerCompact = "B L O O M I F Y"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 70

// RenderBanner returns the BLOOMIFY banner styled in the primary color.
// Uses a compact fallback for narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

package welcome

import (
	"github.com/abhisek/devtutor/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ███████╗██╗   ██╗████████╗██╗   ██╗████████╗ ██████╗ ██████╗
 ██╔══██╗██╔════╝██║   ██║╚══██╔══╝██║   ██║╚══██╔══╝██╔═══██╗██╔══██╗
 ██║  ██║█████╗  ██║   ██║   ██║   ██║   ██║   ██║   ██║   ██║██████╔╝
 ██║  ██║██╔══╝  ╚██╗ ██╔╝   ██║   ██║   ██║   ██║   ██║   ██║██╔══██╗
 ██████╔╝███████╗ ╚████╔╝    ██║   ╚██████╔╝   ██║   ╚██████╔╝██║  ██║
 ╚═════╝ ╚══════╝  ╚═══╝     ╚═╝    ╚═════╝    ╚═╝    ╚═════╝ ╚═╝  ╚═╝`

const bannerCompact = "D E V T U T O R"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 74

// RenderBanner returns the banner in the primary color, or a compact
// one-liner on narrow terminals.
func RenderBanner(th *theme.Theme, width int) string {
	style := th.Title()
	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

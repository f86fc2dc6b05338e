package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/devtutor/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar. percent is in [0, 1].
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View(th *theme.Theme) string {
	pal := th.Palette()
	var result string

	if p.Label != "" {
		result += th.Body().Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	result += lipgloss.NewStyle().Background(pal.Secondary).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(pal.Border).Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += th.Dim().Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}

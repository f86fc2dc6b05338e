package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/devtutor/internal/ui/theme"
)

// ContentWidth returns the uniform inner width for cards on a screen.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded card at the given content width.
func Card(th *theme.Theme, content string, cw int) string {
	return th.Card().
		Width(cw - 2).
		Render(content)
}

// Center places content in the middle of a width x height box.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

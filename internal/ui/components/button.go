package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/devtutor/internal/ui/theme"
)

// ButtonRow is a horizontal group of buttons navigated with left/right.
type ButtonRow struct {
	Labels   []string
	Selected int
}

// NewButtonRow creates a row with the first button selected.
func NewButtonRow(labels ...string) ButtonRow {
	return ButtonRow{Labels: labels}
}

// Update moves the selection. It reports the pressed index on enter,
// or -1 when nothing was pressed.
func (b ButtonRow) Update(msg tea.Msg) (ButtonRow, int) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(b.Labels) == 0 {
		return b, -1
	}

	switch kmsg.String() {
	case "left", "h", "shift+tab":
		if b.Selected > 0 {
			b.Selected--
		}
	case "right", "l", "tab":
		if b.Selected < len(b.Labels)-1 {
			b.Selected++
		}
	case "enter":
		return b, b.Selected
	}
	return b, -1
}

// View renders the row.
func (b ButtonRow) View(th *theme.Theme) string {
	parts := make([]string, len(b.Labels))
	for i, label := range b.Labels {
		if i == b.Selected {
			parts[i] = th.ButtonActive().Render("▸ " + label)
		} else {
			parts[i] = th.ButtonInactive().Render(label)
		}
	}
	return strings.Join(parts, "  ")
}

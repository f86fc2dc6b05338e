package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/devtutor/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D"}

// MultiChoice is a multiple-choice selector. Answers can be picked with
// the arrows and enter, or directly with a-d / 1-4.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.choose(m.Selected)
	default:
		if i := directIndex(key); i >= 0 && i < len(m.Options) {
			m.Selected = i
			m.choose(i)
		}
	}

	return m, nil
}

func (m *MultiChoice) choose(i int) {
	m.Submitted = true
	m.ChosenIndex = i
}

// directIndex maps a-d and 1-4 to an option index, or -1.
func directIndex(key string) int {
	if len(key) != 1 {
		return -1
	}
	switch c := key[0]; {
	case c >= 'a' && c <= 'd':
		return int(c - 'a')
	case c >= '1' && c <= '4':
		return int(c - '1')
	}
	return -1
}

// View renders the question and its options.
func (m MultiChoice) View(th *theme.Theme) string {
	var b strings.Builder
	b.WriteString(th.Body().Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		label := fmt.Sprint(i + 1)
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		switch {
		case m.Submitted && i == m.CorrectIndex:
			b.WriteString(th.Correct().Render(line + "  ✓"))
		case m.Submitted && i == m.ChosenIndex:
			b.WriteString(th.Incorrect().Render(line + "  ✗"))
		case m.Submitted:
			b.WriteString(th.Dim().Render(line))
		case i == m.Selected:
			b.WriteString(th.Selected().Render(line))
		default:
			b.WriteString(th.Unselected().Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// IsCorrect returns true if the user chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}

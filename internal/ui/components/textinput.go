package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/devtutor/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and an error line.
type TextInput struct {
	Model textinput.Model
	Label string
	Err   string
}

// NewTextInput creates a new text input. A positive limit caps the length.
func NewTextInput(label, placeholder string, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{Model: ti, Label: label}
}

// NewSecretInput creates an input that masks what is typed.
func NewSecretInput(label, placeholder string) TextInput {
	t := NewTextInput(label, placeholder, 0)
	t.Model.EchoMode = textinput.EchoPassword
	t.Model.EchoCharacter = '•'
	return t
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

func (t *TextInput) Blur() {
	t.Model.Blur()
}

func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update forwards messages to the wrapped model.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label, the input and any error.
func (t TextInput) View(th *theme.Theme) string {
	var s string
	if t.Label != "" {
		s = th.Subtitle().Render(t.Label) + "\n"
	}
	s += t.Model.View()
	if t.Err != "" {
		s += "\n" + th.Incorrect().Render(t.Err)
	}
	return s
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// Reset clears the value and the error.
func (t *TextInput) Reset() {
	t.Model.Reset()
	t.Err = ""
}

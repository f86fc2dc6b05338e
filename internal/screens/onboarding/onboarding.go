// Package onboarding asks a new learner for their name and email before the
// first session.
package onboarding

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/devtutor/internal/learner"
	"github.com/abhisek/devtutor/internal/router"
	"github.com/abhisek/devtutor/internal/screen"
	"github.com/abhisek/devtutor/internal/ui/components"
	"github.com/abhisek/devtutor/internal/ui/layout"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

const (
	fieldName = iota
	fieldEmail
)

// CompletedMsg is emitted once the profile has been saved.
type CompletedMsg struct {
	Profile learner.Profile
}

type savedMsg struct {
	profile learner.Profile
	err     error
}

// Screen is the onboarding form.
type Screen struct {
	theme  *theme.Theme
	repo   *learner.Repo
	next   func(learner.Profile) screen.Screen
	inputs [2]components.TextInput
	focus  int
	saving bool
	err    string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the form. next builds the screen shown after saving.
func New(th *theme.Theme, repo *learner.Repo, next func(learner.Profile) screen.Screen) *Screen {
	s := &Screen{
		theme: th,
		repo:  repo,
		next:  next,
	}
	s.inputs[fieldName] = components.NewTextInput("Seu Nome:", "Digite seu nome", 60)
	s.inputs[fieldEmail] = components.NewTextInput("Seu Email:", "Digite seu email", 120)
	return s
}

func (s *Screen) Init() tea.Cmd {
	return s.inputs[fieldName].Focus()
}

func (s *Screen) Title() string {
	return "Bem-vindo"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Próximo campo"},
		{Key: "Enter", Description: "Começar"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saving = false
		if msg.err != nil {
			s.err = "Não foi possível salvar seus dados. Tente novamente."
			return s, nil
		}
		profile := msg.profile
		next := s.next(profile)
		return s, tea.Batch(
			func() tea.Msg { return CompletedMsg{Profile: profile} },
			func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
		)

	case tea.KeyMsg:
		if s.saving {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % len(s.inputs))
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + len(s.inputs) - 1) % len(s.inputs))
		case "enter":
			if s.focus == fieldName {
				return s, s.setFocus(fieldEmail)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	if s.focus == fieldName {
		// Characters a name may not contain never reach the field.
		if v := s.inputs[fieldName].Value(); learner.SanitizeName(v) != v {
			s.inputs[fieldName].SetValue(learner.SanitizeName(v))
		}
	}
	return s, cmd
}

func (s *Screen) setFocus(i int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = i
	return s.inputs[i].Focus()
}

// submit validates both fields and saves the profile. Missing values are
// reported before malformed ones.
func (s *Screen) submit() tea.Cmd {
	name := strings.TrimSpace(s.inputs[fieldName].Value())
	email := strings.TrimSpace(s.inputs[fieldEmail].Value())

	for i := range s.inputs {
		s.inputs[i].Err = ""
	}
	s.err = ""

	if err := firstError(name, email); err != nil {
		var verr *learner.ValidationError
		if errors.As(err, &verr) {
			field := fieldName
			if verr.Field == "email" {
				field = fieldEmail
			}
			s.inputs[field].Err = verr.Message
			return s.setFocus(field)
		}
		s.err = err.Error()
		return nil
	}

	profile, err := learner.NewProfile(name, email)
	if err != nil {
		s.err = err.Error()
		return nil
	}

	s.saving = true
	repo := s.repo
	return func() tea.Msg {
		return savedMsg{profile: profile, err: repo.Save(context.Background(), profile)}
	}
}

func firstError(name, email string) error {
	if name == "" {
		return learner.ValidateName(name)
	}
	if email == "" {
		return learner.ValidateEmail(email)
	}
	if err := learner.ValidateName(name); err != nil {
		return err
	}
	return learner.ValidateEmail(email)
}

func (s *Screen) View(width, height int) string {
	th := s.theme
	cw := components.ContentWidth(width)

	parts := []string{
		th.Title().Render("Bem-vindo ao Tutor Web!"),
		"",
		layout.Wrap(th.Subtitle().Render(
			"Antes de começarmos sua jornada de aprendizado em HTML e CSS, por favor, nos diga um pouco sobre você."), cw-4),
		"",
		s.inputs[fieldName].View(th),
		"",
		s.inputs[fieldEmail].View(th),
		"",
	}
	switch {
	case s.saving:
		parts = append(parts, th.Hint().Render("Salvando..."))
	case s.err != "":
		parts = append(parts, th.Incorrect().Render(s.err))
	default:
		parts = append(parts, th.ButtonActive().Render("Começar"))
	}

	return components.Center(components.Card(th, strings.Join(parts, "\n"), cw), width, height)
}

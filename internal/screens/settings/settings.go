// Package settings manages the generation API key and the color theme.
package settings

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/devtutor/internal/credential"
	qz "github.com/abhisek/devtutor/internal/quiz"
	"github.com/abhisek/devtutor/internal/screen"
	"github.com/abhisek/devtutor/internal/ui/components"
	"github.com/abhisek/devtutor/internal/ui/layout"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

// keySource says where the active key came from.
type keySource int

const (
	keyNone keySource = iota
	keySaved
	keyEnv
)

type keyInfoMsg struct {
	masked string
	source keySource
	err    error
}

type resultMsg struct {
	text string
	ok   bool
}

// SettingsScreen lets the learner save, test and clear the API key and
// switch between light and dark themes.
type SettingsScreen struct {
	theme    *theme.Theme
	prefs    *theme.Prefs
	creds    *credential.Store
	keys     credential.Source
	resolver *qz.Resolver

	menu    components.Menu
	input   components.TextInput
	editing bool
	spinner spinner.Model
	busy    bool

	masked   string
	source   keySource
	status   string
	statusOK bool
}

var (
	_ screen.Screen         = (*SettingsScreen)(nil)
	_ screen.EscapeCapturer = (*SettingsScreen)(nil)
)

// New creates the settings screen. keys resolves the active key, which may
// come from the environment when nothing is saved in creds.
func New(th *theme.Theme, prefs *theme.Prefs, creds *credential.Store, keys credential.Source, resolver *qz.Resolver) *SettingsScreen {
	s := &SettingsScreen{
		theme:    th,
		prefs:    prefs,
		creds:    creds,
		keys:     keys,
		resolver: resolver,
		input:    components.NewSecretInput("Nova chave de API", "Cole sua chave do Gemini"),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(th.Subtitle()),
		),
	}
	s.menu = components.NewMenu(s.items())
	return s
}

func (s *SettingsScreen) items() []components.MenuItem {
	themeLabel := "Tema: Escuro"
	if !s.theme.IsDark() {
		themeLabel = "Tema: Claro"
	}
	return []components.MenuItem{
		{
			Label:  "Salvar nova chave",
			Action: s.startEditing,
		},
		{
			Label:    "Testar chave",
			Action:   s.testKey,
			Disabled: s.source == keyNone,
		},
		{
			Label:    "Remover chave salva",
			Action:   s.clearKey,
			Disabled: s.source != keySaved,
		},
		{
			Label:  themeLabel,
			Detail: "Alterna entre tema claro e escuro",
			Action: s.toggleTheme,
		},
	}
}

// refreshMenu rebuilds the items, keeping the cursor where it was.
func (s *SettingsScreen) refreshMenu() {
	selected := s.menu.Selected
	s.menu = components.NewMenu(s.items())
	if selected < len(s.menu.Items) && !s.menu.Items[selected].Disabled {
		s.menu.Selected = selected
	}
}

func (s *SettingsScreen) Init() tea.Cmd {
	return s.loadKeyInfo()
}

func (s *SettingsScreen) Title() string {
	return "Configurações"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Salvar"},
			{Key: "Esc", Description: "Cancelar"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Selecionar"},
		{Key: "Esc", Description: "Voltar"},
	}
}

func (s *SettingsScreen) loadKeyInfo() tea.Cmd {
	creds, keys := s.creds, s.keys
	return func() tea.Msg {
		ctx := context.Background()
		saved, ok, err := creds.Get(ctx)
		if err != nil {
			return keyInfoMsg{err: err}
		}
		if ok {
			return keyInfoMsg{masked: credential.Mask(saved), source: keySaved}
		}
		key, ok, err := keys.Get(ctx)
		if err != nil {
			return keyInfoMsg{err: err}
		}
		if ok {
			return keyInfoMsg{masked: credential.Mask(key), source: keyEnv}
		}
		return keyInfoMsg{source: keyNone}
	}
}

func (s *SettingsScreen) startEditing() tea.Cmd {
	s.editing = true
	s.input.Reset()
	return s.input.Focus()
}

func (s *SettingsScreen) stopEditing() {
	s.editing = false
	s.input.Blur()
	s.input.Reset()
}

func (s *SettingsScreen) run(fn func() tea.Msg) tea.Cmd {
	s.busy = true
	s.status = ""
	return tea.Batch(fn, s.spinner.Tick)
}

func (s *SettingsScreen) saveKey() tea.Cmd {
	key := strings.TrimSpace(s.input.Value())
	if key == "" {
		s.input.Err = "A chave não pode ficar vazia."
		return nil
	}
	s.stopEditing()
	creds := s.creds
	return s.run(func() tea.Msg {
		if err := creds.Set(context.Background(), key); err != nil {
			return resultMsg{text: "Não foi possível salvar a chave."}
		}
		return resultMsg{text: "Chave salva.", ok: true}
	})
}

func (s *SettingsScreen) testKey() tea.Cmd {
	keys, resolver := s.keys, s.resolver
	return s.run(func() tea.Msg {
		ctx := context.Background()
		key, _, err := keys.Get(ctx)
		if err != nil {
			return resultMsg{text: "Não foi possível ler a chave."}
		}
		switch err := resolver.TestCredential(ctx, key); {
		case errors.Is(err, qz.ErrNoCredential):
			return resultMsg{text: "Nenhuma chave configurada."}
		case err != nil:
			return resultMsg{text: "A chave não funcionou: " + err.Error()}
		}
		return resultMsg{text: "Chave válida! Perguntas serão geradas por IA.", ok: true}
	})
}

func (s *SettingsScreen) clearKey() tea.Cmd {
	creds := s.creds
	return s.run(func() tea.Msg {
		if err := creds.Clear(context.Background()); err != nil {
			return resultMsg{text: "Não foi possível remover a chave."}
		}
		return resultMsg{text: "Chave removida.", ok: true}
	})
}

func (s *SettingsScreen) toggleTheme() tea.Cmd {
	name := s.theme.Toggle()
	s.refreshMenu()
	prefs := s.prefs
	return func() tea.Msg {
		if err := prefs.Save(context.Background(), name); err != nil {
			return resultMsg{text: "Tema alterado, mas não foi possível salvá-lo."}
		}
		return resultMsg{text: "Tema alterado.", ok: true}
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case keyInfoMsg:
		if msg.err != nil {
			s.status, s.statusOK = "Não foi possível ler a chave.", false
			return s, nil
		}
		s.masked, s.source = msg.masked, msg.source
		s.refreshMenu()
		return s, nil

	case resultMsg:
		s.busy = false
		s.status, s.statusOK = msg.text, msg.ok
		return s, s.loadKeyInfo()

	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	if s.editing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SettingsScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.busy {
		return nil
	}
	if s.editing {
		switch msg.String() {
		case "enter":
			return s.saveKey()
		case "esc":
			s.stopEditing()
			return nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return cmd
}

// CapturesEscape reports whether the key input has focus, so esc cancels
// the edit instead of leaving the screen.
func (s *SettingsScreen) CapturesEscape() bool {
	return s.editing
}

func (s *SettingsScreen) View(width, height int) string {
	th := s.theme
	cw := components.ContentWidth(width)

	var key string
	switch s.source {
	case keySaved:
		key = th.Correct().Render("● Chave salva: " + s.masked)
	case keyEnv:
		key = th.Correct().Render("● Chave do ambiente: " + s.masked)
	default:
		key = th.Warning().Render("○ Nenhuma chave configurada. As perguntas virão do conteúdo offline.")
	}

	body := []string{
		th.Subtitle().Render("Chave de API do Gemini"),
		layout.Wrap(key, cw-4),
		"",
	}
	if s.editing {
		body = append(body, s.input.View(th))
	} else {
		body = append(body, s.menu.View(th))
	}

	sections := []string{
		th.Title().Render("Configurações"),
		components.Card(th, strings.Join(body, "\n"), cw),
	}
	switch {
	case s.busy:
		sections = append(sections, s.spinner.View()+th.Hint().Render(" aguarde..."))
	case s.status != "" && s.statusOK:
		sections = append(sections, th.Correct().Render(s.status))
	case s.status != "":
		sections = append(sections, th.Incorrect().Render(layout.Wrap(s.status, cw)))
	}

	return components.Center(strings.Join(sections, "\n\n"), width, height)
}

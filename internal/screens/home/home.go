// Package home is the main menu shown once the learner is onboarded.
package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/devtutor/internal/credential"
	"github.com/abhisek/devtutor/internal/learner"
	qz "github.com/abhisek/devtutor/internal/quiz"
	"github.com/abhisek/devtutor/internal/router"
	"github.com/abhisek/devtutor/internal/screen"
	"github.com/abhisek/devtutor/internal/screens/catalog"
	"github.com/abhisek/devtutor/internal/screens/learnpath"
	"github.com/abhisek/devtutor/internal/screens/settings"
	"github.com/abhisek/devtutor/internal/tutor"
	"github.com/abhisek/devtutor/internal/ui/components"
	"github.com/abhisek/devtutor/internal/ui/layout"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

// Deps are the services reachable from the home menu.
type Deps struct {
	Theme       *theme.Theme
	ThemePrefs  *theme.Prefs
	Credentials *credential.Store
	Keys        credential.Source
	Resolver    *qz.Resolver
	Cache       qz.Cache
	Tutor       *tutor.Service
}

type summaryMsg struct {
	summary summary
	err     error
}

// HomeScreen is the main menu with a progress summary.
type HomeScreen struct {
	deps    Deps
	profile learner.Profile
	menu    components.Menu
	summary summary
	loaded  bool
}

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ screen.Resumer = (*HomeScreen)(nil)
)

// New creates the home screen for profile.
func New(deps Deps, profile learner.Profile) *HomeScreen {
	h := &HomeScreen{deps: deps, profile: profile}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{
			Label:  "Quiz por tópico",
			Detail: "Teste seus conhecimentos com perguntas de múltipla escolha",
			Action: push(func() screen.Screen {
				return catalog.New(deps.Theme, deps.Resolver, deps.Cache)
			}),
		},
		{
			Label:  "Trilha de Aprendizado",
			Detail: "Converse com o tutor tópico a tópico",
			Action: push(func() screen.Screen {
				return learnpath.New(deps.Theme, deps.Tutor)
			}),
		},
		{
			Label:  "Configurações",
			Detail: "Chave de API e tema",
			Action: push(func() screen.Screen {
				return settings.New(deps.Theme, deps.ThemePrefs, deps.Credentials, deps.Keys, deps.Resolver)
			}),
		},
		{
			Label:  "Sair",
			Action: func() tea.Cmd { return tea.Quit },
		},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadSummary()
}

// Resume reloads the summary after a quiz, chat or settings change.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadSummary()
}

func (h *HomeScreen) loadSummary() tea.Cmd {
	tutorSvc, keys := h.deps.Tutor, h.deps.Keys
	return func() tea.Msg {
		s, err := loadSummary(context.Background(), tutorSvc, keys)
		return summaryMsg{summary: s, err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Início"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Selecionar"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(summaryMsg); ok {
		// A failed load keeps the previous summary on screen.
		if msg.err == nil {
			h.summary = msg.summary
			h.loaded = true
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	th := h.deps.Theme
	cw := components.ContentWidth(width)

	greeting := "Olá!"
	if name := h.profile.FirstName(); name != "" {
		greeting = "Olá, " + name + "!"
	}

	sections := []string{
		th.Title().Render(greeting),
		th.Subtitle().Render("O que vamos aprender hoje?"),
	}
	if h.loaded {
		sections = append(sections, renderSummary(th, h.summary, cw))
	}
	sections = append(sections, components.Card(th, h.menu.View(th), cw))

	return components.Center(strings.Join(sections, "\n\n"), width, height)
}

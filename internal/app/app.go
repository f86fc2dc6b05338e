package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/devtutor/internal/learner"
	"github.com/abhisek/devtutor/internal/quiz"
	"github.com/abhisek/devtutor/internal/router"
	"github.com/abhisek/devtutor/internal/screen"
	"github.com/abhisek/devtutor/internal/screens/home"
	"github.com/abhisek/devtutor/internal/screens/onboarding"
	"github.com/abhisek/devtutor/internal/screens/welcome"
	"github.com/abhisek/devtutor/internal/ui/layout"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	theme   *theme.Theme
	learner string
	width   int
	height  int
}

// newAppModel creates an AppModel showing first.
func newAppModel(th *theme.Theme, first screen.Screen, learnerName string) AppModel {
	return AppModel{
		router:  router.New(first),
		theme:   th,
		learner: learnerName,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case onboarding.CompletedMsg:
		m.learner = msg.Profile.FirstName()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.EscapeCapturer); ok && c.CapturesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Voltar"},
			{Key: "Ctrl+C", Description: "Sair"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Selecionar"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.theme, m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(m.theme, title, m.learner, m.width)
	footer := layout.RenderFooter(m.theme, m.footerHints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program on top of svc. New learners go through
// onboarding after the welcome animation; returning learners go straight to
// the home menu.
func Run(svc *Services) error {
	ctx := context.Background()
	log := svc.Logger

	name, err := svc.ThemePrefs.Load(ctx, theme.Dark)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load theme preference")
	}
	th := theme.New(name)

	profile, onboarded, err := svc.Learner.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load learner profile")
	}

	cache, closeCache, err := svc.QuestionCache(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("shared question cache unavailable, using in-memory cache")
		cache, closeCache = nil, func() error { return nil }
	}
	defer closeCache()
	if cache == nil {
		cache = quiz.NewMemoryCache(svc.Config.Quiz.CacheTTL)
	}

	deps := home.Deps{
		Theme:       th,
		ThemePrefs:  svc.ThemePrefs,
		Credentials: svc.Credentials,
		Keys:        svc.Keys,
		Resolver:    svc.Resolver,
		Cache:       cache,
		Tutor:       svc.Tutor,
	}
	toHome := func(p learner.Profile) screen.Screen { return home.New(deps, p) }

	next := func() screen.Screen {
		if onboarded {
			return toHome(profile)
		}
		return onboarding.New(th, svc.Learner, toHome)
	}

	p := tea.NewProgram(newAppModel(th, welcome.New(th, next), profile.FirstName()))
	_, err = p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

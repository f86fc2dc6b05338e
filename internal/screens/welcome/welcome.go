package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/devtutor/internal/router"
	"github.com/abhisek/devtutor/internal/screen"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const logoArt = `╭─────────────╮
│  </>   { }  │
│   ▁▂▃▄▅▆▇   │
╰─────────────╯`

var cursorFrames = []string{"▌", " "}

type tickMsg time.Time

// WelcomeScreen shows a short splash, then hands over to the screen built
// by next on the first key press.
type WelcomeScreen struct {
	theme        *theme.Theme
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with next().
func New(th *theme.Theme, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{theme: th, next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	th := w.theme
	logo := th.Title().Render(logoArt)

	// Blinking cursor after the logo once the first phase is over.
	if w.elapsed >= phase1End {
		cursor := lipgloss.NewStyle().
			Foreground(th.Palette().Secondary).
			Render(cursorFrames[w.tickCount%len(cursorFrames)])
		lines := strings.Split(logo, "\n")
		if len(lines) > 2 {
			lines[2] += " " + cursor
		}
		logo = strings.Join(lines, "\n")
	}

	sections := []string{logo}

	if w.elapsed >= phase2End {
		sections = append(sections,
			"",
			RenderBanner(th, width),
			"",
			th.Body().Bold(true).Render("Comece sua jornada"),
			th.Subtitle().Render("Escolha um tópico para começar a aprender"),
			"",
			th.Hint().Render("pressione qualquer tecla para continuar"),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

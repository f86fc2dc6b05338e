// Package catalog lists the quiz topics.
package catalog

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/devtutor/internal/quiz"
	"github.com/abhisek/devtutor/internal/router"
	"github.com/abhisek/devtutor/internal/screen"
	"github.com/abhisek/devtutor/internal/screens/quiz"
	"github.com/abhisek/devtutor/internal/topics"
	"github.com/abhisek/devtutor/internal/ui/components"
	"github.com/abhisek/devtutor/internal/ui/layout"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

// CatalogScreen shows every topic and opens a quiz for the chosen one.
type CatalogScreen struct {
	theme    *theme.Theme
	resolver *qz.Resolver
	cache    qz.Cache
	topics   []topics.Topic
	selected int
}

var _ screen.Screen = (*CatalogScreen)(nil)

func New(th *theme.Theme, resolver *qz.Resolver, cache qz.Cache) *CatalogScreen {
	return &CatalogScreen{
		theme:    th,
		resolver: resolver,
		cache:    cache,
		topics:   topics.All(),
	}
}

func (c *CatalogScreen) Init() tea.Cmd { return nil }

func (c *CatalogScreen) Title() string { return "Tópicos" }

func (c *CatalogScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Iniciar quiz"},
		{Key: "Esc", Description: "Voltar"},
	}
}

func (c *CatalogScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.selected > 0 {
			c.selected--
		}
	case "down", "j":
		if c.selected < len(c.topics)-1 {
			c.selected++
		}
	case "enter":
		t := c.topics[c.selected]
		next := quiz.New(c.theme, c.resolver, c.cache, t)
		return c, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
	return c, nil
}

func (c *CatalogScreen) View(width, height int) string {
	th := c.theme
	cw := components.ContentWidth(width)
	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)

	cards := make([]string, 0, len(c.topics)+1)
	cards = append(cards, th.Title().Render("Escolha um tópico para começar a aprender"))

	for i, t := range c.topics {
		accent := lipgloss.Color(t.Color)
		glyph := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(fmt.Sprintf("%-3s", topics.Glyph(t.Icon)))

		name := th.Unselected().Bold(true).Render(t.Name)
		if i == c.selected {
			name = th.Selected().Render("▸ " + t.Name)
		}
		head := glyph + "  " + name + "  " + th.Dim().Render(topics.DifficultyLabel(t.Difficulty))

		body := head
		if !compact || i == c.selected {
			body += "\n" + layout.Wrap(th.Subtitle().Render(t.Description), cw-6)
		}

		style := th.Card()
		if i == c.selected {
			style = th.AccentCard(accent)
		}
		cards = append(cards, style.Width(cw-2).Render(body))
	}

	return components.Center(strings.Join(cards, "\n"), width, height)
}

// Package learnpath shows the guided learning path and opens the tutor
// chat for a stop on it.
package learnpath

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/devtutor/internal/router"
	"github.com/abhisek/devtutor/internal/screen"
	"github.com/abhisek/devtutor/internal/screens/chat"
	"github.com/abhisek/devtutor/internal/topics"
	"github.com/abhisek/devtutor/internal/tutor"
	"github.com/abhisek/devtutor/internal/ui/components"
	"github.com/abhisek/devtutor/internal/ui/layout"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

type statsMsg struct {
	stats map[string]tutor.TopicStats
	err   error
}

// PathScreen lists the path topics with per-topic chat progress.
type PathScreen struct {
	theme    *theme.Theme
	tutor    *tutor.Service
	path     []topics.PathTopic
	stats    map[string]tutor.TopicStats
	selected int
}

var (
	_ screen.Screen  = (*PathScreen)(nil)
	_ screen.Resumer = (*PathScreen)(nil)
)

func New(th *theme.Theme, svc *tutor.Service) *PathScreen {
	p := &PathScreen{
		theme: th,
		tutor: svc,
		path:  topics.Path(),
	}
	for i, t := range p.path {
		if t.ID == topics.DefaultPathTopic {
			p.selected = i
		}
	}
	return p
}

func (p *PathScreen) Init() tea.Cmd { return p.loadStats() }

func (p *PathScreen) Resume() tea.Cmd { return p.loadStats() }

func (p *PathScreen) loadStats() tea.Cmd {
	svc := p.tutor
	return func() tea.Msg {
		list, err := svc.Stats(context.Background())
		if err != nil {
			return statsMsg{err: err}
		}
		m := make(map[string]tutor.TopicStats, len(list))
		for _, s := range list {
			m[s.Topic] = s
		}
		return statsMsg{stats: m}
	}
}

func (p *PathScreen) Title() string { return "Trilha de Aprendizado" }

func (p *PathScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Conversar com o tutor"},
		{Key: "Esc", Description: "Voltar"},
	}
}

func (p *PathScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		if msg.err == nil {
			p.stats = msg.stats
		}
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if p.selected > 0 {
				p.selected--
			}
		case "down", "j":
			if p.selected < len(p.path)-1 {
				p.selected++
			}
		case "enter":
			next := chat.New(p.theme, p.tutor, p.path[p.selected])
			return p, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	}
	return p, nil
}

func (p *PathScreen) View(width, height int) string {
	th := p.theme
	cw := components.ContentWidth(width)

	rows := make([]string, 0, len(p.path))
	for i, t := range p.path {
		rows = append(rows, p.renderRow(t, i == p.selected, cw))
	}

	sel := p.path[p.selected]
	detail := []string{
		th.Body().Bold(true).Render(sel.Name),
		layout.Wrap(th.Subtitle().Render(sel.Description), cw-4),
	}
	if pre := topics.Prerequisites(sel.ID); len(pre) > 0 {
		detail = append(detail, th.Hint().Render("Requer: "+pre[0].Name))
	}
	if next := topics.Dependents(sel.ID); len(next) > 0 {
		names := make([]string, len(next))
		for i, n := range next {
			names[i] = n.Name
		}
		detail = append(detail, th.Hint().Render("Libera: "+strings.Join(names, ", ")))
	}

	content := strings.Join([]string{
		th.Title().Render("Trilha de Aprendizado"),
		components.Card(th, strings.Join(rows, "\n"), cw),
		components.Card(th, strings.Join(detail, "\n"), cw),
	}, "\n")
	return components.Center(content, width, height)
}

func (p *PathScreen) renderRow(t topics.PathTopic, selected bool, cw int) string {
	th := p.theme
	track := lipgloss.NewStyle().Foreground(th.TrackColor(string(t.Category))).Render(t.Category.Label())

	indent := strings.Repeat("  ", max(t.Level-1, 0))
	name := th.Unselected().Render(indent + "  " + topics.Glyph(t.Icon) + " " + t.Name)
	if selected {
		name = th.Selected().Render(indent + "▸ " + topics.Glyph(t.Icon) + " " + t.Name)
	}

	progress := ""
	if s, ok := p.stats[t.ID]; ok {
		progress = th.Dim().Render("conversa iniciada")
		if s.Attempted > 0 {
			progress = th.Correct().Render(fmt.Sprintf("%d/%d exercícios", s.Correct, s.Attempted))
		}
	}

	left := name + "  " + track
	gap := max(cw-4-lipgloss.Width(left)-lipgloss.Width(progress), 1)
	return left + strings.Repeat(" ", gap) + progress
}

package home

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/devtutor/internal/credential"
	"github.com/abhisek/devtutor/internal/tutor"
	"github.com/abhisek/devtutor/internal/ui/components"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

// summary is the progress shown above the menu.
type summary struct {
	TopicsStarted int
	Correct       int
	Attempted     int
	Online        bool
}

func (s summary) percent() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempted)
}

func loadSummary(ctx context.Context, svc *tutor.Service, keys credential.Source) (summary, error) {
	var s summary
	stats, err := svc.Stats(ctx)
	if err != nil {
		return s, err
	}
	for _, st := range stats {
		s.TopicsStarted++
		s.Correct += st.Correct
		s.Attempted += st.Attempted
	}
	_, ok, err := keys.Get(ctx)
	if err != nil {
		return s, err
	}
	s.Online = ok
	return s, nil
}

func renderSummary(th *theme.Theme, s summary, cw int) string {
	mode := th.Warning().Render("○ modo offline: perguntas de exemplo")
	if s.Online {
		mode = th.Correct().Render("● perguntas geradas por IA")
	}

	lines := []string{
		fmt.Sprintf("%s   %s",
			th.Body().Render(fmt.Sprintf("%d tópicos iniciados", s.TopicsStarted)),
			mode,
		),
	}
	if s.Attempted > 0 {
		label := fmt.Sprintf("Exercícios %d/%d", s.Correct, s.Attempted)
		lines = append(lines, components.NewProgressBar(label, s.percent(), true, cw-4).View(th))
	}
	return components.Card(th, strings.Join(lines, "\n"), cw)
}

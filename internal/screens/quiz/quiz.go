// Package quiz runs a multiple-choice quiz for one catalog topic.
package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/devtutor/internal/logging"
	qz "github.com/abhisek/devtutor/internal/quiz"
	"github.com/abhisek/devtutor/internal/screen"
	"github.com/abhisek/devtutor/internal/topics"
	"github.com/abhisek/devtutor/internal/ui/components"
	"github.com/abhisek/devtutor/internal/ui/layout"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

type loadedMsg struct {
	seq    int
	result qz.Result
}

// QuizScreen loads a question set and walks the learner through it.
type QuizScreen struct {
	theme    *theme.Theme
	resolver *qz.Resolver
	cache    qz.Cache
	topic    topics.Topic
	intn     func(n int) int

	request qz.Request
	loading bool
	seq     int // drops results of superseded loads
	spinner spinner.Model

	result  qz.Result
	current int
	choice  components.MultiChoice
	correct int
	done    bool
}

var _ screen.Screen = (*QuizScreen)(nil)

// New creates a quiz for topic with the default request.
func New(th *theme.Theme, resolver *qz.Resolver, cache qz.Cache, topic topics.Topic) *QuizScreen {
	return &QuizScreen{
		theme:    th,
		resolver: resolver,
		cache:    cache,
		topic:    topic,
		intn:     rand.IntN,
		request:  qz.Request{Topic: topic.Name}.WithDefaults(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(th.Title()),
		),
	}
}

func (q *QuizScreen) Init() tea.Cmd {
	return q.load(false)
}

func (q *QuizScreen) Title() string {
	return "Quiz: " + q.topic.Name
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case q.loading:
		return []layout.KeyHint{{Key: "Esc", Description: "Voltar"}}
	case q.done:
		return []layout.KeyHint{
			{Key: "r", Description: "Novas perguntas"},
			{Key: "Ctrl+R", Description: "Gerar de novo"},
			{Key: "Esc", Description: "Voltar"},
		}
	case q.choice.Submitted:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Próxima"},
			{Key: "Esc", Description: "Voltar"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "A-D", Description: "Responder"},
		{Key: "Tab", Description: "Categoria"},
		{Key: "Esc", Description: "Voltar"},
	}
}

// load starts resolving the current request. refresh bypasses the cache.
func (q *QuizScreen) load(refresh bool) tea.Cmd {
	q.loading = true
	q.seq++
	seq, req := q.seq, q.request
	resolver, cache := q.resolver, q.cache

	resolve := func() tea.Msg {
		ctx := logging.IntoContext(context.Background(), resolver.Logger())
		return loadedMsg{
			seq:    seq,
			result: qz.ResolveCached(ctx, resolver, cache, req, refresh),
		}
	}
	return tea.Batch(resolve, q.spinner.Tick)
}

// reloadRandom picks a random category and loads a fresh set.
func (q *QuizScreen) reloadRandom() tea.Cmd {
	cats := qz.Categories()
	q.request.Category = cats[q.intn(len(cats))]
	return q.load(false)
}

// nextCategory cycles through the categories in display order.
func (q *QuizScreen) nextCategory() tea.Cmd {
	cats := qz.Categories()
	for i, c := range cats {
		if c == q.request.Category {
			q.request.Category = cats[(i+1)%len(cats)]
			return q.load(false)
		}
	}
	q.request.Category = cats[0]
	return q.load(false)
}

func (q *QuizScreen) start(res qz.Result) {
	q.loading = false
	q.result = res
	q.current = 0
	q.correct = 0
	q.done = len(res.Questions) == 0
	if !q.done {
		q.showQuestion()
	}
}

func (q *QuizScreen) showQuestion() {
	question := q.result.Questions[q.current]
	q.choice = components.NewMultiChoice(question.Question, question.Options, question.CorrectAnswer)
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.seq == q.seq {
			q.start(msg.result)
		}
		return q, nil

	case spinner.TickMsg:
		if !q.loading {
			return q, nil
		}
		var cmd tea.Cmd
		q.spinner, cmd = q.spinner.Update(msg)
		return q, cmd

	case tea.KeyMsg:
		return q, q.handleKey(msg)
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if q.loading {
		return nil
	}

	switch msg.String() {
	case "r":
		return q.reloadRandom()
	case "ctrl+r":
		return q.load(true)
	case "tab":
		return q.nextCategory()
	}

	if q.done {
		return nil
	}

	if q.choice.Submitted {
		if msg.String() == "enter" || msg.String() == "n" {
			q.advance()
		}
		return nil
	}

	var cmd tea.Cmd
	q.choice, cmd = q.choice.Update(msg)
	if q.choice.Submitted && q.choice.IsCorrect() {
		q.correct++
	}
	return cmd
}

func (q *QuizScreen) advance() {
	if q.current+1 >= len(q.result.Questions) {
		q.done = true
		return
	}
	q.current++
	q.showQuestion()
}

func (q *QuizScreen) View(width, height int) string {
	th := q.theme
	cw := components.ContentWidth(width)

	if q.loading {
		msg := q.spinner.View() + " " + th.Body().Render("Gerando perguntas sobre "+q.topic.Name+"...")
		return components.Center(msg, width, height)
	}

	header := th.Subtitle().Render(fmt.Sprintf("Categoria: %s", q.request.Category)) +
		"   " + sourceBadge(th, q.result.Source)

	if q.done {
		return components.Center(header+"\n\n"+q.renderScore(cw), width, height)
	}

	total := len(q.result.Questions)
	progress := components.NewProgressBar(
		fmt.Sprintf("Pergunta %d de %d", q.current+1, total),
		float64(q.current)/float64(total), false, cw-4,
	).View(th)

	body := []string{progress, "", layout.Wrap(q.choice.View(th), cw-4)}
	if q.choice.Submitted {
		body = append(body, "", q.renderFeedback(cw))
	}

	return components.Center(header+"\n\n"+components.Card(th, strings.Join(body, "\n"), cw), width, height)
}

func (q *QuizScreen) renderFeedback(cw int) string {
	th := q.theme
	question := q.result.Questions[q.current]

	verdict := th.Incorrect().Render("✗ Resposta incorreta")
	if q.choice.IsCorrect() {
		verdict = th.Correct().Render("✓ Resposta correta!")
	}
	if question.Explanation == "" {
		return verdict
	}
	return verdict + "\n" + layout.Wrap(th.Subtitle().Render(question.Explanation), cw-4)
}

func (q *QuizScreen) renderScore(cw int) string {
	th := q.theme
	total := len(q.result.Questions)
	if total == 0 {
		return components.Card(th, th.Body().Render("Nenhuma pergunta disponível."), cw)
	}
	pct := float64(q.correct) / float64(total)
	lines := []string{
		th.Title().Render("Quiz concluído!"),
		"",
		th.Body().Render(fmt.Sprintf("Você acertou %d de %d perguntas.", q.correct, total)),
		components.NewProgressBar("", pct, true, cw-4).View(th),
		"",
		th.Hint().Render("r: novas perguntas   ctrl+r: gerar novamente   esc: voltar"),
	}
	return components.Card(th, strings.Join(lines, "\n"), cw)
}

func sourceBadge(th *theme.Theme, src qz.Source) string {
	switch src {
	case qz.SourceRemote:
		return th.Correct().Render("● Gerado por IA")
	case qz.SourceFallback:
		return th.Warning().Render("○ Perguntas de exemplo")
	default:
		return th.Incorrect().Render("○ Perguntas provisórias")
	}
}

// Package chat is the conversation with the tutor about one path topic.
package chat

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/devtutor/internal/screen"
	"github.com/abhisek/devtutor/internal/topics"
	"github.com/abhisek/devtutor/internal/tutor"
	"github.com/abhisek/devtutor/internal/ui/components"
	"github.com/abhisek/devtutor/internal/ui/layout"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

// openedMsg carries the transcript and mode loaded on entry.
type openedMsg struct {
	transcript tutor.Transcript
	mode       tutor.Mode
	err        error
}

// transcriptMsg carries the transcript after a service call.
type transcriptMsg struct {
	transcript tutor.Transcript
	mode       tutor.Mode // empty unless the mode changed
	feedback   bool       // the call recorded feedback
	err        error
}

// ChatScreen shows the transcript, the input and the exercise prompt.
type ChatScreen struct {
	theme *theme.Theme
	tutor *tutor.Service
	topic topics.PathTopic

	transcript tutor.Transcript
	mode       tutor.Mode
	loaded     bool

	input      components.TextInput
	evaluation components.ButtonRow
	suggestion int // index into suggestions, -1 when none is highlighted
	spinner    spinner.Model

	busy    bool
	pending string // learner message shown while the reply is produced
	thanks  bool
	scroll  int // lines scrolled up from the bottom
	err     string
}

var _ screen.Screen = (*ChatScreen)(nil)

func New(th *theme.Theme, svc *tutor.Service, topic topics.PathTopic) *ChatScreen {
	return &ChatScreen{
		theme:      th,
		tutor:      svc,
		topic:      topic,
		mode:       tutor.DefaultMode,
		input:      components.NewTextInput("", "Digite sua mensagem...", 500),
		evaluation: components.NewButtonRow("Sim, resolvi corretamente", "Não, tive dificuldades"),
		suggestion: -1,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Ellipsis),
			spinner.WithStyle(th.Hint()),
		),
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	svc, id := c.tutor, c.topic.ID
	open := func() tea.Msg {
		ctx := context.Background()
		t, err := svc.Open(ctx, id)
		if err != nil {
			return openedMsg{err: err}
		}
		mode, err := svc.Mode(ctx)
		return openedMsg{transcript: t, mode: mode, err: err}
	}
	return tea.Batch(open, c.input.Focus())
}

func (c *ChatScreen) Title() string {
	return c.topic.Name
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	if c.awaitingEvaluation() {
		return []layout.KeyHint{
			{Key: "←→", Description: "Escolher"},
			{Key: "Enter", Description: "Confirmar"},
			{Key: "Esc", Description: "Voltar"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Enviar"},
		{Key: "↑↓", Description: "Sugestões"},
		{Key: "Tab", Description: "Modo"},
		{Key: "Ctrl+Y/N", Description: "Útil?"},
		{Key: "Ctrl+L", Description: "Limpar"},
		{Key: "Esc", Description: "Voltar"},
	}
}

// awaitingEvaluation reports whether the exercise buttons take the keys.
func (c *ChatScreen) awaitingEvaluation() bool {
	return c.loaded && !c.busy && c.transcript.AwaitingEvaluation() && c.input.Value() == ""
}

func (c *ChatScreen) suggestions() []string {
	return tutor.SuggestedQuestions(c.topic.Name, c.mode)
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case openedMsg:
		c.loaded = true
		if msg.err != nil {
			c.err = "Não foi possível carregar a conversa."
			return c, nil
		}
		c.transcript = msg.transcript
		c.mode = msg.mode
		return c, nil

	case transcriptMsg:
		c.busy = false
		c.pending = ""
		if msg.err != nil {
			c.err = "Algo deu errado. Tente novamente."
			return c, nil
		}
		c.err = ""
		c.transcript = msg.transcript
		if msg.mode != "" {
			c.mode = msg.mode
		}
		c.thanks = msg.feedback
		c.scroll = 0
		return c, nil

	case spinner.TickMsg:
		if !c.busy {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case tea.KeyMsg:
		if cmd, handled := c.handleKey(msg); handled {
			return c, cmd
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// handleKey processes chat shortcuts. Unhandled keys go to the input.
func (c *ChatScreen) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()

	switch key {
	case "pgup":
		c.scroll += 5
		return nil, true
	case "pgdown":
		c.scroll = max(c.scroll-5, 0)
		return nil, true
	}

	if !c.loaded || c.busy {
		return nil, key == "enter" || key == "tab"
	}

	if c.awaitingEvaluation() {
		switch key {
		case "left", "right", "tab", "shift+tab", "enter":
			var pressed int
			c.evaluation, pressed = c.evaluation.Update(msg)
			if pressed >= 0 {
				return c.evaluate(pressed == 0), true
			}
			return nil, true
		}
	}

	switch key {
	case "enter":
		text := c.input.Value()
		if text == "" && c.suggestion >= 0 {
			text = c.suggestions()[c.suggestion]
		}
		if text == "" {
			return nil, true
		}
		return c.send(text), true
	case "up", "down":
		if c.input.Value() != "" {
			return nil, false
		}
		n := len(c.suggestions())
		if key == "down" {
			c.suggestion = (c.suggestion+2)%(n+1) - 1
		} else {
			c.suggestion = (c.suggestion+n+1)%(n+1) - 1
		}
		return nil, true
	case "tab":
		return c.changeMode(c.mode.Next()), true
	case "ctrl+y":
		return c.feedback(true), true
	case "ctrl+n":
		return c.feedback(false), true
	case "ctrl+l":
		return c.reset(), true
	}
	return nil, false
}

// run executes fn as the single in-flight service call.
func (c *ChatScreen) run(fn func(ctx context.Context) transcriptMsg) tea.Cmd {
	c.busy = true
	c.thanks = false
	call := func() tea.Msg { return fn(context.Background()) }
	return tea.Batch(call, c.spinner.Tick)
}

func (c *ChatScreen) send(text string) tea.Cmd {
	c.pending = text
	c.input.Reset()
	c.suggestion = -1
	svc, id, mode := c.tutor, c.topic.ID, c.mode
	return c.run(func(ctx context.Context) transcriptMsg {
		t, err := svc.Send(ctx, id, mode, text)
		return transcriptMsg{transcript: t, err: err}
	})
}

func (c *ChatScreen) evaluate(solved bool) tea.Cmd {
	c.evaluation.Selected = 0
	svc, id := c.tutor, c.topic.ID
	return c.run(func(ctx context.Context) transcriptMsg {
		t, err := svc.Evaluate(ctx, id, solved)
		return transcriptMsg{transcript: t, err: err}
	})
}

func (c *ChatScreen) changeMode(mode tutor.Mode) tea.Cmd {
	c.pending = ""
	svc, id := c.tutor, c.topic.ID
	return c.run(func(ctx context.Context) transcriptMsg {
		t, err := svc.ChangeMode(ctx, id, mode)
		return transcriptMsg{transcript: t, mode: mode, err: err}
	})
}

// feedback rates the latest tutor message that has not been rated yet.
func (c *ChatScreen) feedback(helpful bool) tea.Cmd {
	msgs := c.transcript.Messages
	target := ""
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == tutor.SenderTutor {
			if msgs[i].Feedback == "" {
				target = msgs[i].ID
			}
			break
		}
	}
	if target == "" {
		return nil
	}
	svc, id := c.tutor, c.topic.ID
	return c.run(func(ctx context.Context) transcriptMsg {
		t, err := svc.Feedback(ctx, id, target, helpful)
		return transcriptMsg{transcript: t, feedback: true, err: err}
	})
}

func (c *ChatScreen) reset() tea.Cmd {
	svc, id := c.tutor, c.topic.ID
	return c.run(func(ctx context.Context) transcriptMsg {
		if err := svc.Reset(ctx, id); err != nil {
			return transcriptMsg{err: err}
		}
		t, err := svc.Open(ctx, id)
		return transcriptMsg{transcript: t, err: err}
	})
}

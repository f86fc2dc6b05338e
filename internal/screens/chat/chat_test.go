package chat

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/devtutor/internal/llm"
	"github.com/abhisek/devtutor/internal/store"
	"github.com/abhisek/devtutor/internal/topics"
	"github.com/abhisek/devtutor/internal/tutor"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

func newTestChat(t *testing.T) (*ChatScreen, *tutor.Service) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	offline := func(context.Context) (llm.Provider, error) { return nil, nil }
	cfg := tutor.DefaultConfig()
	cfg.ReplyDelay = 0
	svc := tutor.NewService(st.KV(), offline, cfg, tutor.WithRand(func(int) int { return 0 }))

	topic, ok := topics.PathTopicByID("html_intro")
	require.True(t, ok)
	c := New(theme.New(theme.Dark), svc, topic)

	tr, err := svc.Open(context.Background(), topic.ID)
	require.NoError(t, err)
	c.Update(openedMsg{transcript: tr, mode: tutor.DefaultMode})
	return c, svc
}

// drain runs cmd and feeds service results back into the screen.
func drain(c *ChatScreen, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			drain(c, sub)
		}
	case transcriptMsg, openedMsg:
		c.Update(msg)
	}
}

func press(c *ChatScreen, k tea.KeyPressMsg) {
	_, cmd := c.Update(k)
	drain(c, cmd)
}

func typeText(c *ChatScreen, text string) {
	for _, r := range text {
		c.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

var (
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	tab   = tea.KeyPressMsg{Code: tea.KeyTab}
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
	right = tea.KeyPressMsg{Code: tea.KeyRight}
)

func ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func TestOpenShowsWelcome(t *testing.T) {
	c, _ := newTestChat(t)

	require.Len(t, c.transcript.Messages, 1)
	assert.Contains(t, c.View(100, 40), "Vamos estudar Introdução ao HTML")
}

func TestSendAppendsReply(t *testing.T) {
	c, _ := newTestChat(t)
	c.Init() // focuses the input

	typeText(c, "O que é HTML?")
	press(c, enter)

	msgs := c.transcript.Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, tutor.SenderUser, msgs[1].Sender)
	assert.Equal(t, "O que é HTML?", msgs[1].Text)
	assert.Equal(t, tutor.SenderTutor, msgs[2].Sender)
	assert.Empty(t, c.input.Value())
	assert.False(t, c.busy)
}

func TestEmptyEnterDoesNothing(t *testing.T) {
	c, _ := newTestChat(t)
	press(c, enter)

	assert.Len(t, c.transcript.Messages, 1)
	assert.False(t, c.busy)
}

func TestSuggestionSent(t *testing.T) {
	c, _ := newTestChat(t)
	press(c, down)
	require.Equal(t, 0, c.suggestion)

	press(c, enter)

	msgs := c.transcript.Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "O que é Introdução ao HTML?", msgs[1].Text)
	assert.Equal(t, -1, c.suggestion)
}

func TestExerciseEvaluation(t *testing.T) {
	c, _ := newTestChat(t)
	c.Init()

	typeText(c, "Quero um exercício")
	press(c, enter)
	require.True(t, c.awaitingEvaluation())
	assert.Contains(t, c.View(100, 40), "Conseguiu resolver este exercício?")

	// Pick "Não, tive dificuldades".
	press(c, right)
	press(c, enter)

	assert.False(t, c.awaitingEvaluation())
	correct, attempted, _ := c.transcript.Score()
	assert.Equal(t, 0, correct)
	assert.Equal(t, 1, attempted)
	last := c.transcript.Messages[len(c.transcript.Messages)-1]
	assert.Equal(t, tutor.UnsolvedReply, last.Text)
	assert.Contains(t, c.View(100, 40), "Desempenho: 0/1 exercícios (0%)")
}

func TestTabCyclesMode(t *testing.T) {
	c, svc := newTestChat(t)
	press(c, tab)

	assert.Equal(t, tutor.ModeIntermediate, c.mode)
	mode, err := svc.Mode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tutor.ModeIntermediate, mode)

	var announced bool
	for _, m := range c.transcript.Messages {
		if strings.HasPrefix(m.Text, "Mudei para o modo") {
			announced = true
		}
	}
	assert.True(t, announced, "mode change should be announced in the chat")
}

func TestFeedbackMarksLatestTutorMessage(t *testing.T) {
	c, _ := newTestChat(t)
	press(c, ctrl('y'))

	require.Len(t, c.transcript.Messages, 1)
	assert.Equal(t, tutor.FeedbackHelpful, c.transcript.Messages[0].Feedback)
	assert.True(t, c.thanks)
	assert.Contains(t, c.View(100, 40), "Obrigado!")

	// Already rated: a second rating is ignored.
	_, cmd := c.Update(ctrl('n'))
	assert.Nil(t, cmd)
}

func TestResetKeepsOnlyWelcome(t *testing.T) {
	c, _ := newTestChat(t)
	c.input.Focus()
	typeText(c, "oi")
	press(c, enter)
	require.Greater(t, len(c.transcript.Messages), 1)

	press(c, ctrl('l'))
	assert.Len(t, c.transcript.Messages, 1)
}

func TestScrollClampedToTranscript(t *testing.T) {
	c, _ := newTestChat(t)
	for range 10 {
		press(c, tea.KeyPressMsg{Code: tea.KeyPgUp})
	}
	c.View(100, 40)
	assert.Equal(t, 0, c.scroll, "a short transcript cannot scroll")
}

package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/devtutor/internal/llm"
	"github.com/abhisek/devtutor/internal/store"
)

func openKV(t *testing.T) store.KV {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.KV()
}

func offlineService(t *testing.T, opts ...Option) (*Service, store.KV) {
	t.Helper()
	kv := openKV(t)
	cfg := DefaultConfig()
	cfg.ReplyDelay = 0
	opts = append([]Option{WithRand(func(int) int { return 0 })}, opts...)
	return NewService(kv, nil, cfg, opts...), kv
}

func providerOf(p llm.Provider) ProviderSource {
	return func(context.Context) (llm.Provider, error) { return p, nil }
}

func TestOpenPostsWelcomeOnce(t *testing.T) {
	svc, _ := offlineService(t)
	ctx := context.Background()

	tr, err := svc.Open(ctx, "css_basics")
	require.NoError(t, err)
	require.Len(t, tr.Messages, 1)
	assert.Equal(t, SenderTutor, tr.Messages[0].Sender)
	assert.Contains(t, tr.Messages[0].Text, "Fundamentos de CSS")

	again, err := svc.Open(ctx, "css_basics")
	require.NoError(t, err)
	assert.Len(t, again.Messages, 1)
	assert.Equal(t, tr.Messages[0].ID, again.Messages[0].ID)
}

func TestSendCannedReply(t *testing.T) {
	svc, _ := offlineService(t)
	ctx := context.Background()

	tr, err := svc.Send(ctx, "html_intro", ModeBeginner, "O que é HTML?")
	require.NoError(t, err)
	require.Len(t, tr.Messages, 2)
	assert.Equal(t, SenderUser, tr.Messages[0].Sender)
	assert.Equal(t, "O que é HTML?", tr.Messages[0].Text)
	assert.Equal(t, SenderTutor, tr.Messages[1].Sender)
	assert.True(t, strings.HasPrefix(tr.Messages[1].Text, "HTML (HyperText Markup Language)"))
	assert.False(t, tr.LastMessageIsExercise)
	assert.NotEqual(t, tr.Messages[0].ID, tr.Messages[1].ID)
}

func TestSendDefaultReplyForUncoveredTopic(t *testing.T) {
	svc, _ := offlineService(t)

	tr, err := svc.Send(context.Background(), "js_dom", ModeAdvanced, "Como funciona o event bubbling?")
	require.NoError(t, err)
	assert.Equal(t,
		"Estou aqui para ajudar com qualquer dúvida sobre JavaScript e DOM. O que gostaria de saber?",
		tr.Messages[1].Text)
}

func TestSendRejectsBlank(t *testing.T) {
	svc, _ := offlineService(t)
	_, err := svc.Send(context.Background(), "html_intro", ModeBeginner, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestExerciseFlow(t *testing.T) {
	svc, _ := offlineService(t)
	ctx := context.Background()

	tr, err := svc.Send(ctx, "js_intro", ModeBeginner, "Quero praticar")
	require.NoError(t, err)
	assert.True(t, tr.LastMessageIsExercise)
	assert.True(t, tr.AwaitingEvaluation())
	assert.Contains(t, tr.Messages[1].Text, "par e false se for ímpar")

	tr, err = svc.Evaluate(ctx, "js_intro", true)
	require.NoError(t, err)
	assert.Equal(t, SolvedReply, tr.Messages[len(tr.Messages)-1].Text)
	assert.False(t, tr.AwaitingEvaluation())
	correct, attempted, pct := tr.Score()
	assert.Equal(t, []int{1, 1, 100}, []int{correct, attempted, pct})

	_, err = svc.Evaluate(ctx, "js_intro", true)
	assert.ErrorIs(t, err, ErrNothingToEvaluate, "an exercise is evaluated once")

	_, err = svc.Send(ctx, "js_intro", ModeBeginner, "Mais um exercício, por favor")
	require.NoError(t, err)
	tr, err = svc.Evaluate(ctx, "js_intro", false)
	require.NoError(t, err)
	assert.Equal(t, UnsolvedReply, tr.Messages[len(tr.Messages)-1].Text)
	correct, attempted, pct = tr.Score()
	assert.Equal(t, []int{1, 2, 50}, []int{correct, attempted, pct})
}

func TestNewMessageClearsPendingExercise(t *testing.T) {
	svc, _ := offlineService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, "responsive", ModeBeginner, "exercicio")
	require.NoError(t, err)
	tr, err := svc.Send(ctx, "responsive", ModeBeginner, "Na verdade, tenho uma dúvida")
	require.NoError(t, err)

	assert.False(t, tr.LastMessageIsExercise)
	_, err = svc.Evaluate(ctx, "responsive", true)
	assert.ErrorIs(t, err, ErrNothingToEvaluate)
}

func TestFeedback(t *testing.T) {
	svc, _ := offlineService(t)
	ctx := context.Background()

	tr, err := svc.Send(ctx, "html_intro", ModeBeginner, "oi")
	require.NoError(t, err)
	userID, tutorID := tr.Messages[0].ID, tr.Messages[1].ID

	tr, err = svc.Feedback(ctx, "html_intro", tutorID, false)
	require.NoError(t, err)
	assert.Equal(t, FeedbackUnhelpful, tr.Messages[1].Feedback)
	assert.True(t, tr.Messages[1].FeedbackShown)

	_, err = svc.Feedback(ctx, "html_intro", userID, true)
	assert.ErrorIs(t, err, ErrMessageNotFound)
	_, err = svc.Feedback(ctx, "html_intro", "missing", true)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestChangeMode(t *testing.T) {
	svc, kv := offlineService(t)
	ctx := context.Background()

	mode, err := svc.Mode(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeBeginner, mode)

	tr, err := svc.ChangeMode(ctx, "html_intro", ModeAdvanced)
	require.NoError(t, err)
	require.Len(t, tr.Messages, 2)
	assert.Equal(t, "Mudei para o modo avancado.", tr.Messages[0].Text)
	assert.Equal(t, SenderUser, tr.Messages[0].Sender)

	mode, _ = svc.Mode(ctx)
	assert.Equal(t, ModeAdvanced, mode)
	raw, _, _ := kv.Get(ctx, "tutor.current_mode")
	assert.Equal(t, "avancado", raw)

	same, err := svc.ChangeMode(ctx, "html_intro", ModeAdvanced)
	require.NoError(t, err)
	assert.Len(t, same.Messages, 2, "re-selecting the mode posts nothing")

	_, err = svc.ChangeMode(ctx, "html_intro", Mode("expert"))
	assert.Error(t, err)
}

func TestTranscriptPersistedFormat(t *testing.T) {
	svc, kv := offlineService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, "css_layout", ModeBeginner, "praticar flexbox")
	require.NoError(t, err)

	raw, ok, err := kv.Get(ctx, "chat_history_css_layout")
	require.NoError(t, err)
	require.True(t, ok)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	for _, field := range []string{"messages", "correctExercisesCount", "totalExercisesAttempted", "lastMessageIsExercise", "hasEvaluatedLastExercise"} {
		assert.Contains(t, doc, field)
	}
	assert.Contains(t, string(doc["messages"]), `"sender":"tutor"`)
}

func TestResetAndStats(t *testing.T) {
	svc, _ := offlineService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, "js_intro", ModeBeginner, "exercício")
	require.NoError(t, err)
	_, err = svc.Evaluate(ctx, "js_intro", true)
	require.NoError(t, err)
	_, err = svc.Open(ctx, "css_basics")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "css_basics", stats[0].Topic)
	assert.Equal(t, "js_intro", stats[1].Topic)
	assert.Equal(t, 3, stats[1].Messages)
	assert.Equal(t, 100, stats[1].Percent)

	require.NoError(t, svc.Reset(ctx, "js_intro"))
	tr, err := svc.Load(ctx, "js_intro")
	require.NoError(t, err)
	assert.Empty(t, tr.Messages)
	assert.Equal(t, 0, tr.TotalExercisesAttempted)
}

func TestSendUsesProvider(t *testing.T) {
	kv := openKV(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("  Seletores escolhem elementos.  ")})
	svc := NewService(kv, providerOf(mock), DefaultConfig())
	ctx := context.Background()

	_, err := svc.Open(ctx, "css_basics")
	require.NoError(t, err)
	tr, err := svc.Send(ctx, "css_basics", ModeIntermediate, "O que são seletores?")
	require.NoError(t, err)

	assert.Equal(t, "Seletores escolhem elementos.", tr.Messages[len(tr.Messages)-1].Text)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Contains(t, req.System, "Fundamentos de CSS")
	assert.Contains(t, req.System, "Intermediário")
	require.Len(t, req.Messages, 1, "the welcome message is not sent as history")
	assert.Equal(t, llm.RoleUser, req.Messages[0].Role)
	assert.Equal(t, "O que são seletores?", req.Messages[0].Content)
}

func TestSendFallsBackWhenProviderFails(t *testing.T) {
	kv := openKV(t)
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	cfg := DefaultConfig()
	cfg.ReplyDelay = 0
	svc := NewService(kv, providerOf(mock), cfg, WithRand(func(int) int { return 2 }))

	tr, err := svc.Send(context.Background(), "html_intro", ModeIntermediate, "boas práticas?")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tr.Messages[1].Text, "Um problema comum é a compatibilidade"))
}

func TestSendWithoutCredentialUsesCannedReply(t *testing.T) {
	kv := openKV(t)
	cfg := DefaultConfig()
	cfg.ReplyDelay = 0
	svc := NewService(kv, providerOf(nil), cfg)

	tr, err := svc.Send(context.Background(), "html_semantic", ModeBeginner, "oi")
	require.NoError(t, err)
	assert.Contains(t, tr.Messages[1].Text, "HTML Semântico")
}

func TestExerciseRequestsSkipProvider(t *testing.T) {
	kv := openKV(t)
	mock := llm.NewMockProvider()
	cfg := DefaultConfig()
	cfg.ReplyDelay = 0
	svc := NewService(kv, providerOf(mock), cfg)

	tr, err := svc.Send(context.Background(), "html_semantic", ModeBeginner, "Me dá um exercício")
	require.NoError(t, err)
	assert.Equal(t, 0, mock.CallCount())
	assert.True(t, strings.HasPrefix(tr.Messages[1].Text, "Converta o seguinte HTML"))
}

func TestReplyDelay(t *testing.T) {
	kv := openKV(t)
	cfg := DefaultConfig()
	cfg.ReplyDelay = 30 * time.Millisecond
	svc := NewService(kv, nil, cfg)

	start := time.Now()
	_, err := svc.Send(context.Background(), "html_intro", ModeBeginner, "oi")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestWithClock(t *testing.T) {
	at := time.Date(2025, 5, 4, 10, 30, 0, 0, time.UTC)
	svc, _ := offlineService(t, WithClock(func() time.Time { return at }))

	tr, err := svc.Send(context.Background(), "html_intro", ModeBeginner, "oi")
	require.NoError(t, err)
	assert.True(t, tr.Messages[0].Timestamp.Equal(at))
}

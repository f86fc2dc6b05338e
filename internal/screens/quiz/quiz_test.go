package quiz

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/devtutor/internal/llm"
	qz "github.com/abhisek/devtutor/internal/quiz"
	"github.com/abhisek/devtutor/internal/topics"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

type noCreds struct{}

func (noCreds) Get(context.Context) (string, bool, error) { return "", false, nil }

func offlineResolver(t *testing.T) *qz.Resolver {
	t.Helper()
	cfg := qz.DefaultConfig()
	cfg.FallbackDelay = 0
	factory := func(context.Context, string) (llm.Provider, error) {
		t.Fatal("provider factory should not be called without a credential")
		return nil, nil
	}
	return qz.NewResolver(noCreds{}, factory, cfg)
}

// loadedScreen returns a quiz for HTML with its first set already applied.
func loadedScreen(t *testing.T) *QuizScreen {
	t.Helper()
	r := offlineResolver(t)
	q := New(theme.New(theme.Dark), r, nil, topics.ByID("html"))
	q.Init()
	res := r.ResolveDetailed(context.Background(), q.request)
	q.Update(loadedMsg{seq: q.seq, result: res})
	return q
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "ctrl+r":
		return tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestInitStartsLoading(t *testing.T) {
	q := New(theme.New(theme.Dark), offlineResolver(t), nil, topics.ByID("css"))
	if cmd := q.Init(); cmd == nil {
		t.Fatal("expected a load command")
	}
	if !q.loading {
		t.Error("expected loading state")
	}
	if q.request.Topic != "CSS" || q.request.Count != qz.DefaultCount || q.request.Category != qz.CategoryBasics {
		t.Errorf("unexpected request %+v", q.request)
	}
	if !strings.Contains(q.View(100, 30), "Gerando perguntas sobre CSS") {
		t.Error("loading view should name the topic")
	}
}

func TestAnswerFlowAndScore(t *testing.T) {
	q := loadedScreen(t)
	if q.loading || q.done {
		t.Fatalf("loading %v, done %v; want an active quiz", q.loading, q.done)
	}
	if q.result.Source != qz.SourceFallback {
		t.Fatalf("source = %q, want fallback", q.result.Source)
	}

	// Canned HTML answers are 0, 1, 2. Answer right, wrong, right.
	for i, answer := range []string{"a", "a", "c"} {
		q.Update(key(answer))
		if !q.choice.Submitted {
			t.Fatalf("question %d not submitted", i)
		}
		view := q.View(100, 40)
		if !strings.Contains(view, "Resposta correta") && !strings.Contains(view, "Resposta incorreta") {
			t.Errorf("question %d: feedback missing", i)
		}
		q.Update(key("enter"))
	}

	if !q.done {
		t.Fatal("expected quiz to be done")
	}
	if q.correct != 2 {
		t.Errorf("correct = %d, want 2", q.correct)
	}
	if !strings.Contains(q.View(100, 40), "Você acertou 2 de 3") {
		t.Error("score missing from final view")
	}
}

func TestStaleLoadIgnored(t *testing.T) {
	q := loadedScreen(t)
	q.Update(key("tab")) // starts a new load

	q.Update(loadedMsg{seq: q.seq - 1, result: qz.Result{}})
	if !q.loading {
		t.Error("stale result should not end loading")
	}
}

func TestTabCyclesCategory(t *testing.T) {
	q := loadedScreen(t)
	q.Update(key("tab"))
	if q.request.Category != qz.CategoryIntermediate {
		t.Errorf("category = %q, want intermediate", q.request.Category)
	}
	if !q.loading {
		t.Error("changing category should reload")
	}
}

func TestReloadPicksRandomCategory(t *testing.T) {
	q := loadedScreen(t)
	q.intn = func(int) int { return 3 }

	q.Update(key("r"))
	if q.request.Category != qz.CategoryPractical {
		t.Errorf("category = %q, want practical", q.request.Category)
	}
	if !q.loading {
		t.Error("reload should start loading")
	}
}

func TestRefreshKeepsCategory(t *testing.T) {
	q := loadedScreen(t)
	before := q.seq

	_, cmd := q.Update(key("ctrl+r"))
	if cmd == nil || q.seq != before+1 {
		t.Fatal("ctrl+r should start a new load")
	}
	if q.request.Category != qz.CategoryBasics {
		t.Errorf("category changed to %q", q.request.Category)
	}
}

func TestKeysIgnoredWhileLoading(t *testing.T) {
	q := New(theme.New(theme.Dark), offlineResolver(t), nil, topics.ByID("html"))
	q.Init()
	seq := q.seq

	q.Update(key("r"))
	if q.seq != seq {
		t.Error("reload should be ignored while loading")
	}
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, qz.Request) ([]qz.Question, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, qz.Request, []qz.Question) error { return nil }

func TestCacheErrorsReachResolverLogger(t *testing.T) {
	var logs bytes.Buffer
	cfg := qz.DefaultConfig()
	cfg.FallbackDelay = 0
	r := qz.NewResolver(noCreds{}, nil, cfg, qz.WithLogger(zerolog.New(&logs)))

	q := New(theme.New(theme.Dark), r, brokenCache{}, topics.ByID("css"))
	batch, ok := q.Init()().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatal("expected a batched load")
	}
	msg, ok := batch[0]().(loadedMsg)
	if !ok {
		t.Fatal("first command should resolve the set")
	}
	if msg.result.Source != qz.SourceFallback {
		t.Errorf("source = %q, want fallback", msg.result.Source)
	}
	if !strings.Contains(logs.String(), "question cache read failed") {
		t.Errorf("cache warning not logged: %q", logs.String())
	}
}

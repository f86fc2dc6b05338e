package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/abhisek/devtutor/internal/store"
)

// recordingRepo captures appended events in memory.
type recordingRepo struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return nil
}

func (r *recordingRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEvent, error) {
	return nil, nil
}

func (r *recordingRepo) GetLLMEvent(context.Context, string) (*store.LLMRequestEvent, error) {
	return nil, nil
}

func (r *recordingRepo) LLMUsageByPurpose(context.Context) ([]store.PurposeUsage, error) {
	return nil, nil
}

func (r *recordingRepo) LLMUsageByModel(context.Context) ([]store.ModelUsage, error) {
	return nil, nil
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "carrier-pigeon"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := NewProvider(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error without a gemini key")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
}

func TestNewProvider_GeminiLogsEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiReply("olá"))
	}))
	defer server.Close()

	cfg := DefaultConfig().WithAPIKey("AIza-test")
	cfg.Gemini.BaseURL = server.URL
	cfg.Retry = SingleAttempt

	repo := &recordingRepo{}
	p, err := NewProvider(context.Background(), cfg, repo)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	ctx := WithPurpose(context.Background(), PurposeQuiz)
	if _, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 logged event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Provider != ProviderGemini || ev.Purpose != PurposeQuiz || !ev.Success {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.InputTokens != 120 || ev.ResponseBody != "olá" {
		t.Errorf("usage/body not recorded: %+v", ev)
	}
}

func TestNewProviderFromEnv_NoKeys(t *testing.T) {
	for _, k := range []string{
		"DEVTUTOR_LLM_PROVIDER", "DEVTUTOR_GEMINI_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}

	p, err := NewProviderFromEnv(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil provider without keys, got %T", p)
	}
}

func TestLoggingProvider_RecordsFailures(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}})
	repo := &recordingRepo{}
	p := WithLogging(mock, ProviderMock, repo)

	ctx := WithPurpose(context.Background(), PurposeTutor)
	if _, err := p.Generate(ctx, Request{System: "tutor", Messages: []Message{{Role: RoleUser, Content: "oi"}}}); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Success || ev.ErrorMessage == "" {
		t.Errorf("failure not recorded: %+v", ev)
	}
	if ev.RequestBody != "[system]\ntutor\n\n[user]\noi\n\n" {
		t.Errorf("RequestBody = %q", ev.RequestBody)
	}
}

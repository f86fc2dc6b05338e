package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/abhisek/devtutor/internal/llm"
)

type staticCreds struct {
	key string
	ok  bool
	err error
}

func (s staticCreds) Get(context.Context) (string, bool, error) {
	return s.key, s.ok, s.err
}

var noCreds = staticCreds{}

func withKey(key string) staticCreds { return staticCreds{key: key, ok: true} }

// mockFactory hands out the same mock provider and records the keys used.
type mockFactory struct {
	mu       sync.Mutex
	provider llm.Provider
	keys     []string
	err      error
}

func (f *mockFactory) build(_ context.Context, key string) (llm.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

func unusedFactory(t *testing.T) ProviderFactory {
	return func(context.Context, string) (llm.Provider, error) {
		t.Fatal("provider factory must not be called")
		return nil, nil
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.FallbackDelay = 0
	return cfg
}

const remoteText = "Here are your questions:\n```json\n" + `[
  {"id": 7, "question": "Qual atributo define o destino de um link?", "options": ["src", "href", "alt", "rel"], "correctAnswer": 1, "explanation": "href holds the URL.", "category": "theory"},
  {"id": 7, "question": "Qual tag cria uma lista ordenada?", "options": ["<ul>", "<li>", "<ol>", "<dl>"], "correctAnswer": 2, "explanation": "", "category": "theory"}
]` + "\n```\nGood luck!"

func TestResolve_NoCredentialAlwaysThreeQuestions(t *testing.T) {
	r := NewResolver(noCreds, unusedFactory(t), testConfig())

	topics := []string{"HTML", "css", "JavaScript", "React", "Node.js", "", "Rust ownership"}
	for _, topic := range topics {
		for _, cat := range Categories() {
			res := r.ResolveDetailed(context.Background(), Request{
				Topic:      topic,
				Difficulty: DifficultyHard,
				Count:      10,
				Category:   cat,
			})
			if len(res.Questions) != FallbackSize {
				t.Fatalf("topic %q: got %d questions, want %d", topic, len(res.Questions), FallbackSize)
			}
			if res.Source != SourceFallback {
				t.Errorf("topic %q: source = %q, want fallback", topic, res.Source)
			}
			if !errors.Is(res.Err, ErrNoCredential) {
				t.Errorf("topic %q: reason = %v, want ErrNoCredential", topic, res.Err)
			}
			for _, q := range res.Questions {
				if q.Category != cat {
					t.Errorf("topic %q: category = %q, want %q", topic, q.Category, cat)
				}
				if len(q.Options) != OptionCount {
					t.Errorf("topic %q: %d options", topic, len(q.Options))
				}
			}
		}
	}
}

func TestResolve_CannedCorrectAnswers(t *testing.T) {
	r := NewResolver(noCreds, unusedFactory(t), testConfig())

	tests := []struct {
		topic string
		want  []int
	}{
		{"html", []int{0, 1, 2}},
		{"HTML", []int{0, 1, 2}},
		{"css", []int{2, 1, 2}},
		{"Css", []int{2, 1, 2}},
		{"javascript", []int{1, 3, 1}},
		{" JavaScript ", []int{1, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			qs := r.Resolve(context.Background(), Request{Topic: tt.topic})
			for i, q := range qs {
				if q.CorrectAnswer != tt.want[i] {
					t.Errorf("question %d correctAnswer = %d, want %d", i+1, q.CorrectAnswer, tt.want[i])
				}
			}
		})
	}
}

func TestResolve_HTMLScenario(t *testing.T) {
	r := NewResolver(noCreds, unusedFactory(t), testConfig())

	qs := r.Resolve(context.Background(), Request{
		Topic:      "HTML",
		Difficulty: DifficultyMedium,
		Count:      3,
		Category:   CategoryBasics,
	})

	wantText := []string{
		"O que significa a sigla HTML?",
		"Qual tag é usada para criar um parágrafo em HTML?",
		"Qual elemento HTML define o título da página que aparece na aba do navegador?",
	}
	if len(qs) != 3 {
		t.Fatalf("got %d questions", len(qs))
	}
	for i, q := range qs {
		if q.Question != wantText[i] {
			t.Errorf("question %d = %q, want %q", i+1, q.Question, wantText[i])
		}
		if q.ID != i+1 {
			t.Errorf("question %d id = %d", i+1, q.ID)
		}
		if q.Category != CategoryBasics {
			t.Errorf("question %d category = %q", i+1, q.Category)
		}
	}
	if qs[1].Options[qs[1].CorrectAnswer] != "<p>" {
		t.Errorf("paragraph answer = %q", qs[1].Options[qs[1].CorrectAnswer])
	}
}

// Generic offline questions draw a fresh correct index on every call, so the
// "right" answer to the same question text can change between calls.
func TestResolve_GenericCorrectAnswerIsRandom(t *testing.T) {
	seq := []int{3, 0, 2, 1, 1, 3}
	var i int
	intn := func(n int) int {
		if n != OptionCount {
			t.Fatalf("intn called with %d, want %d", n, OptionCount)
		}
		v := seq[i%len(seq)]
		i++
		return v
	}
	r := NewResolver(noCreds, unusedFactory(t), testConfig(), WithRand(intn))

	first := r.Resolve(context.Background(), Request{Topic: "Go"})
	second := r.Resolve(context.Background(), Request{Topic: "Go"})

	for k := range first {
		if first[k].Question != second[k].Question {
			t.Errorf("question %d text changed between calls", k+1)
		}
		for j := range first[k].Options {
			if first[k].Options[j] != second[k].Options[j] {
				t.Errorf("question %d options changed between calls", k+1)
			}
		}
	}
	gotFirst := []int{first[0].CorrectAnswer, first[1].CorrectAnswer, first[2].CorrectAnswer}
	gotSecond := []int{second[0].CorrectAnswer, second[1].CorrectAnswer, second[2].CorrectAnswer}
	if gotFirst[0] != 3 || gotFirst[1] != 0 || gotFirst[2] != 2 {
		t.Errorf("first call answers = %v", gotFirst)
	}
	if gotSecond[0] != 1 || gotSecond[1] != 1 || gotSecond[2] != 3 {
		t.Errorf("second call answers = %v", gotSecond)
	}
	if !strings.Contains(first[0].Question, "Go") || !strings.Contains(first[2].Explanation, "Go") {
		t.Errorf("topic not interpolated: %q / %q", first[0].Question, first[2].Explanation)
	}
}

func TestResolve_GenericCorrectAnswerRoughlyUniform(t *testing.T) {
	r := NewResolver(noCreds, unusedFactory(t), testConfig())

	const runs = 4000
	var counts [FallbackSize][OptionCount]int
	for range runs {
		for k, q := range r.Resolve(context.Background(), Request{Topic: "Svelte"}) {
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
				t.Fatalf("correctAnswer %d out of range", q.CorrectAnswer)
			}
			counts[k][q.CorrectAnswer]++
		}
	}

	// Expected 1000 per bucket; the bounds are many standard deviations wide.
	for k := range counts {
		for idx, n := range counts[k] {
			if n < 800 || n > 1200 {
				t.Errorf("question %d index %d chosen %d/%d times", k+1, idx, n, runs)
			}
		}
	}
}

func TestResolve_RemoteSuccess(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(remoteText)})
	f := &mockFactory{provider: mock}
	r := NewResolver(withKey("AIza-stored"), f.build, testConfig())

	res := r.ResolveDetailed(context.Background(), Request{Topic: "HTML", Count: 2, Category: CategoryPractical})
	if res.Source != SourceRemote || res.Err != nil {
		t.Fatalf("source = %q, err = %v", res.Source, res.Err)
	}
	if len(res.Questions) != 2 {
		t.Fatalf("got %d questions", len(res.Questions))
	}
	for i, q := range res.Questions {
		if q.ID != i+1 {
			t.Errorf("question %d id = %d, want renumbered", i+1, q.ID)
		}
		if q.Category != CategoryPractical {
			t.Errorf("category = %q, want caller category", q.Category)
		}
	}
	if res.Questions[1].Options[res.Questions[1].CorrectAnswer] != "<ol>" {
		t.Errorf("unexpected answer for question 2: %+v", res.Questions[1])
	}

	if len(f.keys) != 1 || f.keys[0] != "AIza-stored" {
		t.Errorf("provider built with keys %v", f.keys)
	}
	call := mock.Calls[0]
	if call.Temperature != 0.7 || call.MaxTokens != 1024 {
		t.Errorf("generation params = %v / %d", call.Temperature, call.MaxTokens)
	}
	if call.Schema != nil {
		t.Error("remote request should ask for free text, not structured output")
	}
	if len(call.Messages) != 1 || !strings.Contains(call.Messages[0].Content, "about HTML") {
		t.Errorf("prompt = %+v", call.Messages)
	}
}

func TestResolve_RemoteStringIDsAccepted(t *testing.T) {
	reply := `[{"id":"q1","question":"Qual tag cria um link?","options":["<a>","<p>","<li>","<hr>"],"correctAnswer":0}]`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(reply)})
	r := NewResolver(withKey("AIza-stored"), (&mockFactory{provider: mock}).build, testConfig())

	res := r.ResolveDetailed(context.Background(), Request{Topic: "HTML", Count: 1})
	if res.Source != SourceRemote {
		t.Fatalf("source = %q, err = %v", res.Source, res.Err)
	}
	if len(res.Questions) != 1 || res.Questions[0].ID != 1 {
		t.Errorf("questions = %+v", res.Questions)
	}
}

func TestResolve_RemoteHTTP500FallsBackLikeNoCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"internal"}}`))
	}))
	defer server.Close()

	factory := func(ctx context.Context, key string) (llm.Provider, error) {
		return llm.NewGeminiRESTProvider(llm.GeminiConfig{APIKey: key, Model: "gemini-flash", BaseURL: server.URL}, server.Client())
	}

	req := Request{Topic: "HTML", Difficulty: DifficultyMedium, Count: 3, Category: CategoryBasics}
	remote := NewResolver(withKey("AIza-test"), factory, testConfig()).ResolveDetailed(context.Background(), req)
	offline := NewResolver(noCreds, unusedFactory(t), testConfig()).ResolveDetailed(context.Background(), req)

	if remote.Source != SourceFallback {
		t.Fatalf("source = %q, want fallback", remote.Source)
	}
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(remote.Err, &unavail) {
		t.Errorf("reason = %T (%v), want ErrProviderUnavailable", remote.Err, remote.Err)
	}

	a, _ := json.Marshal(remote.Questions)
	b, _ := json.Marshal(offline.Questions)
	if string(a) != string(b) {
		t.Errorf("fallback after HTTP 500 differs from no-credential fallback:\n%s\n%s", a, b)
	}
}

func TestResolve_MalformedRemoteResponses(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no array", "Sorry, I can't help with that."},
		{"empty array", "[]"},
		{"not json", "[this is not json]"},
		{"missing options", `[{"question":"q"}]`},
		{"missing question", `[{"options":["a","b","c","d"]}]`},
		{"three options", `[{"question":"q","options":["a","b","c"],"correctAnswer":0}]`},
		{"later element malformed", `[{"question":"q","options":["a","b","c","d"]},{"question":"q2"}]`},
		{"blank option", `[{"question":"q","options":["a","","c","d"]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tt.text)})
			f := &mockFactory{provider: mock}
			r := NewResolver(withKey("k"), f.build, testConfig())

			res := r.ResolveDetailed(context.Background(), Request{Topic: "CSS", Category: CategoryTheory})
			if res.Source != SourceFallback {
				t.Fatalf("source = %q, want fallback", res.Source)
			}
			if res.Err == nil {
				t.Error("expected a failure reason")
			}
			if len(res.Questions) != 3 || res.Questions[0].CorrectAnswer != 2 {
				t.Errorf("expected the CSS offline set, got %+v", res.Questions)
			}
			if mock.CallCount() != 1 {
				t.Errorf("expected exactly one remote attempt, got %d", mock.CallCount())
			}
		})
	}
}

func TestResolve_NoRetryOnTransientError(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrRateLimit{}},
		llm.MockResponse{Content: json.RawMessage(remoteText)},
	)
	f := &mockFactory{provider: mock}
	r := NewResolver(withKey("k"), f.build, testConfig())

	res := r.ResolveDetailed(context.Background(), Request{Topic: "HTML"})
	if res.Source != SourceFallback {
		t.Fatalf("source = %q", res.Source)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestResolve_FactoryErrorFallsBack(t *testing.T) {
	f := &mockFactory{err: errors.New("bad config")}
	r := NewResolver(withKey("k"), f.build, testConfig())

	res := r.ResolveDetailed(context.Background(), Request{Topic: "JavaScript"})
	if res.Source != SourceFallback || res.Err == nil {
		t.Fatalf("got source %q err %v", res.Source, res.Err)
	}
}

func TestResolve_CredentialReadErrorReturnsPlaceholders(t *testing.T) {
	r := NewResolver(staticCreds{err: errors.New("disk I/O error")}, unusedFactory(t), testConfig())

	res := r.ResolveDetailed(context.Background(), Request{Topic: "HTML", Category: CategoryAdvanced})
	if res.Source != SourcePlaceholder {
		t.Fatalf("source = %q, want placeholder", res.Source)
	}
	assertPlaceholders(t, res.Questions, CategoryAdvanced)
}

type panickingProvider struct{}

func (panickingProvider) Generate(context.Context, llm.Request) (*llm.Response, error) {
	panic("boom")
}

func (panickingProvider) ModelID() string { return "panic" }

func TestResolve_PanicReturnsPlaceholders(t *testing.T) {
	f := &mockFactory{provider: panickingProvider{}}
	r := NewResolver(withKey("k"), f.build, testConfig())

	res := r.ResolveDetailed(context.Background(), Request{Topic: "HTML", Category: CategoryPractical})
	if res.Source != SourcePlaceholder {
		t.Fatalf("source = %q, want placeholder", res.Source)
	}
	if res.Err == nil || !strings.Contains(res.Err.Error(), "boom") {
		t.Errorf("reason = %v", res.Err)
	}
	assertPlaceholders(t, res.Questions, CategoryPractical)
}

func assertPlaceholders(t *testing.T, qs []Question, cat Category) {
	t.Helper()
	if len(qs) != 3 {
		t.Fatalf("got %d placeholder questions", len(qs))
	}
	for i, q := range qs {
		if q.Question != "Questão de exemplo "+string(rune('1'+i)) {
			t.Errorf("question %d = %q", i+1, q.Question)
		}
		if q.CorrectAnswer != i {
			t.Errorf("question %d correctAnswer = %d, want %d", i+1, q.CorrectAnswer, i)
		}
		if q.Options[0] != "Opção A" || q.Options[3] != "Opção D" {
			t.Errorf("question %d options = %v", i+1, q.Options)
		}
		if q.Category != cat {
			t.Errorf("question %d category = %q", i+1, q.Category)
		}
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestResolve_RemoteTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.RemoteTimeout = 20 * time.Millisecond
	f := &mockFactory{provider: blockingProvider{}}
	r := NewResolver(withKey("k"), f.build, cfg)

	res := r.ResolveDetailed(context.Background(), Request{Topic: "HTML"})
	if res.Source != SourceFallback {
		t.Fatalf("source = %q", res.Source)
	}
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("reason = %v, want deadline exceeded", res.Err)
	}
}

func TestResolve_FallbackDelay(t *testing.T) {
	cfg := testConfig()
	cfg.FallbackDelay = 40 * time.Millisecond
	r := NewResolver(noCreds, unusedFactory(t), cfg)

	start := time.Now()
	r.Resolve(context.Background(), Request{Topic: "HTML"})
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("fallback resolved after %s, want at least 40ms", elapsed)
	}
}

func TestResolve_FallbackDelayHonorsCancellation(t *testing.T) {
	cfg := testConfig()
	cfg.FallbackDelay = time.Hour
	r := NewResolver(noCreds, unusedFactory(t), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan []Question, 1)
	go func() { done <- r.Resolve(ctx, Request{Topic: "HTML"}) }()

	select {
	case qs := <-done:
		if len(qs) != 3 {
			t.Errorf("got %d questions", len(qs))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Resolve did not return after cancellation")
	}
}

func TestResolve_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(remoteText)},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	f := &mockFactory{provider: mock}
	withCreds := NewResolver(withKey("k"), f.build, testConfig(), WithMetrics(m))
	offline := NewResolver(noCreds, unusedFactory(t), testConfig(), WithMetrics(m))

	withCreds.Resolve(context.Background(), Request{Topic: "HTML"})
	withCreds.Resolve(context.Background(), Request{Topic: "HTML"})
	offline.Resolve(context.Background(), Request{Topic: "HTML"})

	if got := testutil.ToFloat64(m.resolved.WithLabelValues("remote")); got != 1 {
		t.Errorf("remote = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.resolved.WithLabelValues("fallback")); got != 2 {
		t.Errorf("fallback = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(m.remoteLatency); n != 1 {
		t.Errorf("latency histogram series = %d", n)
	}
}

func TestResolve_RequestDefaults(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(remoteText)})
	f := &mockFactory{provider: mock}
	r := NewResolver(withKey("k"), f.build, testConfig())

	r.Resolve(context.Background(), Request{Topic: "CSS"})

	prompt := mock.Calls[0].Messages[0].Content
	for _, want := range []string{"Generate 3 ", "at medium difficulty", `"basics" category`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestTestCredential(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(remoteText)})
		f := &mockFactory{provider: mock}
		r := NewResolver(noCreds, f.build, testConfig())

		if err := r.TestCredential(context.Background(), "AIza-new"); err != nil {
			t.Fatalf("TestCredential: %v", err)
		}
		if f.keys[0] != "AIza-new" {
			t.Errorf("tested with key %q", f.keys[0])
		}
		if !strings.Contains(mock.Calls[0].Messages[0].Content, "Generate 1 ") {
			t.Errorf("expected a single-question probe, got %q", mock.Calls[0].Messages[0].Content)
		}
	})

	t.Run("rejected key", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRequestRejected{StatusCode: 400, Err: errors.New("API key not valid")}})
		f := &mockFactory{provider: mock}
		r := NewResolver(noCreds, f.build, testConfig())

		err := r.TestCredential(context.Background(), "bad")
		var rejected *llm.ErrRequestRejected
		if !errors.As(err, &rejected) {
			t.Fatalf("expected ErrRequestRejected, got %v", err)
		}
	})

	t.Run("empty key", func(t *testing.T) {
		r := NewResolver(noCreds, unusedFactory(t), testConfig())
		if err := r.TestCredential(context.Background(), ""); !errors.Is(err, ErrNoCredential) {
			t.Fatalf("expected ErrNoCredential, got %v", err)
		}
	})
}

package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/devtutor/internal/llm"
)

// ErrNoCredential means no generation credential is stored.
var ErrNoCredential = errors.New("no generation credential")

// CredentialSource supplies the generation API key.
type CredentialSource interface {
	Get(ctx context.Context) (key string, ok bool, err error)
}

// ProviderFactory builds a provider authenticated with apiKey.
type ProviderFactory func(ctx context.Context, apiKey string) (llm.Provider, error)

// Config controls resolver behavior.
type Config struct {
	// FallbackDelay is waited before offline questions are returned.
	FallbackDelay time.Duration

	// RemoteTimeout bounds a single remote generation call. Zero means
	// only the caller's context applies.
	RemoteTimeout time.Duration

	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard resolver configuration.
func DefaultConfig() Config {
	return Config{
		FallbackDelay: 1500 * time.Millisecond,
		RemoteTimeout: 30 * time.Second,
		MaxTokens:     1024,
		Temperature:   0.7,
	}
}

// Resolver turns a topic request into quiz questions, preferring the remote
// generator and falling back to offline questions on any failure.
type Resolver struct {
	creds    CredentialSource
	provider ProviderFactory
	config   Config
	logger   zerolog.Logger
	metrics  *Metrics
	intn     func(n int) int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithMetrics records outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithRand overrides the random source used for generic fallback answers.
func WithRand(intn func(n int) int) Option {
	return func(r *Resolver) { r.intn = intn }
}

// NewResolver creates a Resolver.
func NewResolver(creds CredentialSource, provider ProviderFactory, cfg Config, opts ...Option) *Resolver {
	r := &Resolver{
		creds:    creds,
		provider: provider,
		config:   cfg,
		logger:   zerolog.Nop(),
		intn:     rand.IntN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Logger returns the resolver's logger.
func (r *Resolver) Logger() zerolog.Logger {
	return r.logger
}

// Resolve returns questions for req. It never fails: remote errors fall back
// to offline questions and unexpected errors to placeholder questions.
func (r *Resolver) Resolve(ctx context.Context, req Request) []Question {
	return r.ResolveDetailed(ctx, req).Questions
}

// ResolveDetailed is Resolve with the outcome exposed.
func (r *Resolver) ResolveDetailed(ctx context.Context, req Request) (res Result) {
	req = req.WithDefaults()
	log := r.logger.With().
		Str("topic", req.Topic).
		Str("difficulty", string(req.Difficulty)).
		Str("category", string(req.Category)).
		Logger()

	defer func() {
		if p := recover(); p != nil {
			res = Result{
				Questions: Placeholder(req.Category),
				Source:    SourcePlaceholder,
				Err:       fmt.Errorf("unexpected failure: %v", p),
			}
		}
		if res.Source != SourceRemote {
			log.Warn().Err(res.Err).Str("source", string(res.Source)).Msg("using offline questions")
		}
		r.metrics.observeResult(res.Source)
	}()

	key, ok, err := r.creds.Get(ctx)
	if err != nil {
		return Result{
			Questions: Placeholder(req.Category),
			Source:    SourcePlaceholder,
			Err:       fmt.Errorf("read credential: %w", err),
		}
	}

	reason := ErrNoCredential
	if ok {
		questions, err := r.generate(ctx, key, req)
		if err == nil {
			log.Debug().Int("count", len(questions)).Msg("questions generated")
			return Result{Questions: questions, Source: SourceRemote}
		}
		reason = err
	}

	r.wait(ctx)
	return Result{
		Questions: Fallback(req.Topic, req.Category, r.intn),
		Source:    SourceFallback,
		Err:       reason,
	}
}

// TestCredential makes one generation attempt with key and reports the
// outcome. Nothing is cached or stored.
func (r *Resolver) TestCredential(ctx context.Context, key string) error {
	if key == "" {
		return ErrNoCredential
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeCredentialTest)
	_, err := r.generate(ctx, key, Request{Topic: "HTML", Difficulty: "beginner", Count: 1}.WithDefaults())
	return err
}

func (r *Resolver) generate(ctx context.Context, key string, req Request) ([]Question, error) {
	if llm.PurposeFrom(ctx) == "unknown" {
		ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)
	}
	if r.config.RemoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.RemoteTimeout)
		defer cancel()
	}

	provider, err := r.provider(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	start := time.Now()
	resp, err := provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPrompt(req)},
		},
		MaxTokens:   r.config.MaxTokens,
		Temperature: r.config.Temperature,
	})
	r.metrics.observeRemote(time.Since(start))
	if err != nil {
		return nil, err
	}

	return parseQuestions(string(resp.Content), req.Category)
}

// wait sleeps for the fallback delay, returning early if ctx ends.
func (r *Resolver) wait(ctx context.Context) {
	if r.config.FallbackDelay <= 0 {
		return
	}
	t := time.NewTimer(r.config.FallbackDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/abhisek/devtutor/internal/config"
	"github.com/abhisek/devtutor/internal/credential"
	"github.com/abhisek/devtutor/internal/learner"
	"github.com/abhisek/devtutor/internal/llm"
	"github.com/abhisek/devtutor/internal/quiz"
	"github.com/abhisek/devtutor/internal/store"
	"github.com/abhisek/devtutor/internal/tutor"
	"github.com/abhisek/devtutor/internal/ui/theme"
)

// Services is the dependency graph shared by the TUI, the CLI commands and
// the HTTP server.
type Services struct {
	Config *config.App
	Store  *store.Store
	Logger zerolog.Logger

	Credentials *credential.Store
	Keys        credential.Source
	Learner     *learner.Repo
	ThemePrefs  *theme.Prefs

	Resolver *quiz.Resolver
	Tutor    *tutor.Service
	Metrics  *quiz.Metrics
	Registry *prometheus.Registry
}

// NewServices wires every service on top of an open store.
func NewServices(cfg *config.App, st *store.Store, logger zerolog.Logger) *Services {
	kv := st.KV()
	creds := credential.NewStore(kv)
	// A key saved by the learner wins over one from the environment.
	keys := credential.Chain{creds, credential.EnvSource{}}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := quiz.NewMetrics(reg)

	s := &Services{
		Config:      cfg,
		Store:       st,
		Logger:      logger,
		Credentials: creds,
		Keys:        keys,
		Learner:     learner.NewRepo(kv),
		ThemePrefs:  theme.NewPrefs(kv),
		Metrics:     metrics,
		Registry:    reg,
	}

	qcfg := quiz.DefaultConfig()
	qcfg.FallbackDelay = cfg.Quiz.FallbackDelay
	qcfg.RemoteTimeout = cfg.Quiz.RemoteTimeout
	s.Resolver = quiz.NewResolver(keys, s.questionProvider, qcfg,
		quiz.WithLogger(logger.With().Str("component", "quiz").Logger()),
		quiz.WithMetrics(metrics),
	)

	tcfg := tutor.DefaultConfig()
	tcfg.ReplyDelay = cfg.Tutor.ReplyDelay
	s.Tutor = tutor.NewService(kv, s.tutorProvider, tcfg,
		tutor.WithLogger(logger.With().Str("component", "tutor").Logger()),
	)

	return s
}

// llmConfig returns the provider settings for key. A key that came from the
// environment keeps the provider it was discovered for; a stored key is
// applied to the configured provider.
func (s *Services) llmConfig(key string) llm.Config {
	cfg, ok := llm.EnvConfig()
	if !ok || cfg.APIKey() != key {
		var err error
		cfg, err = llm.ConfigFromEnv()
		if err != nil {
			s.Logger.Warn().Err(err).Msg("invalid LLM settings, using defaults")
		}
		cfg = cfg.WithAPIKey(key)
	}
	cfg.Timeout = s.Config.Quiz.RemoteTimeout
	return cfg
}

// questionProvider builds a single-attempt provider for question sets.
func (s *Services) questionProvider(ctx context.Context, key string) (llm.Provider, error) {
	cfg := s.llmConfig(key)
	cfg.Retry = llm.SingleAttempt
	return llm.NewProvider(ctx, cfg, s.Store.EventRepo())
}

// tutorProvider prefers the stored key and otherwise builds a provider from
// the environment. It returns nil when no key is available, so the tutor
// falls back to canned replies.
func (s *Services) tutorProvider(ctx context.Context) (llm.Provider, error) {
	key, ok, err := s.Credentials.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read credential: %w", err)
	}
	if !ok {
		return llm.NewProviderFromEnv(ctx, s.Store.EventRepo())
	}
	return llm.NewProvider(ctx, s.llmConfig(key), s.Store.EventRepo())
}

// QuestionCache returns the configured shared cache, or nil when Redis is
// not configured. The returned closer releases the connection.
func (s *Services) QuestionCache(ctx context.Context) (quiz.Cache, func() error, error) {
	if !s.Config.Redis.Enabled() {
		return nil, func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: s.Config.Redis.Addr,
		DB:   s.Config.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", s.Config.Redis.Addr, err)
	}
	return quiz.NewRedisCache(client, s.Config.Quiz.CacheTTL), client.Close, nil
}

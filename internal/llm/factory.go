package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abhisek/devtutor/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
// A nil eventRepo skips event logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderGemini:
		base, err = NewGeminiRESTProvider(cfg.Gemini, &http.Client{Timeout: cfg.Timeout})
	case ProviderGeminiSDK:
		base, err = NewGeminiSDKProvider(ctx, cfg.Gemini)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	wrapped := base
	if eventRepo != nil {
		wrapped = WithLogging(wrapped, cfg.Provider, eventRepo)
	}
	if cfg.Retry.MaxAttempts > 1 {
		wrapped = WithRetry(wrapped, cfg.Retry)
	}
	return wrapped, nil
}

// NewProviderFromEnv builds a provider from DEVTUTOR_* variables, falling
// back to the standard vendor key variables. It returns (nil, nil) when no
// key is configured anywhere.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg, ok := EnvConfig()
	if !ok {
		return nil, nil
	}
	return NewProvider(ctx, cfg, eventRepo)
}

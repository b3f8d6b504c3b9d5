package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider creates the named provider from configuration.
// It returns the provider wrapped with retry and metrics middleware.
// A provider without a credential yields an error wrapping ErrCredentials.
func NewProvider(ctx context.Context, name string, cfg Config, logger *slog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch name {
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGroq:
		base, err = NewGroqProvider(cfg.Groq)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", name, err)
	}

	// caller → retry → metrics → base
	instrumented := WithMetrics(base, logger)
	return WithRetry(instrumented, cfg.Retry), nil
}

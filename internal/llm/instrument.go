package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/truthly/internal/metrics"
)

// MetricsProvider is a decorator that records every LLM request in the
// prometheus collectors and the structured log.
type MetricsProvider struct {
	inner  Provider
	logger *slog.Logger
}

// WithMetrics wraps a Provider with request accounting. A nil logger uses
// slog.Default.
func WithMetrics(p Provider, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsProvider{inner: p, logger: logger}
}

func (m *MetricsProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	model := m.inner.ModelID()

	resp, err := m.inner.Generate(ctx, req)

	attrs := []any{
		slog.String("model", model),
		slog.String("caller", CallerFrom(ctx)),
		slog.Int("prompt_chars", promptChars(req)),
		slog.Duration("latency", time.Since(start)),
	}

	if err != nil {
		metrics.LLMRequests.WithLabelValues(model, "error").Inc()
		m.logger.Warn("[LLM] Request failed", append(attrs, slog.String("error", err.Error()))...)
		return nil, err
	}

	metrics.LLMRequests.WithLabelValues(model, "success").Inc()
	metrics.LLMTokens.WithLabelValues(model, "input").Add(float64(resp.Usage.InputTokens))
	metrics.LLMTokens.WithLabelValues(model, "output").Add(float64(resp.Usage.OutputTokens))

	attrs = append(attrs,
		slog.Int("input_tokens", resp.Usage.InputTokens),
		slog.Int("output_tokens", resp.Usage.OutputTokens),
		slog.String("stop_reason", resp.StopReason),
	)
	if cost := LookupCost(model); cost != nil {
		attrs = append(attrs, slog.Float64("cost_usd", cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens)))
	}
	m.logger.Debug("[LLM] Request complete", attrs...)

	return resp, nil
}

func (m *MetricsProvider) ModelID() string {
	return m.inner.ModelID()
}

func promptChars(req Request) int {
	n := len(req.System)
	for _, msg := range req.Messages {
		n += len(msg.Content)
	}
	return n
}

// Package metrics holds the prometheus collectors shared by the ensemble,
// its sources and the LLM provider layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for SourceOutcomes besides the failure kinds.
const OutcomeSuccess = "success"

var (
	// SourceOutcomes counts source invocations by source and outcome
	// ("success", "Unavailable", "Timeout", "RemoteError", "ParseError").
	SourceOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truthly_source_outcomes_total",
		Help: "Prediction source invocations by outcome",
	}, []string{"source", "outcome"})

	// SourceLatency observes how long each source took to answer.
	SourceLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "truthly_source_latency_seconds",
		Help:    "Prediction source latency",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 20},
	}, []string{"source"})

	// Verdicts counts final verdicts by label and mode ("ensemble", "quick", "fallback").
	Verdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truthly_verdicts_total",
		Help: "Aggregate verdicts by label and mode",
	}, []string{"label", "mode"})

	// LLMTokens counts tokens consumed by judge providers.
	LLMTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truthly_llm_tokens_total",
		Help: "LLM tokens consumed by model and direction",
	}, []string{"model", "direction"})

	// LLMRequests counts LLM calls by model and success.
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truthly_llm_requests_total",
		Help: "LLM requests by model and result",
	}, []string{"model", "result"})
)

// ObserveSource records one source invocation.
func ObserveSource(source, outcome string, elapsed time.Duration) {
	SourceOutcomes.WithLabelValues(source, outcome).Inc()
	SourceLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

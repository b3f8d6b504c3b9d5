package ensemble

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/abhisek/truthly/internal/metrics"
	"github.com/abhisek/truthly/internal/news"
)

// DefaultWorkers matches the number of sources a full deployment configures.
const DefaultWorkers = 6

// DefaultSourceTimeout bounds each source invocation.
const DefaultSourceTimeout = 15 * time.Second

// OrchestratorConfig controls fan-out.
type OrchestratorConfig struct {
	// SourceTimeout is applied uniformly to every source of a batch.
	SourceTimeout time.Duration `yaml:"source_timeout" validate:"gt=0"`

	// Workers bounds how many sources run at once within one request.
	// Values below the number of sources queue the excess, and queue time
	// counts against SourceTimeout.
	Workers int `yaml:"workers" validate:"gte=1"`
}

// DefaultOrchestratorConfig returns the standard fan-out settings.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		SourceTimeout: DefaultSourceTimeout,
		Workers:       DefaultWorkers,
	}
}

// Orchestrator runs a set of sources concurrently and collects the
// results that arrive before the deadline.
type Orchestrator struct {
	cfg    OrchestratorConfig
	logger *slog.Logger
}

// NewOrchestrator creates an orchestrator. A nil logger uses slog.Default.
func NewOrchestrator(cfg OrchestratorConfig, logger *slog.Logger) *Orchestrator {
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = DefaultSourceTimeout
	}
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{cfg: cfg, logger: logger}
}

// SourceTimeout returns the per-source deadline.
func (o *Orchestrator) SourceTimeout() time.Duration { return o.cfg.SourceTimeout }

type outcome struct {
	index   int
	result  *news.PredictionResult
	failure *news.SourceFailure
	elapsed time.Duration
}

// Run dispatches req to every source and returns the successful results
// and the failures, both in the order the sources were given.
//
// Run returns once every source answered or the deadline passed, whichever
// comes first. Sources still running at the deadline are recorded as
// Timeout; whatever they return later is dropped.
func (o *Orchestrator) Run(ctx context.Context, req Request, sources []Source) ([]news.PredictionResult, []news.SourceFailure) {
	ctx, span := tracer().Start(ctx, "ensemble.Orchestrator.Run",
		trace.WithAttributes(
			attribute.String("request.id", req.ID),
			attribute.Int("sources", len(sources)),
		))
	defer span.End()

	if len(sources) == 0 {
		return nil, nil
	}

	runCtx, cancel := context.WithTimeout(ctx, o.cfg.SourceTimeout)
	defer cancel()

	slots := make([]*outcome, len(sources))
	// Buffered so that stragglers can always deliver and exit.
	done := make(chan outcome, len(sources))
	sem := semaphore.NewWeighted(int64(o.cfg.Workers))

	seen := make(map[string]struct{}, len(sources))
	pending := 0
	for i, src := range sources {
		id := src.ID()
		if _, dup := seen[id]; dup {
			o.logger.Warn("[Orchestrator] Duplicate source id, skipping",
				slog.String("request_id", req.ID),
				slog.String("source", id))
			slots[i] = &outcome{index: i, failure: news.Unavailable(id, "duplicate source id in ensemble")}
			continue
		}
		seen[id] = struct{}{}
		pending++

		go func(i int, src Source) {
			done <- o.invoke(runCtx, sem, i, src, req)
		}(i, src)
	}

collect:
	for pending > 0 {
		select {
		case out := <-done:
			slots[out.index] = &out
			pending--
		case <-runCtx.Done():
			break collect
		}
	}

	var (
		results  []news.PredictionResult
		failures []news.SourceFailure
	)
	for i, slot := range slots {
		id := sources[i].ID()
		if slot == nil {
			f := news.Timeout(id, fmt.Sprintf("no response within %s", o.cfg.SourceTimeout))
			metrics.ObserveSource(id, string(f.Kind), o.cfg.SourceTimeout)
			o.logFailure(req.ID, *f)
			failures = append(failures, *f)
			continue
		}
		if slot.failure != nil {
			metrics.ObserveSource(id, string(slot.failure.Kind), slot.elapsed)
			o.logFailure(req.ID, *slot.failure)
			failures = append(failures, *slot.failure)
			continue
		}
		metrics.ObserveSource(id, metrics.OutcomeSuccess, slot.elapsed)
		o.logger.Info("[Orchestrator] Source answered",
			slog.String("request_id", req.ID),
			slog.String("source", id),
			slog.String("label", string(slot.result.Label)),
			slog.Float64("confidence", slot.result.Confidence),
			slog.Duration("elapsed", slot.elapsed))
		results = append(results, *slot.result)
	}

	span.SetAttributes(
		attribute.Int("results", len(results)),
		attribute.Int("failures", len(failures)),
	)
	return results, failures
}

// invoke runs one source and never panics.
func (o *Orchestrator) invoke(ctx context.Context, sem *semaphore.Weighted, index int, src Source, req Request) (out outcome) {
	id := src.ID()
	out.index = index
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out.result = nil
			out.failure = news.RemoteError(id, fmt.Errorf("source panicked: %v", r))
		}
		out.elapsed = time.Since(start)
	}()

	if err := sem.Acquire(ctx, 1); err != nil {
		out.failure = news.Timeout(id, "no worker available before deadline")
		return out
	}
	defer sem.Release(1)

	ctx, span := tracer().Start(ctx, "ensemble.source.Predict",
		trace.WithAttributes(
			attribute.String("source.id", id),
			attribute.String("source.class", string(src.Class())),
		))
	defer span.End()

	res, err := src.Predict(ctx, req)
	if err != nil {
		f := AsFailure(id, err)
		span.SetStatus(codes.Error, f.Detail)
		out.failure = &f
		return out
	}

	normalized, err := normalize(id, src.Class(), res)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		out.failure = news.ParseError(id, err)
		return out
	}
	out.result = normalized
	return out
}

// normalize stamps the source identity onto a result and rejects values the
// aggregator cannot vote with.
func normalize(id string, class news.SourceClass, res *news.PredictionResult) (*news.PredictionResult, error) {
	if res == nil {
		return nil, fmt.Errorf("source returned neither result nor error")
	}
	if res.Label != news.LabelReal && res.Label != news.LabelFake {
		return nil, fmt.Errorf("unknown label %q", res.Label)
	}
	if math.IsNaN(res.Confidence) {
		return nil, fmt.Errorf("confidence is NaN")
	}

	r := *res
	r.SourceID = id
	r.Class = class
	r.Confidence = math.Max(0, math.Min(100, r.Confidence))
	return &r, nil
}

func (o *Orchestrator) logFailure(requestID string, f news.SourceFailure) {
	o.logger.Warn("[Orchestrator] Source failed",
		slog.String("request_id", requestID),
		slog.String("source", f.SourceID),
		slog.String("kind", string(f.Kind)),
		slog.String("error", f.Detail))
}

func tracer() trace.Tracer {
	return otel.Tracer("github.com/abhisek/truthly/internal/ensemble")
}

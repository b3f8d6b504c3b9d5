package ensemble

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/truthly/internal/explain"
	"github.com/abhisek/truthly/internal/heuristic"
	"github.com/abhisek/truthly/internal/metrics"
	"github.com/abhisek/truthly/internal/news"
)

// MaxBatchSize caps how many articles one batch call analyzes.
const MaxBatchSize = 5

// Quick mode confidence bounds.
const (
	quickFloor   = 50
	quickCeiling = 90
)

// HeuristicSourceID names the heuristic vote in quick mode output.
const HeuristicSourceID = "heuristic"

// Analyzer is the entry point of the ensemble. It owns the configured
// sources and runs them through the orchestrator and aggregator.
type Analyzer struct {
	orchestrator *Orchestrator
	aggregator   *Aggregator
	sources      []Source
	logger       *slog.Logger
}

// NewAnalyzer wires an analyzer. Sources are kept in the given priority
// order, which is also the order of Contributing and Failed.
func NewAnalyzer(o *Orchestrator, a *Aggregator, sources []Source, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		orchestrator: o,
		aggregator:   a,
		sources:      append([]Source(nil), sources...),
		logger:       logger,
	}
}

// Sources returns the configured sources in priority order.
func (a *Analyzer) Sources() []Source {
	return append([]Source(nil), a.sources...)
}

// Analyze runs the full ensemble over one article. It always returns a
// verdict; when no source contributes, the fallback verdict is returned.
// The article is expected to be validated and clamped by the caller.
func (a *Analyzer) Analyze(ctx context.Context, article news.Article) news.AggregateVerdict {
	req := Request{
		ID:       uuid.NewString(),
		Article:  article,
		Features: heuristic.Score(article.Title, article.Content),
	}
	start := time.Now()

	results, failures := a.orchestrator.Run(ctx, req, a.sources)
	verdict := a.aggregator.Aggregate(results, failures)
	if verdict.Details.Mode != ModeFallback {
		verdict.Summary = explain.Synthesize(req.Features, verdict.Label, verdict.Confidence)
	}

	metrics.Verdicts.WithLabelValues(string(verdict.Label), verdict.Details.Mode).Inc()
	a.logger.Info("[Analyzer] Analysis complete",
		slog.String("request_id", req.ID),
		slog.String("label", string(verdict.Label)),
		slog.Float64("confidence", verdict.Confidence),
		slog.Int("contributing", len(verdict.Contributing)),
		slog.Int("failed", len(verdict.Failed)),
		slog.Duration("elapsed", time.Since(start)))
	return verdict
}

// Quick scores an article with the heuristic scorer only. It performs no
// I/O and never consults the configured sources.
func (a *Analyzer) Quick(article news.Article) news.AggregateVerdict {
	f := heuristic.Score(article.Title, article.Content)
	vote := f.Prediction(HeuristicSourceID)

	label := news.VerdictFor(vote.Label)
	confidence := math.Max(quickFloor, math.Min(quickCeiling, vote.Confidence))
	realProb := confidence
	if !label.IsReal() {
		realProb = 100 - confidence
	}

	details := news.EnsembleDetails{
		LocalSourcesUsed: 1,
		TotalPredictions: 1,
		ConsensusRatio:   1,
		Mode:             ModeQuick,
	}
	if label.IsReal() {
		details.RealVotes = 1
	} else {
		details.FakeVotes = 1
	}

	metrics.Verdicts.WithLabelValues(string(label), ModeQuick).Inc()
	return news.AggregateVerdict{
		Label:           label,
		Confidence:      confidence,
		RealProbability: realProb,
		FakeProbability: 100 - realProb,
		Summary:         explain.Synthesize(f, label, confidence),
		Reasoning:       vote.Reasoning,
		Contributing:    []news.PredictionResult{vote},
		Failed:          []news.SourceFailure{},
		Details:         details,
	}
}

// BatchItem is the outcome for one article of a batch.
type BatchItem struct {
	Index   int                    `json:"index"`
	Title   string                 `json:"title"`
	Verdict *news.AggregateVerdict `json:"verdict,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// AnalyzeBatch analyzes up to MaxBatchSize articles, at most concurrency
// at a time. Articles past the cap are ignored. Items that fail validation
// carry an error instead of a verdict. Results keep input order.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, articles []news.Article, quick bool, concurrency int) []BatchItem {
	if len(articles) > MaxBatchSize {
		a.logger.Warn("[Analyzer] Batch truncated",
			slog.Int("requested", len(articles)),
			slog.Int("limit", MaxBatchSize))
		articles = articles[:MaxBatchSize]
	}
	if concurrency < 1 {
		concurrency = 1
	}

	items := make([]BatchItem, len(articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, article := range articles {
		g.Go(func() error {
			item := BatchItem{Index: i, Title: article.Title}
			if err := article.Validate(); err != nil {
				item.Error = err.Error()
				items[i] = item
				return nil
			}
			clamped := article.Clamp()
			var v news.AggregateVerdict
			if quick {
				v = a.Quick(clamped)
			} else {
				v = a.Analyze(gctx, clamped)
			}
			item.Verdict = &v
			items[i] = item
			return nil
		})
	}
	// Items never return errors; each slot is filled independently.
	_ = g.Wait()
	return items
}

package ensemble

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/truthly/internal/news"
)

// Fallback text used when no source contributed.
const (
	FallbackSummary    = "Analysis could not be completed due to service unavailability. Manual verification recommended."
	FallbackReasoning  = "Fallback response - no analysis services available"
	FallbackConfidence = 60.0
)

// Mode values reported in EnsembleDetails.
const (
	ModeEnsemble = "ensemble"
	ModeQuick    = "quick"
	ModeFallback = "fallback"
)

// Weights are the consensus multipliers per source class.
type Weights struct {
	Heuristic float64 `yaml:"heuristic" validate:"gt=0"`
	Local     float64 `yaml:"local" validate:"gt=0"`
	Search    float64 `yaml:"search" validate:"gt=0"`
	Remote    float64 `yaml:"remote" validate:"gt=0"`
	Other     float64 `yaml:"other" validate:"gt=0"`
}

// DefaultWeights favours the deterministic scorer, then local models, then
// search corroboration, then remote judges.
func DefaultWeights() Weights {
	return Weights{
		Heuristic: 1.8,
		Local:     1.5,
		Search:    1.3,
		Remote:    1.2,
		Other:     1.0,
	}
}

// For returns the weight of a source class.
func (w Weights) For(c news.SourceClass) float64 {
	switch c {
	case news.ClassHeuristic:
		return w.Heuristic
	case news.ClassLocal:
		return w.Local
	case news.ClassSearch:
		return w.Search
	case news.ClassRemote:
		return w.Remote
	default:
		return w.Other
	}
}

// Bounds clamps the ensemble confidence.
type Bounds struct {
	Floor   float64 `yaml:"floor" validate:"gte=0,lte=100"`
	Ceiling float64 `yaml:"ceiling" validate:"gte=0,lte=100,gtefield=Floor"`
}

// DefaultBounds keeps ensemble confidence inside [45, 95].
func DefaultBounds() Bounds {
	return Bounds{Floor: 45, Ceiling: 95}
}

// Aggregator reduces source results to one verdict. It is pure; the same
// inputs always yield the same verdict.
type Aggregator struct {
	weights Weights
	bounds  Bounds
}

// NewAggregator creates an aggregator.
func NewAggregator(w Weights, b Bounds) *Aggregator {
	return &Aggregator{weights: w, bounds: b}
}

// Aggregate computes the weighted verdict. The summary is left empty for
// the caller to fill in. With no results it returns Fallback(failures).
func (a *Aggregator) Aggregate(results []news.PredictionResult, failures []news.SourceFailure) news.AggregateVerdict {
	if len(results) == 0 {
		return Fallback(failures)
	}

	var (
		weightedReal, weightedFake float64
		realVotes, fakeVotes       int
		confSum                    float64
		details                    news.EnsembleDetails
	)
	for _, r := range results {
		w := a.weights.For(r.Class)
		if r.Label == news.LabelReal {
			weightedReal += w * r.Confidence / 100
			realVotes++
		} else {
			weightedFake += w * r.Confidence / 100
			fakeVotes++
		}
		confSum += r.Confidence
		if r.Class == news.ClassRemote {
			details.APISourcesUsed++
		} else {
			details.LocalSourcesUsed++
		}
	}

	label := news.VerdictUntrustworthy
	if weightedReal > weightedFake {
		label = news.VerdictTrustworthy
	}

	confidence := a.bounds.Floor
	realProb, fakeProb := 50.0, 50.0
	if total := weightedReal + weightedFake; total > 0 {
		confidence = clamp(round1(100*math.Max(weightedReal, weightedFake)/total), a.bounds.Floor, a.bounds.Ceiling)
		realProb = round1(100 * weightedReal / total)
		fakeProb = round1(100 - realProb)
	}

	details.TotalPredictions = len(results)
	details.RealVotes = realVotes
	details.FakeVotes = fakeVotes
	details.ConsensusRatio = round2(float64(max(realVotes, fakeVotes)) / float64(len(results)))
	details.Mode = ModeEnsemble

	return news.AggregateVerdict{
		Label:           label,
		Confidence:      confidence,
		RealProbability: realProb,
		FakeProbability: fakeProb,
		Reasoning:       a.reasoning(results, realVotes, fakeVotes, confSum, weightedReal, weightedFake),
		Contributing:    append([]news.PredictionResult(nil), results...),
		Failed:          nonNil(failures),
		Details:         details,
	}
}

func (a *Aggregator) reasoning(results []news.PredictionResult, realVotes, fakeVotes int, confSum, wr, wf float64) string {
	classes := map[news.SourceClass]int{}
	ids := make([]string, 0, len(results))
	for _, r := range results {
		classes[r.Class]++
		ids = append(ids, r.SourceID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ensemble analysis: %d trustworthy votes, %d untrustworthy votes. ", realVotes, fakeVotes)
	fmt.Fprintf(&b, "Average confidence: %.1f%%. ", confSum/float64(len(results)))
	fmt.Fprintf(&b, "Weighted scores: real %.2f, fake %.2f. ", wr, wf)
	fmt.Fprintf(&b, "Sources by class: heuristic=%d, local=%d, search=%d, remote=%d",
		classes[news.ClassHeuristic], classes[news.ClassLocal], classes[news.ClassSearch], classes[news.ClassRemote])
	if n := classes[news.ClassOther]; n > 0 {
		fmt.Fprintf(&b, ", other=%d", n)
	}
	fmt.Fprintf(&b, ". Contributing: %s.", strings.Join(ids, ", "))
	return b.String()
}

// Fallback is the verdict reported when no source produced an opinion.
func Fallback(failures []news.SourceFailure) news.AggregateVerdict {
	return news.AggregateVerdict{
		Label:           news.VerdictTrustworthy,
		Confidence:      FallbackConfidence,
		RealProbability: 50,
		FakeProbability: 50,
		Summary:         FallbackSummary,
		Reasoning:       FallbackReasoning,
		Contributing:    []news.PredictionResult{},
		Failed:          nonNil(failures),
		Details:         news.EnsembleDetails{Mode: ModeFallback},
	}
}

func nonNil(failures []news.SourceFailure) []news.SourceFailure {
	if len(failures) == 0 {
		return []news.SourceFailure{}
	}
	return append([]news.SourceFailure(nil), failures...)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Package ensemble fans an article out to heterogeneous prediction sources,
// collects whatever answers arrive in time, and reduces them to one
// weighted verdict.
package ensemble

import (
	"context"
	"errors"

	"github.com/abhisek/truthly/internal/heuristic"
	"github.com/abhisek/truthly/internal/news"
)

// Source produces one opinion about an article.
//
// Implementations convert every transport, parsing or configuration problem
// into a *news.SourceFailure. Any other error returned is treated as a
// RemoteError by the orchestrator.
type Source interface {
	// ID uniquely identifies the source within one ensemble.
	ID() string

	// Class selects the consensus weight applied to this source's vote.
	Class() news.SourceClass

	// Predict returns an opinion, or an error describing why none exists.
	// The context carries the per-source deadline.
	Predict(ctx context.Context, req Request) (*news.PredictionResult, error)
}

// Request is the per-call input handed to every source. Each source gets
// its own copy.
type Request struct {
	// ID correlates log lines of one analysis.
	ID      string
	Article news.Article

	// Features are computed once per request and shared by the heuristic
	// vote and the explanation.
	Features heuristic.FeatureScores
}

// AsFailure maps an error returned by a source onto the failure taxonomy.
func AsFailure(sourceID string, err error) news.SourceFailure {
	var sf *news.SourceFailure
	if errors.As(err, &sf) {
		f := *sf
		if f.SourceID == "" {
			f.SourceID = sourceID
		}
		return f
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return *news.Timeout(sourceID, err.Error())
	}
	return *news.RemoteError(sourceID, err)
}

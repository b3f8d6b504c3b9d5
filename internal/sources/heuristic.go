package sources

import (
	"context"

	"github.com/abhisek/truthly/internal/ensemble"
	"github.com/abhisek/truthly/internal/news"
)

// HeuristicSource votes with the request's precomputed feature scores. It
// never fails and never blocks.
type HeuristicSource struct{}

// NewHeuristicSource returns the keyword heuristic as an ensemble member.
func NewHeuristicSource() *HeuristicSource { return &HeuristicSource{} }

func (*HeuristicSource) ID() string              { return ensemble.HeuristicSourceID }
func (*HeuristicSource) Class() news.SourceClass { return news.ClassHeuristic }

func (s *HeuristicSource) Predict(_ context.Context, req ensemble.Request) (*news.PredictionResult, error) {
	p := req.Features.Prediction(s.ID())
	return &p, nil
}

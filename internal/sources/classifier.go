package sources

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/abhisek/truthly/internal/classifier"
	"github.com/abhisek/truthly/internal/ensemble"
	"github.com/abhisek/truthly/internal/news"
)

const (
	classifierTitleLimit   = 100
	classifierContentLimit = 300
)

// ClassifierSource votes with one model from a classifier registry.
type ClassifierSource struct {
	name     string
	registry *classifier.Registry
}

// NewClassifierSource binds a source to the named model. The model may be
// absent from the registry, in which case every prediction fails as
// Unavailable with the load failure reason.
func NewClassifierSource(name string, registry *classifier.Registry) *ClassifierSource {
	return &ClassifierSource{name: name, registry: registry}
}

func (s *ClassifierSource) ID() string            { return "classifier:" + s.name }
func (*ClassifierSource) Class() news.SourceClass { return news.ClassLocal }

func (s *ClassifierSource) Predict(ctx context.Context, req ensemble.Request) (*news.PredictionResult, error) {
	model, ok := s.registry.Get(s.name)
	if !ok {
		reason := s.registry.Failed()[s.name]
		if reason == "" {
			reason = "model not loaded"
		}
		return nil, news.Unavailable(s.ID(), reason)
	}

	text := Truncate(req.Article.Title, classifierTitleLimit) + " " +
		Truncate(req.Article.Content, classifierContentLimit)

	pred, err := model.Classify(ctx, text)
	if err != nil {
		switch {
		case errors.Is(err, classifier.ErrMalformed):
			return nil, news.ParseError(s.ID(), err)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, news.Timeout(s.ID(), err.Error())
		default:
			return nil, news.RemoteError(s.ID(), err)
		}
	}

	meta := map[string]any{"model": model.Name()}
	if len(pred.Scores) > 0 {
		meta["scores"] = maps.Clone(pred.Scores)
	}
	return &news.PredictionResult{
		SourceID:   s.ID(),
		Class:      news.ClassLocal,
		Label:      pred.Label,
		Confidence: pred.Confidence,
		Reasoning:  fmt.Sprintf("Local model %s: %s with %.1f%% confidence", model.Name(), pred.Label, pred.Confidence),
		Metadata:   meta,
	}, nil
}

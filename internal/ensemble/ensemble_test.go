package ensemble

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/truthly/internal/news"
)

// fakeSource is a scripted Source for tests.
type fakeSource struct {
	id    string
	class news.SourceClass
	label news.Label
	conf  float64
	delay time.Duration
	err   error
	panic bool
	// ignoreCtx makes the source sleep through cancellation.
	ignoreCtx bool
}

func (f *fakeSource) ID() string              { return f.id }
func (f *fakeSource) Class() news.SourceClass { return f.class }

func (f *fakeSource) Predict(ctx context.Context, req Request) (*news.PredictionResult, error) {
	if f.panic {
		panic("boom")
	}
	if f.delay > 0 {
		if f.ignoreCtx {
			time.Sleep(f.delay)
		} else {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &news.PredictionResult{
		Label:      f.label,
		Confidence: f.conf,
		Reasoning:  fmt.Sprintf("%s says %s", f.id, f.label),
	}, nil
}

func voteReal(id string, conf float64) *fakeSource {
	return &fakeSource{id: id, class: news.ClassOther, label: news.LabelReal, conf: conf}
}

func voteFake(id string, conf float64) *fakeSource {
	return &fakeSource{id: id, class: news.ClassOther, label: news.LabelFake, conf: conf}
}

func unitWeights() Weights {
	return Weights{Heuristic: 1, Local: 1, Search: 1, Remote: 1, Other: 1}
}

var errBoom = errors.New("upstream exploded")

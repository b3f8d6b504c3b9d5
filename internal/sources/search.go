package sources

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/truthly/internal/ensemble"
	"github.com/abhisek/truthly/internal/news"
	"github.com/abhisek/truthly/internal/search"
)

// SearchSourceID identifies the web-search verifier.
const SearchSourceID = "search"

// SearchSource votes by counting trusted outlets among search results for
// the headline.
type SearchSource struct {
	verifier *search.Verifier
}

// NewSearchSource wraps a verifier. A nil verifier means no search API key
// was configured.
func NewSearchSource(v *search.Verifier) *SearchSource {
	return &SearchSource{verifier: v}
}

func (*SearchSource) ID() string              { return SearchSourceID }
func (*SearchSource) Class() news.SourceClass { return news.ClassSearch }

func (s *SearchSource) Predict(ctx context.Context, req ensemble.Request) (*news.PredictionResult, error) {
	if s.verifier == nil {
		return nil, news.Unavailable(SearchSourceID, "SERPER_API_KEY is not set")
	}

	eval, err := s.verifier.Verify(ctx, req.Article.Title, req.Article.Content)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrUnauthorized):
			return nil, news.Unavailable(SearchSourceID, err.Error())
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			return nil, news.Timeout(SearchSourceID, err.Error())
		case errors.Is(err, search.ErrMalformed):
			return nil, news.ParseError(SearchSourceID, err)
		default:
			return nil, news.RemoteError(SearchSourceID, err)
		}
	}

	return &news.PredictionResult{
		SourceID:   SearchSourceID,
		Class:      news.ClassSearch,
		Label:      eval.Label,
		Confidence: eval.Confidence,
		Reasoning: fmt.Sprintf("Search verification: %d/%d results from trusted sources (%.1f%% trust ratio)",
			eval.Trusted, eval.Total, eval.TrustRatio*100),
		Metadata: map[string]any{
			"trusted_results": eval.Trusted,
			"total_results":   eval.Total,
			"trust_ratio":     eval.TrustRatio,
			"queries":         eval.Queries,
			"matched_domains": eval.MatchedDomains,
		},
	}, nil
}

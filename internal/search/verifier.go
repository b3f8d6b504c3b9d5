package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/abhisek/truthly/internal/news"
)

// ErrNoResults is returned when every query failed.
var ErrNoResults = errors.New("all search queries failed")

const queryTitleLength = 60

// Evaluation is the outcome of corroborating one headline.
type Evaluation struct {
	Label          news.Label
	Confidence     float64
	Trusted        int
	Total          int
	TrustRatio     float64
	Queries        int
	MatchedDomains []string
}

// Verifier searches for a headline and counts hits on trusted domains.
type Verifier struct {
	searcher Searcher
	cache    Cache
	limiter  *rate.Limiter
	domains  []string
	num      int
	logger   *slog.Logger
}

// Option customizes a Verifier.
type Option func(*Verifier)

// WithCache memoizes query results.
func WithCache(c Cache) Option {
	return func(v *Verifier) { v.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Verifier) { v.logger = l }
}

// NewVerifier creates a verifier. Queries are paced by cfg.QueryInterval
// across all callers sharing the verifier.
func NewVerifier(s Searcher, cfg Config, opts ...Option) *Verifier {
	limit := rate.Inf
	if cfg.QueryInterval > 0 {
		limit = rate.Every(cfg.QueryInterval)
	}
	domains := cfg.TrustedDomains
	if len(domains) == 0 {
		domains = DefaultTrustedDomains
	}
	num := cfg.ResultsPerQuery
	if num <= 0 {
		num = 5
	}

	v := &Verifier{
		searcher: s,
		limiter:  rate.NewLimiter(limit, 1),
		domains:  domains,
		num:      num,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Queries builds the search queries for a headline. When the title is
// blank the opening of the body stands in for it.
func Queries(title, content string) []string {
	subject := strings.TrimSpace(title)
	if subject == "" {
		subject = strings.Join(strings.Fields(content), " ")
	}
	if utf8.RuneCountInString(subject) > queryTitleLength {
		subject = string([]rune(subject)[:queryTitleLength])
	}
	subject = strings.ReplaceAll(subject, `"`, "")
	return []string{
		fmt.Sprintf(`"%s" news verification`, subject),
		fmt.Sprintf(`"%s" fact check`, subject),
	}
}

// Verify runs the queries and scores how many results come from trusted
// domains. A query that fails is skipped; if every query fails the error
// wraps ErrNoResults and the last failure.
func (v *Verifier) Verify(ctx context.Context, title, content string) (Evaluation, error) {
	queries := Queries(title, content)
	var (
		results []Result
		lastErr error
		ok      int
	)
	for _, q := range queries {
		hits, err := v.search(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return Evaluation{}, ctx.Err()
			}
			v.logger.Warn("[SearchVerifier] Query failed",
				slog.String("query", q),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}
		ok++
		results = append(results, hits...)
	}
	if ok == 0 {
		return Evaluation{}, fmt.Errorf("%w: %w", ErrNoResults, lastErr)
	}

	eval := Evaluation{Total: len(results), Queries: len(queries)}
	seen := map[string]bool{}
	for _, r := range results {
		if d, trusted := v.trustedDomain(r.Link); trusted {
			eval.Trusted++
			if !seen[d] {
				seen[d] = true
				eval.MatchedDomains = append(eval.MatchedDomains, d)
			}
		}
	}
	eval.Label, eval.Confidence, eval.TrustRatio = Score(eval.Trusted, eval.Total)

	v.logger.Info("[SearchVerifier] Search summary",
		slog.Int("trusted", eval.Trusted),
		slog.Int("total", eval.Total))
	return eval, nil
}

func (v *Verifier) search(ctx context.Context, query string) ([]Result, error) {
	if v.cache != nil {
		if hits, ok := v.cache.Get(ctx, query); ok {
			return hits, nil
		}
	}
	if err := v.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	hits, err := v.searcher.Search(ctx, query, v.num)
	if err != nil {
		return nil, err
	}
	if v.cache != nil {
		v.cache.Set(ctx, query, hits)
	}
	return hits, nil
}

// trustedDomain matches a result's host against the trusted list, exactly
// or as a subdomain.
func (v *Verifier) trustedDomain(link string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return "", false
	}
	for _, d := range v.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return d, true
		}
	}
	return "", false
}

// Score converts trusted/total counts into a vote.
//
// Confidence is clamp(45, 90, 60*ratio + boost + 40), where the boost
// grows with the number of trusted hits. Zero trusted hits therefore always
// lands on the 45 floor. Five or more results with none trusted reads as
// Fake. No results at all is a neutral Real at 50.
func Score(trusted, total int) (news.Label, float64, float64) {
	if total == 0 {
		return news.LabelReal, 50, 0
	}

	ratio := float64(trusted) / float64(total)
	base := ratio * 60
	switch {
	case trusted >= 3:
		base += 25
	case trusted >= 2:
		base += 20
	case trusted >= 1:
		base += 15
	}
	confidence := math.Round(math.Min(90, math.Max(45, base+40))*10) / 10

	label := news.LabelReal
	if trusted == 0 && total >= 5 {
		label = news.LabelFake
	}
	return label, confidence, math.Round(ratio*1000) / 1000
}

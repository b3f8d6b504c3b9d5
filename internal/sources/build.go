package sources

import (
	"context"
	"log/slog"
	"sort"

	"github.com/abhisek/truthly/internal/classifier"
	"github.com/abhisek/truthly/internal/ensemble"
	"github.com/abhisek/truthly/internal/llm"
	"github.com/abhisek/truthly/internal/news"
	"github.com/abhisek/truthly/internal/search"
)

// Options selects and configures the ensemble members.
type Options struct {
	Classifiers classifier.Config
	LLM         llm.Config
	Search      search.Config
}

// Status describes whether one ensemble member can run.
type Status struct {
	ID        string           `json:"id"`
	Class     news.SourceClass `json:"class"`
	Available bool             `json:"available"`
	Reason    string           `json:"reason,omitempty"`
}

// Set is the built ensemble plus the resources it owns.
type Set struct {
	Sources []ensemble.Source
	status  []Status
	closers []func()
}

// Build creates every configured source in priority order: heuristic,
// local classifiers, web search, LLM judges. Sources that cannot run are
// still included so that each analysis reports them as Unavailable.
func Build(ctx context.Context, opts Options, logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.Default()
	}
	set := &Set{}

	set.add(NewHeuristicSource(), "")

	registry := classifier.Load(opts.Classifiers, logger)
	for _, name := range registry.Loaded() {
		set.add(NewClassifierSource(name, registry), "")
	}
	failed := registry.Failed()
	names := make([]string, 0, len(failed))
	for name := range failed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		set.add(NewClassifierSource(name, registry), failed[name])
	}

	set.add(set.searchSource(ctx, opts.Search, logger))

	judgeCfg := JudgeConfig{MaxTokens: opts.LLM.MaxTokens, Temperature: opts.LLM.Temperature}
	for _, name := range opts.LLM.Judges {
		provider, err := llm.NewProvider(ctx, name, opts.LLM, logger)
		if err != nil {
			logger.Warn("[Sources] Judge unavailable",
				slog.String("judge", name),
				slog.String("error", err.Error()))
			set.add(NewUnavailableJudge(name, err), err.Error())
			continue
		}
		set.add(NewJudgeSource(name, provider, judgeCfg), "")
	}

	logger.Info("[Sources] Ensemble built",
		slog.Int("sources", len(set.Sources)),
		slog.Int("available", set.Available()))
	return set
}

func (s *Set) searchSource(ctx context.Context, cfg search.Config, logger *slog.Logger) (*SearchSource, string) {
	if cfg.APIKey == "" {
		return NewSearchSource(nil), "SERPER_API_KEY is not set"
	}

	opts := []search.Option{search.WithLogger(logger)}
	if cfg.Cache.Address != "" {
		cache, err := search.NewValkeyCache(ctx, cfg.Cache, logger)
		if err != nil {
			logger.Warn("[Sources] Search cache disabled", slog.String("error", err.Error()))
		} else {
			opts = append(opts, search.WithCache(cache))
			s.closers = append(s.closers, cache.Close)
		}
	}

	client := search.NewSerperClient(cfg.Endpoint, cfg.APIKey)
	return NewSearchSource(search.NewVerifier(client, cfg, opts...)), ""
}

func (s *Set) add(src ensemble.Source, reason string) {
	s.Sources = append(s.Sources, src)
	s.status = append(s.status, Status{
		ID:        src.ID(),
		Class:     src.Class(),
		Available: reason == "",
		Reason:    reason,
	})
}

// Status lists every source in ensemble order.
func (s *Set) Status() []Status {
	return append([]Status(nil), s.status...)
}

// Available counts the sources expected to produce a vote.
func (s *Set) Available() int {
	n := 0
	for _, st := range s.status {
		if st.Available {
			n++
		}
	}
	return n
}

// Close releases connections held by sources.
func (s *Set) Close() {
	for _, c := range s.closers {
		c()
	}
}

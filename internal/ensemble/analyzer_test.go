package ensemble

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/truthly/internal/news"
)

func newTestAnalyzer(timeout time.Duration, sources ...Source) *Analyzer {
	o := NewOrchestrator(OrchestratorConfig{SourceTimeout: timeout, Workers: DefaultWorkers}, nil)
	return NewAnalyzer(o, NewAggregator(unitWeights(), DefaultBounds()), sources, nil)
}

var sampleArticle = news.Article{
	Title:   "Ministry publishes annual budget report",
	Content: "According to official statements, the government published its annual report today. The document was reviewed by independent analysts.",
}

func TestAnalyze_EmptySourceSetFallsBack(t *testing.T) {
	a := newTestAnalyzer(time.Second)
	v := a.Analyze(context.Background(), sampleArticle)

	if v.Label != news.VerdictTrustworthy || v.Confidence != 60 {
		t.Fatalf("expected fallback verdict, got %s/%v", v.Label, v.Confidence)
	}
	if v.Summary != FallbackSummary || v.Reasoning != FallbackReasoning {
		t.Errorf("fallback text altered: %q / %q", v.Summary, v.Reasoning)
	}
	if v.RealProbability != 50 || v.FakeProbability != 50 {
		t.Errorf("fallback probabilities = %v/%v", v.RealProbability, v.FakeProbability)
	}
}

func TestAnalyze_AllSourcesFail(t *testing.T) {
	bad := voteReal("bad", 80)
	bad.err = errBoom
	a := newTestAnalyzer(time.Second, bad)

	v := a.Analyze(context.Background(), sampleArticle)
	if v.Details.Mode != ModeFallback {
		t.Fatalf("mode = %s, want fallback", v.Details.Mode)
	}
	if len(v.Failed) != 1 || v.Failed[0].Kind != news.FailureRemoteError {
		t.Errorf("failed = %+v", v.Failed)
	}
}

func TestAnalyze_TimeoutScenario(t *testing.T) {
	hang := voteReal("hang", 99)
	hang.delay = 10 * time.Second
	a := newTestAnalyzer(80*time.Millisecond, hang, voteReal("a", 80), voteFake("b", 60))

	start := time.Now()
	v := a.Analyze(context.Background(), sampleArticle)
	if time.Since(start) > time.Second {
		t.Fatalf("Analyze did not respect the source timeout")
	}

	if v.Label != news.VerdictTrustworthy {
		t.Errorf("label = %s", v.Label)
	}
	if v.Confidence != 57.1 {
		t.Errorf("confidence = %v, want 57.1", v.Confidence)
	}
	if len(v.Failed) != 1 || v.Failed[0].Kind != news.FailureTimeout {
		t.Errorf("failed = %+v", v.Failed)
	}
	if v.Summary == "" || strings.Contains(v.Summary, sampleArticle.Title) {
		t.Errorf("summary must be non-empty and never quote the article: %q", v.Summary)
	}
}

func TestQuick_HeuristicOnly(t *testing.T) {
	called := voteFake("never", 99)
	called.panic = true
	a := newTestAnalyzer(time.Second, called)

	v := a.Quick(news.Article{
		Title:   "SHOCKING secret they don't want you to know",
		Content: "You won't believe this miracle cure. Doctors hate it! The shocking truth is being hidden by the elite.",
	})

	if v.Details.Mode != ModeQuick {
		t.Fatalf("mode = %s", v.Details.Mode)
	}
	if v.Label != news.VerdictUntrustworthy {
		t.Errorf("label = %s, want Untrustworthy", v.Label)
	}
	if v.Confidence < 50 || v.Confidence > 90 {
		t.Errorf("confidence %v outside [50, 90]", v.Confidence)
	}
	if v.RealProbability != 100-v.Confidence {
		t.Errorf("real probability = %v, want %v", v.RealProbability, 100-v.Confidence)
	}
	if len(v.Contributing) != 1 || v.Contributing[0].SourceID != HeuristicSourceID {
		t.Errorf("contributing = %+v", v.Contributing)
	}
}

func TestAnalyzeBatch_CapAndOrder(t *testing.T) {
	a := newTestAnalyzer(time.Second, voteReal("a", 80))

	articles := make([]news.Article, 7)
	for i := range articles {
		articles[i] = sampleArticle
	}
	articles[2] = news.Article{Title: "  ", Content: ""}

	items := a.AnalyzeBatch(context.Background(), articles, false, 2)
	if len(items) != MaxBatchSize {
		t.Fatalf("expected %d items, got %d", MaxBatchSize, len(items))
	}
	for i, item := range items {
		if item.Index != i {
			t.Errorf("items[%d].Index = %d", i, item.Index)
		}
	}
	if items[2].Error == "" || items[2].Verdict != nil {
		t.Errorf("empty article should fail validation: %+v", items[2])
	}
	if items[0].Verdict == nil || items[0].Verdict.Details.Mode != ModeEnsemble {
		t.Errorf("items[0] = %+v", items[0])
	}
}

func TestAnalyzeBatch_Quick(t *testing.T) {
	a := newTestAnalyzer(time.Second)
	items := a.AnalyzeBatch(context.Background(), []news.Article{sampleArticle}, true, 0)
	if len(items) != 1 || items[0].Verdict == nil || items[0].Verdict.Details.Mode != ModeQuick {
		t.Fatalf("unexpected %+v", items)
	}
}

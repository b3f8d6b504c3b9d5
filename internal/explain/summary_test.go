package explain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/abhisek/truthly/internal/heuristic"
	"github.com/abhisek/truthly/internal/news"
)

func TestSynthesize_ConfidenceBands(t *testing.T) {
	f := heuristic.FeatureScores{TrustCount: 1, WordCount: 120, AvgSentenceLength: 12}
	tests := []struct {
		label      news.Verdict
		confidence float64
		prefix     string
	}{
		{news.VerdictTrustworthy, 90, "High confidence in content authenticity."},
		{news.VerdictTrustworthy, 85, "High confidence in content authenticity."},
		{news.VerdictTrustworthy, 70, "Good confidence in content reliability."},
		{news.VerdictTrustworthy, 69.9, "Moderate confidence in content trustworthiness."},
		{news.VerdictUntrustworthy, 88, "High confidence this content is misleading."},
		{news.VerdictUntrustworthy, 72, "Strong indicators of unreliable information."},
		{news.VerdictUntrustworthy, 50, "Multiple concerns about content authenticity."},
	}
	for _, tt := range tests {
		got := Synthesize(f, tt.label, tt.confidence)
		if !strings.HasPrefix(got, tt.prefix) {
			t.Errorf("Synthesize(%s, %v) = %q, want prefix %q", tt.label, tt.confidence, got, tt.prefix)
		}
	}
}

func TestSynthesize_TrustworthyReasons(t *testing.T) {
	f := heuristic.FeatureScores{
		TrustCount:        4,
		QualityCount:      2,
		WordCount:         250,
		AvgSentenceLength: 18,
	}
	got := Synthesize(f, news.VerdictTrustworthy, 75)
	for _, want := range []string{
		"multiple authoritative source references",
		"evidence-based reporting patterns",
		"professional writing structure",
		"comprehensive coverage",
		"absence of sensationalist language",
		"no conspiracy-related terminology",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}

func TestSynthesize_TrustworthyFallbackSentence(t *testing.T) {
	f := heuristic.FeatureScores{SuspicionCount: 1, ClickbaitCount: 1, WordCount: 40, AvgSentenceLength: 8}
	got := Synthesize(f, news.VerdictTrustworthy, 60)
	want := "Moderate confidence in content trustworthiness. Content follows standard journalistic patterns."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSynthesize_UntrustworthyConcerns(t *testing.T) {
	f := heuristic.FeatureScores{
		SuspicionCount:    3,
		ClickbaitCount:    2,
		WordCount:         40,
		AvgSentenceLength: 40,
	}
	got := Synthesize(f, news.VerdictUntrustworthy, 60)
	for _, want := range []string{
		"extensive use of conspiracy language",
		"sensationalist language",
		"lack of authoritative sources",
		"absence of evidence-based reporting",
		"unusual writing structure",
		"insufficient detail for verification",
		"Contains multiple conspiracy-theory indicators.",
		"Uses manipulative headline techniques.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}

func TestSynthesize_UntrustworthyNeverEmpty(t *testing.T) {
	f := heuristic.FeatureScores{TrustCount: 2, QualityCount: 1, WordCount: 150, AvgSentenceLength: 20}
	got := Synthesize(f, news.VerdictUntrustworthy, 55)
	if !strings.Contains(got, "Key issues: overall content pattern analysis.") {
		t.Errorf("expected generic concern, got %q", got)
	}
}

func TestSynthesize_BoundedAndDeterministic(t *testing.T) {
	f := heuristic.FeatureScores{
		SuspicionCount:    5,
		ClickbaitCount:    5,
		WordCount:         10,
		AvgSentenceLength: 50,
	}
	a := Synthesize(f, news.VerdictUntrustworthy, 90)
	b := Synthesize(f, news.VerdictUntrustworthy, 90)
	if a != b {
		t.Fatalf("non-deterministic output: %q vs %q", a, b)
	}
	if n := utf8.RuneCountInString(a); n > MaxSummaryLength {
		t.Fatalf("summary length %d exceeds %d", n, MaxSummaryLength)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 320)
	got := truncate(long, MaxSummaryLength)
	if utf8.RuneCountInString(got) != MaxSummaryLength {
		t.Errorf("got length %d, want %d", utf8.RuneCountInString(got), MaxSummaryLength)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-5:])
	}
	if truncate("short", MaxSummaryLength) != "short" {
		t.Error("short strings must be returned unchanged")
	}
}

// Package explain turns heuristic feature scores and a final verdict into a
// short human-readable justification. Output is a pure function of its
// inputs and never quotes the article.
package explain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/truthly/internal/heuristic"
	"github.com/abhisek/truthly/internal/news"
)

// MaxSummaryLength bounds the summary in characters, ellipsis included.
const MaxSummaryLength = 300

// Synthesize builds the summary for a verdict.
func Synthesize(f heuristic.FeatureScores, label news.Verdict, confidence float64) string {
	var parts []string
	if label.IsReal() {
		parts = trustworthySummary(f, confidence)
	} else {
		parts = untrustworthySummary(f, confidence)
	}
	return truncate(strings.Join(parts, " "), MaxSummaryLength)
}

func trustworthySummary(f heuristic.FeatureScores, confidence float64) []string {
	var parts []string
	switch {
	case confidence >= 85:
		parts = append(parts, "High confidence in content authenticity.")
	case confidence >= 70:
		parts = append(parts, "Good confidence in content reliability.")
	default:
		parts = append(parts, "Moderate confidence in content trustworthiness.")
	}

	var reasons []string
	switch {
	case f.TrustCount >= 3:
		reasons = append(reasons, "multiple authoritative source references")
	case f.TrustCount >= 1:
		reasons = append(reasons, "official source references")
	}
	switch {
	case f.QualityCount >= 2:
		reasons = append(reasons, "evidence-based reporting patterns")
	case f.QualityCount >= 1:
		reasons = append(reasons, "factual reporting indicators")
	}
	if f.AvgSentenceLength >= 15 && f.AvgSentenceLength <= 25 {
		reasons = append(reasons, "professional writing structure")
	}
	if f.WordCount >= 200 {
		reasons = append(reasons, "comprehensive coverage")
	}
	if f.ClickbaitCount == 0 {
		reasons = append(reasons, "absence of sensationalist language")
	}
	if f.SuspicionCount == 0 {
		reasons = append(reasons, "no conspiracy-related terminology")
	}

	if len(reasons) == 0 {
		return append(parts, "Content follows standard journalistic patterns.")
	}
	return append(parts, fmt.Sprintf("Supporting factors: %s.", strings.Join(reasons, ", ")))
}

func untrustworthySummary(f heuristic.FeatureScores, confidence float64) []string {
	var parts []string
	switch {
	case confidence >= 85:
		parts = append(parts, "High confidence this content is misleading.")
	case confidence >= 70:
		parts = append(parts, "Strong indicators of unreliable information.")
	default:
		parts = append(parts, "Multiple concerns about content authenticity.")
	}

	var concerns []string
	switch {
	case f.SuspicionCount >= 3:
		concerns = append(concerns, "extensive use of conspiracy language")
	case f.SuspicionCount >= 1:
		concerns = append(concerns, "suspicious terminology patterns")
	}
	switch {
	case f.ClickbaitCount >= 3:
		concerns = append(concerns, "heavy clickbait characteristics")
	case f.ClickbaitCount >= 1:
		concerns = append(concerns, "sensationalist language")
	}
	if f.TrustCount == 0 {
		concerns = append(concerns, "lack of authoritative sources")
	}
	if f.QualityCount == 0 {
		concerns = append(concerns, "absence of evidence-based reporting")
	}
	if f.AvgSentenceLength > 30 || f.AvgSentenceLength < 10 {
		concerns = append(concerns, "unusual writing structure")
	}
	if f.WordCount < 100 {
		concerns = append(concerns, "insufficient detail for verification")
	}
	if len(concerns) == 0 {
		concerns = append(concerns, "overall content pattern analysis")
	}
	parts = append(parts, fmt.Sprintf("Key issues: %s.", strings.Join(concerns, ", ")))

	if f.SuspicionCount >= 2 {
		parts = append(parts, "Contains multiple conspiracy-theory indicators.")
	}
	if f.ClickbaitCount >= 2 {
		parts = append(parts, "Uses manipulative headline techniques.")
	}
	return parts
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}

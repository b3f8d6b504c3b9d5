// Package heuristic computes deterministic trust and suspicion signals from
// raw article text. It performs no I/O and is the only opinion source that
// is always available.
package heuristic

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/truthly/internal/news"
)

const (
	// MinSentenceLength is the shortest fragment (in characters) counted
	// as a sentence.
	MinSentenceLength = 10

	minConfidence = 55
	maxConfidence = 90
)

// FeatureScores are the lexical and structural signals extracted from one
// article. They feed both the heuristic vote and the explanation text.
type FeatureScores struct {
	TrustCount        int     `json:"trust_count"`
	SuspicionCount    int     `json:"suspicion_count"`
	ClickbaitCount    int     `json:"clickbait_count"`
	QualityCount      int     `json:"quality_count"`
	EmotionalCount    int     `json:"emotional_count"`
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	HasGoodStructure  bool    `json:"has_good_structure"`
}

// Score extracts FeatureScores from a title and body.
func Score(title, content string) FeatureScores {
	contentLower := strings.ToLower(content)
	scan := strings.ToLower(title) + " " + contentLower

	sentences := countSentences(content)
	words := len(strings.Fields(content))
	avg := float64(words) / float64(max(sentences, 1))

	return FeatureScores{
		TrustCount:        countTerms(scan, TrustIndicators),
		SuspicionCount:    countTerms(scan, SuspicionIndicators),
		ClickbaitCount:    countTerms(scan, ClickbaitIndicators),
		QualityCount:      countTerms(scan, QualityIndicators),
		EmotionalCount:    countTerms(contentLower, EmotionalWords),
		WordCount:         words,
		SentenceCount:     sentences,
		AvgSentenceLength: avg,
		HasGoodStructure:  sentences >= 3 && words >= 50 && avg >= 10 && avg <= 30,
	}
}

// Positive is the weighted evidence for authenticity.
func (f FeatureScores) Positive() int {
	p := 2*f.TrustCount + 3*f.QualityCount
	if f.HasGoodStructure {
		p += 3
	}
	return p
}

// Negative is the weighted evidence against authenticity.
func (f FeatureScores) Negative() int {
	return 2*f.SuspicionCount + f.ClickbaitCount + 2*f.EmotionalCount
}

// Net is Positive minus Negative.
func (f FeatureScores) Net() int {
	return f.Positive() - f.Negative()
}

// Label is Real only for a strictly positive net score.
func (f FeatureScores) Label() news.Label {
	if f.Net() > 0 {
		return news.LabelReal
	}
	return news.LabelFake
}

// Confidence grows with the magnitude of the net score, clamped to [55, 90].
func (f FeatureScores) Confidence() float64 {
	net := f.Net()
	if net < 0 {
		net = -net
	}
	c := 50 + min(30, 3*net)
	return float64(min(maxConfidence, max(minConfidence, c)))
}

// Reasoning is a one-line recap of the counts behind the vote.
func (f FeatureScores) Reasoning() string {
	return fmt.Sprintf(
		"Enhanced analysis: Trust indicators: %d, Quality indicators: %d, Suspicion indicators: %d, Clickbait indicators: %d, Structure quality: %t, Net score: %d",
		f.TrustCount, f.QualityCount, f.SuspicionCount, f.ClickbaitCount, f.HasGoodStructure, f.Net(),
	)
}

// Prediction packages the scores as a vote from sourceID.
func (f FeatureScores) Prediction(sourceID string) news.PredictionResult {
	return news.PredictionResult{
		SourceID:   sourceID,
		Class:      news.ClassHeuristic,
		Label:      f.Label(),
		Confidence: f.Confidence(),
		Reasoning:  f.Reasoning(),
		Metadata:   f.Metadata(),
	}
}

// Metadata flattens the scores for attaching to a prediction.
func (f FeatureScores) Metadata() map[string]any {
	return map[string]any{
		"trust_count":         f.TrustCount,
		"suspicion_count":     f.SuspicionCount,
		"clickbait_count":     f.ClickbaitCount,
		"quality_count":       f.QualityCount,
		"emotional_count":     f.EmotionalCount,
		"word_count":          f.WordCount,
		"sentence_count":      f.SentenceCount,
		"avg_sentence_length": f.AvgSentenceLength,
		"has_good_structure":  f.HasGoodStructure,
		"net_score":           f.Net(),
	}
}

func countTerms(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			n++
		}
	}
	return n
}

func countSentences(content string) int {
	fragments := strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	n := 0
	for _, frag := range fragments {
		if utf8.RuneCountInString(strings.TrimSpace(frag)) >= MinSentenceLength {
			n++
		}
	}
	return n
}

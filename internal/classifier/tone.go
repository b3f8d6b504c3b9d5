package classifier

import (
	"context"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/abhisek/truthly/internal/news"
)

// ToneModelName identifies the sentiment-polarity model.
const ToneModelName = "tone"

var (
	markdownLink = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURL      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTag      = regexp.MustCompile(`<[^>]+>`)
)

// ToneModel flags emotionally polarized writing. Straight news reporting
// tends towards neutral VADER scores, while sensational pieces push the
// compound score towards either extreme.
type ToneModel struct {
	analyzer  *govader.SentimentIntensityAnalyzer
	threshold float64
}

// NewToneModel creates the model. The VADER lexicon is loaded once here.
func NewToneModel(cfg ToneConfig) *ToneModel {
	threshold := cfg.Threshold
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultToneThreshold
	}
	return &ToneModel{
		analyzer:  govader.NewSentimentIntensityAnalyzer(),
		threshold: threshold,
	}
}

func (m *ToneModel) Name() string { return ToneModelName }

// Classify scores text by the magnitude of its compound polarity. Text at
// or above the threshold is labelled Fake with confidence rising towards 85;
// calmer text is labelled Real with confidence rising towards 80.
func (m *ToneModel) Classify(_ context.Context, text string) (Prediction, error) {
	scores := m.analyzer.PolarityScores(PlainText(text))
	intensity := math.Abs(scores.Compound)

	p := Prediction{
		Scores: map[string]float64{
			"compound": scores.Compound,
			"positive": scores.Positive,
			"negative": scores.Negative,
			"neutral":  scores.Neutral,
		},
	}
	if intensity >= m.threshold {
		p.Label = news.LabelFake
		p.Confidence = 50 + 35*(intensity-m.threshold)/(1-m.threshold)
	} else {
		p.Label = news.LabelReal
		p.Confidence = 50 + 30*(m.threshold-intensity)/m.threshold
	}
	p.Confidence = math.Round(p.Confidence*10) / 10
	return p, nil
}

// PlainText renders markdown to text, drops HTML tags and links, then
// collapses whitespace.
func PlainText(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := html.UnescapeString(htmlTag.ReplaceAllString(string(rendered), ""))
	text = markdownLink.ReplaceAllString(text, "$1")
	text = bareURL.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/truthly/internal/ensemble"
	"github.com/abhisek/truthly/internal/llm"
	"github.com/abhisek/truthly/internal/news"
)

const judgeContentLimit = 500

// JudgeSchema is the structured verdict every LLM judge must return.
var JudgeSchema = &llm.Schema{
	Name:        "news-judgement",
	Description: "Assessment of a news article's truthfulness and reliability",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"label": map[string]any{
				"type":        "string",
				"enum":        []any{"Trustworthy", "Untrustworthy"},
				"description": "Overall verdict on the article",
			},
			"confidence": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     100.0,
				"description": "Confidence in the verdict, 0-100",
			},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "Brief explanation of the verdict",
			},
			"factual_score": map[string]any{
				"type":    "number",
				"minimum": 0.0,
				"maximum": 100.0,
			},
			"credibility_score": map[string]any{
				"type":    "number",
				"minimum": 0.0,
				"maximum": 100.0,
			},
		},
		"required":             []any{"label", "confidence", "reasoning", "factual_score", "credibility_score"},
		"additionalProperties": false,
	},
}

// JudgeConfig holds generation settings shared by all judges.
type JudgeConfig struct {
	MaxTokens   int
	Temperature float64
}

// judgeOutput is the raw LLM response.
type judgeOutput struct {
	Label            string  `json:"label"`
	Confidence       float64 `json:"confidence"`
	Reasoning        string  `json:"reasoning"`
	FactualScore     float64 `json:"factual_score"`
	CredibilityScore float64 `json:"credibility_score"`
}

// JudgeSource asks a remote LLM for a verdict.
type JudgeSource struct {
	name     string
	provider llm.Provider
	cfg      JudgeConfig

	// unavailable is set when the provider could not be built; the judge
	// then fails every prediction without making a call.
	unavailable string
}

// NewJudgeSource wraps a provider as an ensemble member named after it.
func NewJudgeSource(name string, provider llm.Provider, cfg JudgeConfig) *JudgeSource {
	return &JudgeSource{name: name, provider: provider, cfg: cfg}
}

// NewUnavailableJudge records a judge whose provider could not be created.
func NewUnavailableJudge(name string, err error) *JudgeSource {
	reason := "provider not configured"
	if err != nil {
		reason = err.Error()
	}
	return &JudgeSource{name: name, unavailable: reason}
}

func (s *JudgeSource) ID() string            { return "llm:" + s.name }
func (*JudgeSource) Class() news.SourceClass { return news.ClassRemote }

func (s *JudgeSource) Predict(ctx context.Context, req ensemble.Request) (*news.PredictionResult, error) {
	if s.provider == nil {
		reason := s.unavailable
		if reason == "" {
			reason = "provider not configured"
		}
		return nil, news.Unavailable(s.ID(), reason)
	}

	ctx = llm.WithCaller(ctx, s.ID())

	prompt, err := buildJudgePrompt(req.Article)
	if err != nil {
		return nil, news.RemoteError(s.ID(), fmt.Errorf("build judge prompt: %w", err))
	}

	resp, err := s.provider.Generate(ctx, llm.SingleTurn(judgeSystemPrompt, prompt, JudgeSchema, s.cfg.MaxTokens, s.cfg.Temperature))
	if err != nil {
		return nil, s.failure(err)
	}

	var out judgeOutput
	if err := resp.Decode(&out); err != nil {
		return nil, news.ParseError(s.ID(), err)
	}

	var label news.Label
	switch strings.ToLower(strings.TrimSpace(out.Label)) {
	case "trustworthy", "real":
		label = news.LabelReal
	case "untrustworthy", "fake":
		label = news.LabelFake
	default:
		return nil, news.ParseError(s.ID(), fmt.Errorf("unknown label %q", out.Label))
	}

	reasoning := strings.TrimSpace(out.Reasoning)
	if reasoning == "" {
		reasoning = "No detailed reasoning provided"
	}
	return &news.PredictionResult{
		SourceID:   s.ID(),
		Class:      news.ClassRemote,
		Label:      label,
		Confidence: out.Confidence,
		Reasoning:  fmt.Sprintf("%s analysis: %s", s.name, reasoning),
		Metadata: map[string]any{
			"model":             resp.Model,
			"factual_score":     out.FactualScore,
			"credibility_score": out.CredibilityScore,
		},
	}, nil
}

func (s *JudgeSource) failure(err error) *news.SourceFailure {
	var invalid *llm.ErrInvalidResponse
	var maxTok *llm.ErrMaxTokensExceeded
	switch {
	case errors.Is(err, llm.ErrCredentials):
		return news.Unavailable(s.ID(), err.Error())
	case errors.As(err, &invalid), errors.As(err, &maxTok):
		return news.ParseError(s.ID(), err)
	case errors.Is(err, context.DeadlineExceeded):
		return news.Timeout(s.ID(), err.Error())
	default:
		return news.RemoteError(s.ID(), err)
	}
}

const judgeSystemPrompt = `You are an expert fact-checker. Analyze news content for truthfulness and reliability.

Assess:
1. Factual accuracy indicators
2. Source credibility signals
3. Language bias or manipulation
4. Logical consistency

Return only the requested JSON. Keep reasoning to one or two sentences.`

var judgeUserTemplate = template.Must(template.New("judge").Parse(`Title: {{.Title}}
Content: {{.Content}}`))

func buildJudgePrompt(a news.Article) (string, error) {
	var buf bytes.Buffer
	err := judgeUserTemplate.Execute(&buf, news.Article{
		Title:   a.Title,
		Content: Truncate(a.Content, judgeContentLimit),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

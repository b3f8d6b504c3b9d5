package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/truthly/internal/news"
)

// InferenceModelName identifies the hosted transformer classifier.
const InferenceModelName = "roberta"

const userAgent = "truthly/1.0 (+https://github.com/abhisek/truthly)"

// ErrNoAPIKey is returned when the inference model has no credential.
var ErrNoAPIKey = errors.New("HUGGINGFACE_API_KEY is not set")

// ErrMalformed wraps upstream payloads that could not be interpreted.
var ErrMalformed = errors.New("malformed inference response")

// InferenceModel classifies text with a sequence-classification model served
// over the HuggingFace inference HTTP API.
type InferenceModel struct {
	client     *http.Client
	url        string
	apiKey     string
	realLabels map[string]bool
	maxRetries int
	backoff    time.Duration
}

// NewInferenceModel creates the model. It fails without an API key.
func NewInferenceModel(cfg InferenceConfig) (*InferenceModel, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Endpoint == "" || cfg.Model == "" {
		return nil, fmt.Errorf("inference endpoint and model are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	realLabels := map[string]bool{}
	for _, l := range cfg.RealLabels {
		realLabels[strings.ToUpper(l)] = true
	}

	return &InferenceModel{
		client:     &http.Client{Timeout: timeout},
		url:        strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Model,
		apiKey:     cfg.APIKey,
		realLabels: realLabels,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.InitialBackoff,
	}, nil
}

func (m *InferenceModel) Name() string { return InferenceModelName }

type inferenceRequest struct {
	Inputs  string         `json:"inputs"`
	Options map[string]any `json:"options,omitempty"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify posts text to the inference endpoint and picks the class with
// the highest score.
func (m *InferenceModel) Classify(ctx context.Context, text string) (Prediction, error) {
	body, err := json.Marshal(inferenceRequest{
		Inputs:  text,
		Options: map[string]any{"wait_for_model": true},
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := m.doWithRetry(ctx, body)
	if err != nil {
		return Prediction{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Prediction{}, fmt.Errorf("inference request failed: status %d: %s", resp.StatusCode, preview(raw))
	}

	scores, err := decodeScores(raw)
	if err != nil {
		return Prediction{}, err
	}
	return m.predictionFrom(scores), nil
}

func (m *InferenceModel) predictionFrom(scores []labelScore) Prediction {
	best := scores[0]
	all := make(map[string]float64, len(scores))
	for _, s := range scores {
		all[s.Label] = s.Score
		if s.Score > best.Score {
			best = s
		}
	}

	label := news.LabelFake
	if m.realLabels[strings.ToUpper(best.Label)] {
		label = news.LabelReal
	}
	return Prediction{
		Label:      label,
		Confidence: math.Round(best.Score*1000) / 10,
		Scores:     all,
	}
}

// decodeScores accepts both the nested [[...]] shape the inference API
// returns for a single input and a flat [...] list.
func decodeScores(raw []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMalformed, preview(raw))
}

// doWithRetry retries transport errors and 5xx/503-loading responses with
// doubling backoff, giving up early when ctx ends.
func (m *InferenceModel) doWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	backoff := m.backoff
	var lastErr error

	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Authorization", "Bearer "+m.apiKey)

		resp, err := m.client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if resp != nil {
			lastErr = fmt.Errorf("status code %d", resp.StatusCode)
			resp.Body.Close()
		} else {
			lastErr = err
		}

		if attempt == m.maxRetries {
			break
		}
		slog.Warn("[InferenceModel] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", lastErr.Error()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("request failed after retries: %w", lastErr)
}

func preview(raw []byte) string {
	s := string(raw)
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}

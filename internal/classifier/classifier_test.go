package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/truthly/internal/news"
)

func TestToneModel_CalmTextIsReal(t *testing.T) {
	m := NewToneModel(DefaultConfig().Tone)
	p, err := m.Classify(context.Background(),
		"The committee met on Tuesday to review the quarterly budget report.")
	require.NoError(t, err)
	assert.Equal(t, news.LabelReal, p.Label)
	assert.GreaterOrEqual(t, p.Confidence, 50.0)
	assert.LessOrEqual(t, p.Confidence, 80.0)
	assert.Contains(t, p.Scores, "compound")
}

func TestToneModel_PolarizedTextIsFake(t *testing.T) {
	m := NewToneModel(DefaultConfig().Tone)
	p, err := m.Classify(context.Background(),
		"This horrible, disgusting, evil scandal is a terrible disaster! Outrageous lies, awful corruption, hateful criminals!")
	require.NoError(t, err)
	assert.Equal(t, news.LabelFake, p.Label)
	assert.GreaterOrEqual(t, p.Confidence, 50.0)
	assert.LessOrEqual(t, p.Confidence, 85.0)
}

func TestPlainText(t *testing.T) {
	got := PlainText("# Heading\n\nSee [the report](https://example.com/report) at https://example.com/x for **details**.")
	assert.Equal(t, "Heading See the report at for details.", got)
}

func newInferenceServer(t *testing.T, handler http.HandlerFunc) InferenceConfig {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig().Inference
	cfg.APIKey = "hf-test"
	cfg.Endpoint = server.URL + "/models"
	cfg.InitialBackoff = time.Millisecond
	return cfg
}

func TestInferenceModel_HappyPath(t *testing.T) {
	cfg := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/hamzab/roberta-fake-news-classification", r.URL.Path)
		assert.Equal(t, "Bearer hf-test", r.Header.Get("Authorization"))

		var body inferenceRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "some article", body.Inputs)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[{"label":"LABEL_1","score":0.912},{"label":"LABEL_0","score":0.088}]]`))
	})

	m, err := NewInferenceModel(cfg)
	require.NoError(t, err)

	p, err := m.Classify(context.Background(), "some article")
	require.NoError(t, err)
	assert.Equal(t, news.LabelFake, p.Label)
	assert.Equal(t, 91.2, p.Confidence)
	assert.Len(t, p.Scores, 2)
}

func TestInferenceModel_FlatRealLabel(t *testing.T) {
	cfg := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"label":"TRUE","score":0.7},{"label":"FAKE","score":0.3}]`))
	})
	m, err := NewInferenceModel(cfg)
	require.NoError(t, err)

	p, err := m.Classify(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, news.LabelReal, p.Label)
	assert.Equal(t, 70.0, p.Confidence)
}

func TestInferenceModel_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	cfg := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[[{"label":"LABEL_0","score":0.6}]]`))
	})
	m, err := NewInferenceModel(cfg)
	require.NoError(t, err)

	p, err := m.Classify(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, news.LabelReal, p.Label)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInferenceModel_Malformed(t *testing.T) {
	cfg := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Model is loading"}`))
	})
	m, err := NewInferenceModel(cfg)
	require.NoError(t, err)

	_, err = m.Classify(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
}

func TestInferenceModel_ClientError(t *testing.T) {
	cfg := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid token"}`))
	})
	m, err := NewInferenceModel(cfg)
	require.NoError(t, err)

	_, err = m.Classify(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "status 401"))
}

func TestNewInferenceModel_NoKey(t *testing.T) {
	_, err := NewInferenceModel(DefaultConfig().Inference)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestLoad_RecordsFailures(t *testing.T) {
	r := Load(DefaultConfig(), nil)

	assert.Equal(t, []string{ToneModelName}, r.Loaded())
	_, ok := r.Get(InferenceModelName)
	assert.False(t, ok)
	assert.Contains(t, r.Failed(), InferenceModelName)

	cfg := DefaultConfig()
	cfg.Tone.Enabled = false
	cfg.Inference.APIKey = "hf-test"
	r = Load(cfg, nil)
	assert.Equal(t, []string{InferenceModelName}, r.Loaded())
	assert.Contains(t, r.Failed(), ToneModelName)
}

// Package classifier holds the local text classification models that vote
// in the ensemble and the registry that owns them.
package classifier

import (
	"context"
	"log/slog"
	"sort"

	"github.com/abhisek/truthly/internal/news"
)

// Prediction is one model's output for a piece of text.
type Prediction struct {
	Label      news.Label
	Confidence float64 // 0–100
	Scores     map[string]float64
}

// Model classifies text as real or fake news.
type Model interface {
	Name() string
	Classify(ctx context.Context, text string) (Prediction, error)
}

// Registry is the set of models available to the ensemble. It is built
// once at startup and never mutated afterwards, so it is safe for
// concurrent use.
type Registry struct {
	models map[string]Model
	failed map[string]string
}

// NewRegistry builds a registry from loaded models and the reasons other
// models could not be loaded.
func NewRegistry(models []Model, failed map[string]string) *Registry {
	r := &Registry{
		models: make(map[string]Model, len(models)),
		failed: make(map[string]string, len(failed)),
	}
	for _, m := range models {
		r.models[m.Name()] = m
	}
	for name, reason := range failed {
		r.failed[name] = reason
	}
	return r
}

// Load builds the registry described by cfg. Models that cannot be loaded
// are recorded as failed rather than aborting startup.
func Load(cfg Config, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	var models []Model
	failed := map[string]string{}

	if cfg.Tone.Enabled {
		models = append(models, NewToneModel(cfg.Tone))
	} else {
		failed[ToneModelName] = "disabled in configuration"
	}

	inference, err := NewInferenceModel(cfg.Inference)
	if err != nil {
		failed[InferenceModelName] = err.Error()
	} else {
		models = append(models, inference)
	}

	r := NewRegistry(models, failed)
	logger.Info("[Classifier] Registry loaded",
		slog.Any("loaded", r.Loaded()),
		slog.Int("failed", len(r.failed)))
	return r
}

// Get returns the named model.
func (r *Registry) Get(name string) (Model, bool) {
	m, ok := r.models[name]
	return m, ok
}

// Loaded lists the names of available models, sorted.
func (r *Registry) Loaded() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Failed returns why each unavailable model could not be loaded.
func (r *Registry) Failed() map[string]string {
	out := make(map[string]string, len(r.failed))
	for k, v := range r.failed {
		out[k] = v
	}
	return out
}

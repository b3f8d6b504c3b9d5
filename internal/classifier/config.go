package classifier

import "time"

// DefaultToneThreshold is the |compound| polarity at which text reads as
// sensational.
const DefaultToneThreshold = 0.75

// Config selects and tunes the local models.
type Config struct {
	Tone      ToneConfig      `yaml:"tone"`
	Inference InferenceConfig `yaml:"inference"`
}

// ToneConfig configures the VADER tone model.
type ToneConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold" validate:"gte=0,lt=1"`
}

// InferenceConfig configures the hosted transformer classifier.
type InferenceConfig struct {
	// APIKey is read from HUGGINGFACE_API_KEY; the model is unavailable
	// without it.
	APIKey   string `yaml:"-"`
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
	Model    string `yaml:"model"`

	// RealLabels lists the upstream class names that mean Real. Any other
	// class means Fake.
	RealLabels []string `yaml:"real_labels"`

	MaxRetries     int           `yaml:"max_retries" validate:"gte=0"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	Timeout        time.Duration `yaml:"timeout"`
}

// DefaultConfig enables the tone model and points the inference model at
// the hosted RoBERTa fake-news classifier.
func DefaultConfig() Config {
	return Config{
		Tone: ToneConfig{
			Enabled:   true,
			Threshold: DefaultToneThreshold,
		},
		Inference: InferenceConfig{
			Endpoint:       "https://api-inference.huggingface.co/models",
			Model:          "hamzab/roberta-fake-news-classification",
			RealLabels:     []string{"LABEL_0", "REAL", "TRUE"},
			MaxRetries:     2,
			InitialBackoff: 250 * time.Millisecond,
			Timeout:        10 * time.Second,
		},
	}
}

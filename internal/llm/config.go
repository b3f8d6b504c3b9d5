package llm

import (
	"fmt"
	"time"
)

// Provider names accepted by NewProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// Config holds the settings of every judge provider. Credentials are never
// read from YAML; the config package fills them from the environment.
type Config struct {
	// Judges lists the providers that take part in the ensemble, in
	// priority order.
	Judges []string `yaml:"judges" validate:"dive,oneof=openai groq anthropic gemini mock"`

	OpenAI    OpenAIConfig    `yaml:"openai"`
	Groq      GroqConfig      `yaml:"groq"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Retry     RetryConfig     `yaml:"retry"`

	// MaxTokens caps each judgement response.
	MaxTokens int `yaml:"max_tokens" validate:"gt=0"`

	// Temperature for judgement calls. The judges want near-deterministic
	// output.
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=1"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`    // Default: "claude-haiku"
	BaseURL string `yaml:"base_url"` // Optional. Proxy or gateway in front of the API.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`    // Default: "gpt-3.5-turbo"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.

	// JSONObject requests plain JSON mode instead of strict json_schema,
	// for compatible APIs that lack structured outputs.
	JSONObject bool `yaml:"json_object"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`    // Default: "gemini-flash"
	BaseURL string `yaml:"base_url"` // Optional. Proxy or gateway in front of the API.
}

// GroqConfig holds Groq-specific configuration.
type GroqConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`    // Default: "mixtral-8x7b-32768"
	BaseURL string `yaml:"base_url"` // Default: "https://api.groq.com/openai/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" validate:"gte=1"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier" validate:"gte=1"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Judges: []string{ProviderOpenAI, ProviderGroq},
		OpenAI: OpenAIConfig{
			Model: "gpt-3.5-turbo",
		},
		Groq: GroqConfig{
			Model:   "mixtral-8x7b-32768",
			BaseURL: defaultGroqBaseURL,
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		// Judges run under the per-source deadline, so keep retries short.
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     2 * time.Second,
			Multiplier:  2.0,
		},
		MaxTokens:   300,
		Temperature: 0.1,
	}
}

// HasKey reports whether the named provider has a credential.
func (c Config) HasKey(provider string) bool {
	switch provider {
	case ProviderOpenAI:
		return c.OpenAI.APIKey != ""
	case ProviderGroq:
		return c.Groq.APIKey != ""
	case ProviderAnthropic:
		return c.Anthropic.APIKey != ""
	case ProviderGemini:
		return c.Gemini.APIKey != ""
	case ProviderMock:
		return true
	}
	return false
}

// Model returns the configured model name of a provider.
func (c Config) Model(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return resolveModel(c.OpenAI.Model, openaiModels)
	case ProviderGroq:
		return c.Groq.Model
	case ProviderAnthropic:
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case ProviderGemini:
		return resolveModel(c.Gemini.Model, geminiModels)
	case ProviderMock:
		return "mock"
	}
	return ""
}

// Validate checks that every listed judge is known.
func (c Config) Validate() error {
	seen := map[string]bool{}
	for _, name := range c.Judges {
		switch name {
		case ProviderOpenAI, ProviderGroq, ProviderAnthropic, ProviderGemini, ProviderMock:
		default:
			return fmt.Errorf("unknown LLM provider: %q", name)
		}
		if seen[name] {
			return fmt.Errorf("LLM provider %q listed twice", name)
		}
		seen[name] = true
	}
	return nil
}

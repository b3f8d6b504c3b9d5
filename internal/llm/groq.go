package llm

import "fmt"

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider is an OpenAIProvider pointed at Groq's compatible API.
type GroqProvider struct {
	*OpenAIProvider
}

// NewGroqProvider creates a Groq judge. Groq models lack strict json_schema
// output, so JSON object mode is used and the verdict is validated locally.
func NewGroqProvider(cfg GroqConfig) (*GroqProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq: %w", ErrCredentials)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}

	inner, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    baseURL,
		JSONObject: true,
	})
	if err != nil {
		return nil, err
	}
	inner.name = ProviderGroq

	return &GroqProvider{OpenAIProvider: inner}, nil
}

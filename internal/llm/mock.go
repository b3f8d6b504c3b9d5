package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted judge answer. Content and Stop go through
// the same verdict checks as a real provider answer; Err is returned as is.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage

	// Stop is a normalized stop reason; empty means StopEnd.
	Stop string
	Err  error
}

// MockProvider replays scripted answers in order and records every request.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// Model overrides the reported model id. Empty means "mock".
	Model string
}

// NewMockProvider creates a MockProvider with the given scripted answers.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next scripted answer, or ErrProviderUnavailable once
// the script is exhausted.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	c := completion{
		provider: ProviderMock,
		model:    m.ModelID(),
		text:     string(next.Content),
		stop:     next.Stop,
		usage:    next.Usage,
	}
	if c.stop == StopRefusal {
		c.refusal = c.text
	}
	return finish(req, c)
}

// ModelID returns the configured model, "mock" by default.
func (m *MockProvider) ModelID() string {
	if m.Model != "" {
		return m.Model
	}
	return "mock"
}

// AddResponse appends a scripted answer.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

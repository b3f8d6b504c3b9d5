// Package search corroborates article headlines against web search results
// from trusted outlets.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnauthorized is returned when the search API rejects the key.
var ErrUnauthorized = errors.New("search API rejected the credentials")

// ErrMalformed wraps search responses that could not be decoded.
var ErrMalformed = errors.New("malformed search response")

// Result is one organic search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

// Searcher runs one web search.
type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]Result, error)
}

// SerperClient queries the Serper Google search API.
type SerperClient struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

// NewSerperClient creates a client. The http.Client timeout is a backstop;
// callers bound each search with their context.
func NewSerperClient(endpoint, apiKey string) *SerperClient {
	return &SerperClient{
		client:   &http.Client{Timeout: 8 * time.Second},
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []Result `json:"organic"`
}

// Search posts a query and returns the organic results.
func (c *SerperClient) Search(ctx context.Context, query string, num int) ([]Result, error) {
	body, err := json.Marshal(serperRequest{Q: query, Num: num})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("search request failed: status %d", resp.StatusCode)
	}

	var parsed serperResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return parsed.Organic, nil
}

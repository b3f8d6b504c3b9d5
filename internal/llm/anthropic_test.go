package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	return p
}

func claudeMessage(stop string, texts ...string) map[string]any {
	content := []map[string]any{}
	for _, text := range texts {
		content = append(content, map[string]any{"type": "text", "text": text})
	}
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     content,
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func claudeError(status int, kind, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": message},
		})
	}
}

func TestAnthropicProvider_Verdict(t *testing.T) {
	var body map[string]any
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		// The verdict arrives split over two text blocks.
		json.NewEncoder(w).Encode(claudeMessage("end_turn", `{"label":"Untrustworthy",`, `"confidence":77}`))
	})

	resp, err := p.Generate(context.Background(), judgeRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StopReason != StopEnd || resp.Model != "claude-haiku-4-5-20251001" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Usage.TotalTokens != 80 {
		t.Fatalf("expected 80 total tokens, got %d", resp.Usage.TotalTokens)
	}
	var out struct {
		Label string `json:"label"`
	}
	if err := resp.Decode(&out); err != nil || out.Label != "Untrustworthy" {
		t.Fatalf("decode: %v (%+v)", err, out)
	}

	// The schema is sent as the native output format and temperature zero
	// is sent explicitly.
	config, _ := body["output_config"].(map[string]any)
	if format, _ := config["format"].(map[string]any); format["schema"] == nil {
		t.Fatalf("schema not sent as output format: %v", body["output_config"])
	}
	if temp, ok := body["temperature"]; !ok || temp != 0.0 {
		t.Fatalf("temperature = %v (present %v)", temp, ok)
	}
}

func TestAnthropicProvider_StopReasons(t *testing.T) {
	tests := []struct {
		name  string
		msg   map[string]any
		check func(error) bool
	}{
		{
			name: "truncated verdict",
			msg:  claudeMessage("max_tokens", `{"label":"Trustworthy","conf`),
			check: func(err error) bool {
				var maxTok *ErrMaxTokensExceeded
				return errors.As(err, &maxTok)
			},
		},
		{
			name:  "refusal",
			msg:   claudeMessage("refusal", "I won't rate this."),
			check: func(err error) bool { return errors.Is(err, ErrRefused) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(tt.msg)
			})
			_, err := p.Generate(context.Background(), judgeRequest())
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error: %T (%v)", err, err)
			}
			if !IsPermanent(err) {
				t.Fatal("expected a permanent error")
			}
		})
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "rate limit with retry-after",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "2")
				claudeError(http.StatusTooManyRequests, "rate_limit_error", "slow down")(w, r)
			},
			check: func(t *testing.T, err error) {
				var rl *ErrRateLimit
				if !errors.As(err, &rl) || rl.RetryAfter != 2*time.Second {
					t.Fatalf("expected ErrRateLimit after 2s, got %T (%v)", err, err)
				}
			},
		},
		{
			name:    "overloaded",
			handler: claudeError(529, "overloaded_error", "Overloaded"),
			check: func(t *testing.T, err error) {
				var unavail *ErrProviderUnavailable
				if !errors.As(err, &unavail) {
					t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
				}
			},
		},
		{
			name:    "unauthorized",
			handler: claudeError(http.StatusUnauthorized, "authentication_error", "invalid x-api-key"),
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrCredentials) || !IsPermanent(err) {
					t.Fatalf("expected permanent ErrCredentials, got %T (%v)", err, err)
				}
			},
		},
		{
			name:    "forbidden",
			handler: claudeError(http.StatusForbidden, "permission_error", "no access"),
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrCredentials) {
					t.Fatalf("expected ErrCredentials, got %T (%v)", err, err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				tt.handler(w, r)
			})
			_, err := p.Generate(context.Background(), judgeRequest())
			tt.check(t, err)
			if calls != 1 {
				t.Fatalf("SDK retried: %d calls", calls)
			}
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	for in, want := range map[string]time.Duration{
		"3":                             3 * time.Second,
		" 1 ":                           time.Second,
		"0":                             0,
		"":                              0,
		"Wed, 21 Oct 2026 07:28:00 GMT": 0,
	} {
		if got := parseRetryAfter(in); got != want {
			t.Errorf("parseRetryAfter(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	for in, want := range map[string]string{
		"claude-sonnet":            "claude-sonnet-4-20250514",
		"claude-haiku":             "claude-haiku-4-5-20251001",
		"claude-sonnet-4-20250514": "claude-sonnet-4-20250514",
	} {
		if got := resolveModel(in, anthropicModels); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewAnthropicProvider_MissingKey(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"}); !errors.Is(err, ErrCredentials) {
		t.Fatalf("expected ErrCredentials, got %v", err)
	}
}

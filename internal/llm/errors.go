package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCredentials is returned when a provider has no API key configured, the
// upstream rejected it, or the account has no quota left. Judges built on
// such a provider are permanently unavailable.
var ErrCredentials = errors.New("API credentials missing or rejected")

// ErrRefused is wrapped in *ErrInvalidResponse when the model declined to
// judge the article or its safety filter blocked the answer.
var ErrRefused = errors.New("model declined to judge the article")

// ErrRateLimit is a 429 from the provider. RetryAfter is zero when the
// provider sent no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the model answered but the answer is not a
// usable verdict: not JSON, off-schema, empty or a refusal.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable is an outage, a 5xx or a transport error.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means generation stopped at the token cap before a
// complete verdict was written. Content holds the partial output.
type ErrMaxTokensExceeded struct {
	Limit   int
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("verdict truncated at %d tokens", e.Limit)
	}
	return "verdict truncated: max tokens exceeded"
}

// IsPermanent reports whether retrying err with the same request cannot help.
func IsPermanent(err error) bool {
	var maxTok *ErrMaxTokensExceeded
	return errors.Is(err, ErrCredentials) || errors.Is(err, ErrRefused) || errors.As(err, &maxTok)
}

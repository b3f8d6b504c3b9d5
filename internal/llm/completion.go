package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// completion is a provider answer before verdict checks. Adapters fill it
// from their SDK response and hand it to finish.
type completion struct {
	provider string
	model    string
	text     string
	stop     string

	// refusal carries the provider's stated reason when stop is StopRefusal.
	refusal string
	usage   Usage
}

// finish applies the rules every judge answer must pass:
//   - a refusal or safety block is an *ErrInvalidResponse wrapping ErrRefused;
//   - an empty answer is an *ErrInvalidResponse;
//   - with a schema, the JSON object is cut out of any surrounding prose and
//     validated;
//   - output cut at the token cap is kept only if it still validates,
//     otherwise it is an *ErrMaxTokensExceeded.
func finish(req Request, c completion) (*Response, error) {
	raw := json.RawMessage(c.text)

	if c.stop == StopRefusal {
		reason := strings.TrimSpace(c.refusal)
		if reason == "" {
			reason = "no reason given"
		}
		return nil, &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("%s: %w: %s", c.provider, ErrRefused, reason),
		}
	}

	if strings.TrimSpace(c.text) == "" {
		if c.stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Limit: req.MaxTokens}
		}
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("%s: empty completion", c.provider)}
	}

	content := raw
	if req.Schema != nil {
		content = extractJSON(raw)
		if err := validateResponse(req.Schema, content); err != nil {
			if c.stop == StopMaxTokens {
				return nil, &ErrMaxTokensExceeded{Limit: req.MaxTokens, Content: raw}
			}
			return nil, err
		}
	}

	stop := c.stop
	if stop == "" {
		stop = StopEnd
	}
	return &Response{
		Content:    content,
		Usage:      c.usage,
		Model:      c.model,
		StopReason: stop,
	}, nil
}

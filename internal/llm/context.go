package llm

import "context"

type contextKey string

const callerKey contextKey = "llm_caller"

// WithCaller attaches the id of the source issuing LLM calls, for logs.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom extracts the caller id from the context.
func CallerFrom(ctx context.Context) string {
	if v, ok := ctx.Value(callerKey).(string); ok {
		return v
	}
	return "unknown"
}

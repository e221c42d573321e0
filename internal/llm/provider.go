package llm

import "context"

// Provider defines the interface for LLM completion providers.
type Provider interface {
	// Complete sends a completion request and returns the response. A nil
	// response with a nil error means the provider could not generate a
	// reply; callers substitute their documented fallback.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
	// Configured reports whether the provider can actually serve requests.
	Configured() bool
}

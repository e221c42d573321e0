package llm

import "context"

// NoopProvider is the stand-in used when no completion credentials are
// configured. Complete reports "nothing generated" so the pipeline falls
// back to its grounded clarification message instead of erroring.
type NoopProvider struct{}

func (NoopProvider) Name() string { return "noop" }

func (NoopProvider) Configured() bool { return false }

func (NoopProvider) Complete(context.Context, CompletionRequest) (*CompletionResponse, error) {
	return nil, nil
}

package llm

import "os"

// NewProvider creates the completion provider for the given model. When
// OPENAI_API_KEY is absent the returned provider is a NoopProvider, which
// signals "unconfigured" instead of failing: a missing credential is a
// degraded mode, not an error.
func NewProvider(model string, rpm int) Provider {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return NoopProvider{}
	}

	var p Provider = NewOpenAIProvider(apiKey, model)
	if rpm > 0 {
		p = NewRateLimitedProvider(p, rpm)
	}
	return p
}

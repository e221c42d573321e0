package embeddings

import (
	"context"
	"os"
)

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts. It returns one
	// vector per input in the same order, or an error; it never returns
	// partial results.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string

	// Configured reports whether the embedder can actually serve requests.
	Configured() bool
}

// NewEmbedder creates the embedder for the given model, or a NoopEmbedder
// when OPENAI_API_KEY is absent. Missing credentials are a degraded mode:
// the knowledge store falls back to keyword search.
func NewEmbedder(model string) Embedder {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return NoopEmbedder{}
	}
	return NewOpenAIEmbedder(apiKey, OpenAIModel(model))
}

package embeddings

import (
	"context"
	"fmt"
)

// NoopEmbedder is the stand-in used when no embedding credentials are
// configured. Embed fails loudly so callers fall back to keyword search
// deterministically rather than indexing garbage vectors.
type NoopEmbedder struct{}

func (NoopEmbedder) Name() string { return "noop" }

func (NoopEmbedder) Dimensions() int { return 0 }

func (NoopEmbedder) Configured() bool { return false }

func (NoopEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, fmt.Errorf("no embedding provider configured")
}

package embeddings

import (
	"context"
	"testing"
)

type batchEmbedder struct {
	vectors [][]float32
	err     error
}

func (b batchEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	return b.vectors, b.err
}
func (batchEmbedder) Dimensions() int  { return 3 }
func (batchEmbedder) Name() string     { return "batch" }
func (batchEmbedder) Configured() bool { return true }

func TestToChromemFuncSingleVector(t *testing.T) {
	fn := ToChromemFunc(batchEmbedder{vectors: [][]float32{{1, 2, 3}}})
	vec, err := fn(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 || vec[0] != 1 {
		t.Errorf("unexpected vector: %v", vec)
	}
}

func TestToChromemFuncRejectsEmptyBatch(t *testing.T) {
	fn := ToChromemFunc(batchEmbedder{})
	if _, err := fn(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error when the embedder returns no vectors")
	}
}

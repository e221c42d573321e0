package knowledge

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/helpdeskhq/waverly/internal/db"
	"github.com/helpdeskhq/waverly/internal/embeddings"
)

// mockEmbedder returns deterministic embeddings based on text content.
// Similar texts produce similar vectors because shared characters
// contribute to the same positions.
type mockEmbedder struct {
	dims int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.deterministicVector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int  { return m.dims }
func (m *mockEmbedder) Name() string     { return "mock" }
func (m *mockEmbedder) Configured() bool { return true }

func (m *mockEmbedder) deterministicVector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

// failingEmbedder simulates missing provider credentials.
type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, fmt.Errorf("no embedding provider configured")
}
func (failingEmbedder) Dimensions() int  { return 0 }
func (failingEmbedder) Name() string     { return "failing" }
func (failingEmbedder) Configured() bool { return false }

func newTestStore(t *testing.T, embedder embeddings.Embedder) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	index, err := NewVectorIndex(embedder)
	if err != nil {
		t.Fatalf("NewVectorIndex: %v", err)
	}
	return NewStore(NewEntryStore(database), index)
}

func TestAddAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &mockEmbedder{dims: 64})

	entries := []Entry{
		{Title: "Pricing", Content: "Our WhatsApp automation plans start at 29 dollars per month", Category: CategoryManualNote},
		{Title: "Refunds", Content: "Refunds are processed within 7 business days of the request", Category: CategoryDocument},
	}
	for _, e := range entries {
		if _, err := store.AddEntry(ctx, e); err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
	}

	results := store.Search(ctx, "WhatsApp automation plans pricing per month", SearchOptions{TopK: 5})
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].Title != "Pricing" {
		t.Errorf("expected Pricing to rank first, got %q", results[0].Title)
	}
}

func TestSearchFallsBackToKeywords(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, failingEmbedder{})

	// Indexing fails silently into a stored-but-unindexed entry.
	if _, err := store.AddEntry(ctx, Entry{
		Title:   "Services",
		Content: "We offer WhatsApp automation and customer support services",
	}); err == nil {
		t.Fatal("expected indexing error with failing embedder")
	}

	results := store.Search(ctx, "what services do you offer", SearchOptions{TopK: 5})
	if len(results) == 0 {
		t.Fatal("keyword fallback must find the stored entry")
	}
	if results[0].Title != "Services" {
		t.Errorf("expected Services entry, got %q", results[0].Title)
	}
}

func TestQueryErrorsWithoutEmbedder(t *testing.T) {
	index, err := NewVectorIndex(failingEmbedder{})
	if err != nil {
		t.Fatalf("creating vector index: %v", err)
	}

	// Even against an empty collection the vector path must report itself
	// unavailable rather than succeed with no results.
	if _, err := index.Query(context.Background(), "services", 5, 0, ""); err == nil {
		t.Fatal("expected an error from an unconfigured embedder")
	}
}

func TestDeleteCascadesToChunks(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &mockEmbedder{dims: 64})

	created, err := store.AddEntry(ctx, Entry{
		Title:   "Long doc",
		Content: strings.Repeat("installation and onboarding guide. ", 100),
	})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if store.ChunkCount() < 2 {
		t.Fatalf("expected multiple chunks, got %d", store.ChunkCount())
	}

	deleted, err := store.DeleteEntry(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if !deleted {
		t.Fatal("expected entry to be deleted")
	}
	if store.ChunkCount() != 0 {
		t.Errorf("expected chunk cascade delete, %d chunks remain", store.ChunkCount())
	}

	got, err := store.GetEntry(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("entry row should be gone")
	}
}

func TestEmptyContentNotIndexed(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &mockEmbedder{dims: 64})

	if _, err := store.AddEntry(ctx, Entry{Title: "Stub"}); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if store.ChunkCount() != 0 {
		t.Errorf("empty content must not be indexed, got %d chunks", store.ChunkCount())
	}

	// Still listed for bookkeeping.
	entries, err := store.ListEntries(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 listed entry, got %d", len(entries))
	}
}

func TestTenantScoping(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &mockEmbedder{dims: 64})

	if _, err := store.AddEntry(ctx, Entry{Title: "A", Content: "pricing for tenant a", TenantID: "a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddEntry(ctx, Entry{Title: "B", Content: "pricing for tenant b", TenantID: "b"}); err != nil {
		t.Fatal(err)
	}

	results := store.Search(ctx, "pricing", SearchOptions{TopK: 10, TenantID: "a"})
	for _, r := range results {
		if r.Title != "A" {
			t.Errorf("tenant filter leaked entry %q", r.Title)
		}
	}
}

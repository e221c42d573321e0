package knowledge

import (
	"context"
	"fmt"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/helpdeskhq/waverly/internal/embeddings"
)

const collectionName = "knowledge"

// VectorIndex stores embedded chunks and answers nearest-chunk queries.
type VectorIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embeddings.Embedder
	embedFunc  chromem.EmbeddingFunc
}

// NewVectorIndex creates an in-memory chromem-backed index using the given
// embedder for both chunk and query vectors.
func NewVectorIndex(embedder embeddings.Embedder) (*VectorIndex, error) {
	cdb := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := cdb.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &VectorIndex{db: cdb, collection: col, embedder: embedder, embedFunc: ef}, nil
}

// AddChunks embeds and indexes the chunks of one entry. Chunk metadata
// carries the parent entry id so deletion can cascade.
func (v *VectorIndex) AddChunks(ctx context.Context, e Entry, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, text := range chunks {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("%s:%d", e.ID, i),
			Content: text,
			Metadata: map[string]string{
				"source_id":   e.ID,
				"chunk_index": strconv.Itoa(i),
				"title":       e.Title,
				"category":    e.Category,
				"source":      e.Source,
				"tenant_id":   e.TenantID,
			},
		}
	}

	if err := v.collection.AddDocuments(ctx, docs, 1); err != nil {
		// Leave no chunks behind for a failed call.
		_ = v.DeleteBySource(ctx, e.ID)
		return fmt.Errorf("indexing chunks: %w", err)
	}
	return nil
}

// Query returns the nearest chunks for the query text, optionally scoped to
// a tenant. Results below minSimilarity are dropped.
func (v *VectorIndex) Query(ctx context.Context, query string, topK int, minSimilarity float32, tenantID string) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 10
	}

	// An unconfigured embedder means the vector path is unavailable, not
	// that nothing matched. Reporting it as an error lets the store take
	// its keyword fallback.
	if !v.embedder.Configured() {
		return nil, fmt.Errorf("no embedding provider configured")
	}

	// chromem requires nResults <= collection size.
	count := v.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	var where map[string]string
	if tenantID != "" {
		where = map[string]string{"tenant_id": tenantID}
	}

	results, err := v.collection.Query(ctx, query, topK, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	var out []SearchResult
	for _, r := range results {
		if r.Similarity < minSimilarity {
			continue
		}
		out = append(out, SearchResult{
			EntryID:    r.Metadata["source_id"],
			Title:      r.Metadata["title"],
			Content:    r.Content,
			Category:   r.Metadata["category"],
			Source:     r.Metadata["source"],
			Similarity: r.Similarity,
		})
	}
	return out, nil
}

// DeleteBySource removes every chunk belonging to the given entry id.
func (v *VectorIndex) DeleteBySource(ctx context.Context, entryID string) error {
	if v.collection.Count() == 0 {
		return nil
	}
	return v.collection.Delete(ctx, map[string]string{"source_id": entryID}, nil)
}

// Count returns the number of indexed chunks.
func (v *VectorIndex) Count() int {
	return v.collection.Count()
}

// Persist saves the index to the given directory.
func (v *VectorIndex) Persist(ctx context.Context, dir string) error {
	return v.db.ExportToFile(dir+"/knowledge.gob.gz", true, "")
}

// Load restores the index from the given directory.
func (v *VectorIndex) Load(ctx context.Context, dir string) error {
	if err := v.db.ImportFromFile(dir+"/knowledge.gob.gz", ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := v.db.GetCollection(collectionName, v.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	v.collection = col
	return nil
}

package knowledge

import (
	"context"
	"fmt"
	"log"
)

// Store combines the entry listing with the vector index. All reads
// degrade: a failing vector search becomes a keyword scan, never an error.
type Store struct {
	entries *EntryStore
	index   *VectorIndex
}

// NewStore creates a Store over the given entry store and vector index.
func NewStore(entries *EntryStore, index *VectorIndex) *Store {
	return &Store{entries: entries, index: index}
}

// AddEntry persists an entry and indexes its chunks. Entries with empty
// content are stored for bookkeeping but excluded from retrieval. An
// indexing failure leaves no chunks behind for this call; the entry row is
// kept so the content is not lost and can be re-indexed later.
func (s *Store) AddEntry(ctx context.Context, e Entry) (*Entry, error) {
	created, err := s.entries.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	chunks := splitChunks(created.Content)
	if len(chunks) == 0 {
		return created, nil
	}

	if err := s.index.AddChunks(ctx, *created, chunks); err != nil {
		return created, fmt.Errorf("entry %s stored but not indexed: %w", created.ID, err)
	}
	return created, nil
}

// GetEntry returns an entry by id, or (nil, nil) when absent.
func (s *Store) GetEntry(ctx context.Context, id string) (*Entry, error) {
	return s.entries.GetByID(ctx, id)
}

// ListEntries lists entries for a tenant, newest first.
func (s *Store) ListEntries(ctx context.Context, tenantID string) ([]Entry, error) {
	return s.entries.List(ctx, tenantID)
}

// DeleteEntry removes the entry row and cascades deletion to its indexed
// chunks via the source_id back-reference.
func (s *Store) DeleteEntry(ctx context.Context, id string) (bool, error) {
	deleted, err := s.entries.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}
	if err := s.index.DeleteBySource(ctx, id); err != nil {
		// The listing row is gone; orphaned chunks only cost index space.
		log.Printf("knowledge: removing chunks for %s: %v", id, err)
	}
	return true, nil
}

// Search answers a similarity query. When the vector path fails for any
// reason (missing credentials included) it silently falls back to keyword
// search over the entry listing, so the caller sees a lower-quality result
// set instead of an error.
func (s *Store) Search(ctx context.Context, query string, opts SearchOptions) []SearchResult {
	results, err := s.index.Query(ctx, query, opts.TopK, opts.MinSimilarity, opts.TenantID)
	if err == nil {
		return results
	}

	log.Printf("knowledge: vector search unavailable, using keyword fallback: %v", err)
	return s.KeywordSearch(ctx, query, opts.TenantID)
}

// KeywordSearch ranks stored entries by token containment. Exposed so the
// pipeline can issue a broadened last-resort query.
func (s *Store) KeywordSearch(ctx context.Context, query, tenantID string) []SearchResult {
	entries, err := s.entries.List(ctx, tenantID)
	if err != nil {
		log.Printf("knowledge: listing entries for keyword search: %v", err)
		return nil
	}
	return keywordSearch(entries, query)
}

// ChunkCount reports the number of indexed chunks.
func (s *Store) ChunkCount() int {
	return s.index.Count()
}

// Persist saves the vector index under dir. Entry rows are already durable
// in SQLite.
func (s *Store) Persist(ctx context.Context, dir string) error {
	return s.index.Persist(ctx, dir)
}

// Load restores the vector index from dir.
func (s *Store) Load(ctx context.Context, dir string) error {
	return s.index.Load(ctx, dir)
}

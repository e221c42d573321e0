// Package knowledge persists support knowledge entries and answers
// similarity queries over them. Entries live in SQLite; their embedded
// chunks live in a chromem vector index. When the vector path is
// unavailable, search silently degrades to a keyword scan over the entry
// listing so the reply pipeline sees a lower-quality result set instead of
// an error.
package knowledge

import "time"

// Entry categories. Category is free-form; these are the well-known values.
const (
	CategoryWebsite    = "website"
	CategoryDocument   = "document"
	CategoryManualNote = "manual_note"
)

// Entry is a single knowledge item.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Source    string    `json:"source,omitempty"`
	TenantID  string    `json:"tenant_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResult is a retrieved chunk (or entry, on the keyword path) with
// its relevance score.
type SearchResult struct {
	EntryID    string  `json:"entry_id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Category   string  `json:"category"`
	Source     string  `json:"source,omitempty"`
	Similarity float32 `json:"similarity"`
}

// SearchOptions tunes a similarity search.
type SearchOptions struct {
	TopK          int
	MinSimilarity float32
	TenantID      string
}

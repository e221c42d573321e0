package knowledge

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitChunksShortContent(t *testing.T) {
	chunks := splitChunks("short note")
	if len(chunks) != 1 || chunks[0] != "short note" {
		t.Errorf("expected single chunk, got %v", chunks)
	}
	if splitChunks("   ") != nil {
		t.Error("whitespace-only content should produce no chunks")
	}
}

func TestSplitChunksOverlap(t *testing.T) {
	content := strings.Repeat("alpha bravo charlie delta echo ", 120)
	chunks := splitChunks(content)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if len(c) > chunkSize {
			t.Errorf("chunk %d exceeds window: %d chars", i, len(c))
		}
		if c == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}

	// Consecutive chunks share text: the tail of one appears in the next.
	tail := chunks[0][len(chunks[0])-50:]
	if !strings.Contains(chunks[1], strings.TrimSpace(tail[:20])) {
		t.Error("expected overlap between consecutive chunks")
	}
}

func TestSplitChunksKeepsRunesWhole(t *testing.T) {
	// No whitespace anywhere, so every cut falls inside the window and
	// must be snapped to a rune boundary instead of a raw byte offset.
	content := strings.Repeat("€", chunkSize*2)
	chunks := splitChunks(content)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d contains a split rune: %q", i, c[:8])
		}
	}
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("What is your pricing, and do you do WhatsApp?")
	want := []string{"what", "your", "pricing", "and", "you", "whatsapp"}
	if len(tokens) != len(want) {
		t.Fatalf("got %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestKeywordSearchRanking(t *testing.T) {
	entries := []Entry{
		{ID: "1", Title: "About us", Content: "We are a small company"},
		{ID: "2", Title: "Pricing", Content: "Pricing for our WhatsApp automation service"},
		{ID: "3", Title: "Blog", Content: "Unrelated musings"},
	}

	results := keywordSearch(entries, "whatsapp service pricing")
	if len(results) == 0 {
		t.Fatal("expected matches")
	}
	if results[0].EntryID != "2" {
		t.Errorf("expected entry 2 first, got %s", results[0].EntryID)
	}
	for _, r := range results {
		if r.EntryID == "3" {
			t.Error("unrelated entry should not match")
		}
	}
}

func TestKeywordSearchPluralBonus(t *testing.T) {
	entries := []Entry{
		{ID: "1", Title: "Offer", Content: "We provide one service to customers"},
	}
	results := keywordSearch(entries, "services")
	if len(results) != 1 {
		t.Fatalf("expected singular/plural partial match, got %d results", len(results))
	}
}

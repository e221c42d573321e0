package knowledge

import (
	"sort"
	"strings"
	"unicode"
)

// keywordTopN is how many results the keyword fallback returns.
const keywordTopN = 3

// businessKeywords get a scoring bonus: queries containing them are almost
// always knowledge-base questions even when token overlap is thin.
var businessKeywords = map[string]bool{
	"service":    true,
	"services":   true,
	"pricing":    true,
	"price":      true,
	"cost":       true,
	"whatsapp":   true,
	"automation": true,
	"support":    true,
	"contact":    true,
	"hours":      true,
}

// tokenize splits text into lowercase alphanumeric runs longer than two
// characters.
func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 2 {
			tokens = append(tokens, b.String())
		}
		b.Reset()
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// scoreEntry computes the keyword relevance of an entry for the query
// tokens: one point per contained token, a bonus for business keywords,
// and a weak bonus for singular/plural partial matches.
func scoreEntry(e Entry, tokens []string) float64 {
	haystack := strings.ToLower(e.Title + " " + e.Content + " " + e.Category)

	var score float64
	for _, tok := range tokens {
		switch {
		case strings.Contains(haystack, tok):
			score += 1.0
			if businessKeywords[tok] {
				score += 0.5
			}
		case strings.HasSuffix(tok, "s") && strings.Contains(haystack, strings.TrimSuffix(tok, "s")):
			score += 0.25
		case strings.Contains(haystack, tok+"s"):
			score += 0.25
		}
	}
	return score
}

// keywordSearch ranks entries by token containment. It is the silent
// fallback used whenever the vector path is unavailable; callers cannot
// distinguish it from a thin vector result set.
func keywordSearch(entries []Entry, query string) []SearchResult {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	type scored struct {
		entry Entry
		score float64
	}
	var matches []scored
	for _, e := range entries {
		if e.Content == "" {
			continue
		}
		if s := scoreEntry(e, tokens); s > 0 {
			matches = append(matches, scored{entry: e, score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].entry.CreatedAt.After(matches[j].entry.CreatedAt)
	})

	if len(matches) > keywordTopN {
		matches = matches[:keywordTopN]
	}

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			EntryID:    m.entry.ID,
			Title:      m.entry.Title,
			Content:    m.entry.Content,
			Category:   m.entry.Category,
			Source:     m.entry.Source,
			Similarity: float32(m.score),
		}
	}
	return results
}

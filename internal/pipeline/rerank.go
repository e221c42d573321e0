package pipeline

import (
	"sort"
	"strings"

	"github.com/helpdeskhq/waverly/internal/crm"
	"github.com/helpdeskhq/waverly/internal/knowledge"
)

// tagKeywords derives rerank keywords from a profile's CRM tags: tags are
// lowercased, and the configured location prefix is stripped so a
// "Location: Mumbai" tag contributes "mumbai".
func tagKeywords(profile *crm.Profile, locationPrefix string) []string {
	if profile == nil {
		return nil
	}
	var keywords []string
	for _, tag := range profile.Tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if locationPrefix != "" {
			p := strings.ToLower(locationPrefix)
			if strings.HasPrefix(t, p) {
				t = strings.TrimSpace(strings.TrimPrefix(t, p))
			}
		}
		if t != "" {
			keywords = append(keywords, t)
		}
	}
	return keywords
}

// rerankByTags moves results whose text mentions any tag keyword earlier.
// It is a stable partial sort by match score; nothing is discarded.
func rerankByTags(results []knowledge.SearchResult, keywords []string) []knowledge.SearchResult {
	if len(keywords) == 0 || len(results) < 2 {
		return results
	}

	score := func(r knowledge.SearchResult) int {
		haystack := strings.ToLower(r.Title + " " + r.Content + " " + r.Category)
		n := 0
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				n++
			}
		}
		return n
	}

	scores := make([]int, len(results))
	for i, r := range results {
		scores[i] = score(r)
	}

	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	out := make([]knowledge.SearchResult, len(results))
	for i, j := range idx {
		out[i] = results[j]
	}
	return out
}

package pipeline

import (
	"strings"

	"github.com/helpdeskhq/waverly/internal/config"
	"github.com/helpdeskhq/waverly/internal/facts"
	"github.com/helpdeskhq/waverly/internal/knowledge"
)

// maxCitations is how many deduplicated sources a reply may cite.
const maxCitations = 3

// cleanSource strips scheme and trailing slash for compact citation.
func cleanSource(s string) string {
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	return strings.TrimRight(s, "/")
}

// appendCitations adds a "Sources:" line listing up to maxCitations
// deduplicated sources. No sources line is ever added for an empty
// knowledge set, regardless of citation mode.
func appendCitations(reply string, results []knowledge.SearchResult, mode config.CitationMode) string {
	if mode == config.CitationNever || len(results) == 0 {
		return reply
	}

	seen := make(map[string]bool)
	var sources []string
	for _, r := range results {
		src := cleanSource(r.Source)
		if src == "" {
			src = r.Title
		}
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		sources = append(sources, src)
		if len(sources) == maxCitations {
			break
		}
	}
	if len(sources) == 0 {
		return reply
	}

	return reply + "\n\nSources: " + strings.Join(sources, ", ")
}

// fallbackReply is the grounded "I don't know" used when the completion
// provider produced nothing. It never fabricates an answer; at most it
// points to a non-placeholder website.
func fallbackReply(id facts.Identity) string {
	msg := "I don't have enough information to answer that yet. Could you share a bit more detail about what you're looking for?"
	if id.Website != "" {
		msg += " You can also find more at " + id.Website + "."
	}
	return msg
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/helpdeskhq/waverly/internal/knowledge"
)

// handleSearchKnowledge performs semantic search over the knowledge base.
func (s *Server) handleSearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	results := s.store.Search(ctx, query, knowledge.SearchOptions{
		TopK:     limit,
		TenantID: s.cfg.CRM.LocationID,
	})
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The knowledge base may be empty; add entries via the admin API or the import command."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

// handleAskAssistant runs a question through the full reply pipeline.
func (s *Server) handleAskAssistant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	res := s.responder.Reply(ctx, question, "", "mcp-session")
	if res.HandedOff {
		return mcp.NewToolResultText("This question was escalated to a human agent; no automated reply is available."), nil
	}
	if res.Reply == "" {
		return mcp.NewToolResultError("the assistant produced no reply"), nil
	}
	return mcp.NewToolResultText(res.Reply), nil
}

// handleGetPersonality returns the configured personality as JSON.
func (s *Server) handleGetPersonality(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(s.cfg.PersonalitySnapshot(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding personality: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func formatSearchResults(results []knowledge.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d results:\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s (similarity %.2f)\n", i+1, r.Title, r.Similarity)
		content := r.Content
		if len(content) > 300 {
			// Back off to a rune boundary so a multi-byte character is
			// never cut in half.
			cut := 300
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut] + "..."
		}
		b.WriteString(content)
		b.WriteString("\n")
		if r.Source != "" {
			fmt.Fprintf(&b, "Source: %s\n", r.Source)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

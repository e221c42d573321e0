package mcp

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/helpdeskhq/waverly/internal/config"
	"github.com/helpdeskhq/waverly/internal/crm"
	"github.com/helpdeskhq/waverly/internal/db"
	"github.com/helpdeskhq/waverly/internal/handoff"
	"github.com/helpdeskhq/waverly/internal/knowledge"
	"github.com/helpdeskhq/waverly/internal/llm"
	"github.com/helpdeskhq/waverly/internal/memory"
	"github.com/helpdeskhq/waverly/internal/phone"
	"github.com/helpdeskhq/waverly/internal/pipeline"
)

type mockEmbedder struct{}

func (mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 16)
		for j, ch := range text {
			vec[(int(ch)+j)%16]++
		}
		out[i] = vec
	}
	return out, nil
}
func (mockEmbedder) Dimensions() int  { return 16 }
func (mockEmbedder) Name() string     { return "mock" }
func (mockEmbedder) Configured() bool { return true }

type fixedProvider struct{ reply string }

func (p fixedProvider) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.reply == "" {
		return nil, nil
	}
	return &llm.CompletionResponse{Content: p.reply}, nil
}
func (fixedProvider) Name() string     { return "fixed" }
func (fixedProvider) Configured() bool { return true }

func setupServer(t *testing.T, reply string) (*Server, *knowledge.Store) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	index, err := knowledge.NewVectorIndex(mockEmbedder{})
	if err != nil {
		t.Fatalf("creating vector index: %v", err)
	}
	store := knowledge.NewStore(knowledge.NewEntryStore(database), index)

	cfg := config.DefaultConfig()
	normalizer := phone.NewDefault()
	policy, err := handoff.NewPolicy(t.TempDir() + "/handoff.yml")
	if err != nil {
		t.Fatalf("creating policy: %v", err)
	}
	responder := pipeline.New(cfg, store, memory.NewStore(0),
		crm.NewResolver(crm.NoopContacts{}, normalizer), crm.NoopKnowledge{},
		policy, fixedProvider{reply: reply}, normalizer, nil)

	return NewServer(cfg, store, responder), store
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name string
		tool mcp.Tool
	}{
		{"search_knowledge", searchKnowledgeTool},
		{"ask_assistant", askAssistantTool},
		{"get_personality", getPersonalityTool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.name {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.name)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, _ := setupServer(t, "ok")
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
}

func TestHandleSearchKnowledge(t *testing.T) {
	srv, store := setupServer(t, "ok")
	ctx := context.Background()

	_, err := store.AddEntry(ctx, knowledge.Entry{
		Title:   "Pricing",
		Content: "WhatsApp automation plans start at $49 per month.",
	})
	if err != nil {
		t.Fatalf("adding entry: %v", err)
	}

	t.Run("basic search", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "automation pricing plans"}

		result, err := srv.handleSearchKnowledge(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchKnowledge(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected tool error for missing query")
		}
	})
}

func TestHandleAskAssistant(t *testing.T) {
	srv, _ := setupServer(t, "We start at $49 per month.")
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"question": "How much does it cost?"}

	result, err := srv.handleAskAssistant(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
}

func TestHandleAskAssistantHandoff(t *testing.T) {
	srv, _ := setupServer(t, "should not be used")
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"question": "I need to talk to a human"}

	result, err := srv.handleAskAssistant(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
}

func TestHandleGetPersonality(t *testing.T) {
	srv, _ := setupServer(t, "ok")
	result, err := srv.handleGetPersonality(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
}

func TestFormatSearchResults(t *testing.T) {
	out := formatSearchResults([]knowledge.SearchResult{
		{Title: "Pricing", Content: "Plans start at $49.", Similarity: 0.91, Source: "https://x.com"},
	})
	for _, want := range []string{"Found 1 results", "Pricing", "0.91", "https://x.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSearchResultsTruncatesOnRuneBoundary(t *testing.T) {
	out := formatSearchResults([]knowledge.SearchResult{
		{Title: "Menu", Content: "x" + strings.Repeat("€", 200), Similarity: 0.8},
	})
	if !utf8.ValidString(out) {
		t.Fatalf("formatted output contains a split rune:\n%q", out)
	}
	if !strings.Contains(out, "...") {
		t.Fatal("long content should be truncated with an ellipsis")
	}
}

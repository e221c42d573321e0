package pipeline

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/helpdeskhq/waverly/internal/config"
	"github.com/helpdeskhq/waverly/internal/crm"
	"github.com/helpdeskhq/waverly/internal/db"
	"github.com/helpdeskhq/waverly/internal/handoff"
	"github.com/helpdeskhq/waverly/internal/knowledge"
	"github.com/helpdeskhq/waverly/internal/llm"
	"github.com/helpdeskhq/waverly/internal/memory"
	"github.com/helpdeskhq/waverly/internal/phone"
)

// countingProvider records every completion request and returns a canned
// reply. Returning an empty reply simulates a provider that produced
// nothing.
type countingProvider struct {
	mu       sync.Mutex
	calls    int
	requests []llm.CompletionRequest
	reply    string
}

func (p *countingProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.requests = append(p.requests, req)
	if p.reply == "" {
		return nil, nil
	}
	return &llm.CompletionResponse{Content: p.reply}, nil
}

func (p *countingProvider) Name() string     { return "counting" }
func (p *countingProvider) Configured() bool { return true }

func (p *countingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *countingProvider) lastPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.requests) == 0 {
		return ""
	}
	msgs := p.requests[len(p.requests)-1].Messages
	return msgs[len(msgs)-1].Content
}

type stubContacts struct {
	contact *crm.Contact
	err     error
}

func (s *stubContacts) FindByPhone(context.Context, string) (*crm.Contact, error) {
	return s.contact, s.err
}
func (s *stubContacts) Configured() bool { return true }

// stubEmbedder mirrors the deterministic embedder used in the knowledge
// package tests.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 64)
		for j, ch := range text {
			vec[(int(ch)+j)%64] += 1.0
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for j := range vec {
				vec[j] = float32(float64(vec[j]) / norm)
			}
		}
		out[i] = vec
	}
	return out, nil
}
func (stubEmbedder) Dimensions() int  { return 64 }
func (stubEmbedder) Name() string     { return "stub" }
func (stubEmbedder) Configured() bool { return true }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func newTestStore(t *testing.T) *knowledge.Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	index, err := knowledge.NewVectorIndex(stubEmbedder{})
	if err != nil {
		t.Fatalf("creating vector index: %v", err)
	}
	return knowledge.NewStore(knowledge.NewEntryStore(database), index)
}

func newTestResponder(t *testing.T, cfg *config.Config, provider llm.Provider, contacts crm.ContactClient) (*Responder, *knowledge.Store, *memory.Store) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if contacts == nil {
		contacts = crm.NoopContacts{}
	}
	store := newTestStore(t)
	mem := memory.NewStore(0)
	normalizer := phone.NewDefault()
	resolver := crm.NewResolver(contacts, normalizer)
	policy, err := handoff.NewPolicy(filepath.Join(t.TempDir(), "handoff.yml"))
	if err != nil {
		t.Fatalf("creating handoff policy: %v", err)
	}
	r := New(cfg, store, mem, resolver, crm.NoopKnowledge{}, policy, provider, normalizer, nil)
	return r, store, mem
}

func TestReplyEmptyMessage(t *testing.T) {
	provider := &countingProvider{reply: "hello"}
	r, _, _ := newTestResponder(t, nil, provider, nil)

	res := r.Reply(context.Background(), "   ", "+918123133382", "conv-1")
	if res.Reply != "" || res.HandedOff {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if provider.callCount() != 0 {
		t.Fatalf("expected no completion calls, got %d", provider.callCount())
	}
}

func TestReplyDisabledAssistant(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Personality.AIEnabled = false
	provider := &countingProvider{reply: "hello"}
	r, _, _ := newTestResponder(t, cfg, provider, nil)

	res := r.Reply(context.Background(), "What are your prices?", "+918123133382", "conv-1")
	if res.Reply != disabledReply {
		t.Fatalf("expected disabled reply, got %q", res.Reply)
	}
	if provider.callCount() != 0 {
		t.Fatalf("expected no completion calls, got %d", provider.callCount())
	}
}

func TestHandoffSkipsCompletion(t *testing.T) {
	provider := &countingProvider{reply: "hello"}
	r, _, mem := newTestResponder(t, nil, provider, nil)

	res := r.Reply(context.Background(), "I want to talk to a human please", "+918123133382", "conv-1")
	if !res.HandedOff {
		t.Fatal("expected handoff")
	}
	if res.Reply != "" {
		t.Fatalf("handoff must not produce a reply, got %q", res.Reply)
	}
	if provider.callCount() != 0 {
		t.Fatalf("expected no completion calls, got %d", provider.callCount())
	}
	if turns := mem.Recent("+918123133382", 10); len(turns) != 0 {
		t.Fatalf("handoff must not be recorded in memory, got %d turns", len(turns))
	}
}

func TestPriorityContactHandoff(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "handoff.yml")
	writeFile(t, rulesPath, `
priority_contacts:
  enabled: true
  tags:
    - vip
`)
	provider := &countingProvider{reply: "hello"}
	contacts := &stubContacts{contact: &crm.Contact{ID: "c1", Name: "Dana", Tags: []string{"VIP"}}}

	store := newTestStore(t)
	normalizer := phone.NewDefault()
	policy, err := handoff.NewPolicy(rulesPath)
	if err != nil {
		t.Fatalf("creating handoff policy: %v", err)
	}
	r := New(config.DefaultConfig(), store, memory.NewStore(0),
		crm.NewResolver(contacts, normalizer), crm.NoopKnowledge{}, policy, provider, normalizer, nil)

	res := r.Reply(context.Background(), "What are your prices?", "+918123133382", "conv-1")
	if !res.HandedOff {
		t.Fatal("expected priority contact handoff")
	}
	if provider.callCount() != 0 {
		t.Fatalf("expected no completion calls, got %d", provider.callCount())
	}
}

func TestWebsiteQuestionGroundedInConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Personality.Company = "Example Biz"
	cfg.Personality.Website = "https://example-biz.com"
	provider := &countingProvider{reply: "Our website is https://example-biz.com"}
	r, _, _ := newTestResponder(t, cfg, provider, nil)

	res := r.Reply(context.Background(), "What is your website?", "+918123133382", "conv-1")
	if res.Reply == "" {
		t.Fatal("expected a reply")
	}
	prompt := provider.lastPrompt()
	if !strings.Contains(prompt, "https://example-biz.com") {
		t.Fatalf("prompt missing configured website:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Example Biz") {
		t.Fatalf("prompt missing configured company:\n%s", prompt)
	}
}

func TestPlaceholdersNeverReachPrompt(t *testing.T) {
	// Default identity fields are placeholders; none of them may appear
	// in the assembled prompt.
	provider := &countingProvider{reply: "Happy to help!"}
	r, _, _ := newTestResponder(t, nil, provider, nil)

	r.Reply(context.Background(), "What is your website?", "+918123133382", "conv-1")
	prompt := provider.lastPrompt()
	for _, leak := range []string{"Your Business", "yourbusiness.com"} {
		if strings.Contains(prompt, leak) {
			t.Fatalf("placeholder %q leaked into prompt:\n%s", leak, prompt)
		}
	}
}

func TestCitationSuppressedWithoutKnowledge(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Citations = config.CitationAlways
	provider := &countingProvider{reply: "We open at nine."}
	r, _, _ := newTestResponder(t, cfg, provider, nil)

	res := r.Reply(context.Background(), "hello there, quick question", "+918123133382", "conv-1")
	if strings.Contains(res.Reply, "Sources:") {
		t.Fatalf("no knowledge was retrieved, reply must not cite: %q", res.Reply)
	}
}

func TestCitationsFromRetrievedKnowledge(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Citations = config.CitationAlways
	provider := &countingProvider{reply: "We offer WhatsApp automation plans."}
	r, store, _ := newTestResponder(t, cfg, provider, nil)

	_, err := store.AddEntry(context.Background(), knowledge.Entry{
		Title:   "Pricing",
		Content: "Our WhatsApp automation pricing starts at $49 per month for the basic plan.",
		Source:  "https://example-biz.com/pricing",
	})
	if err != nil {
		t.Fatalf("adding entry: %v", err)
	}

	res := r.Reply(context.Background(), "How much does your WhatsApp automation pricing plan cost?", "+918123133382", "conv-1")
	if !strings.Contains(res.Reply, "Sources:") {
		t.Fatalf("expected a citation line, got %q", res.Reply)
	}
	if !strings.Contains(res.Reply, "example-biz.com/pricing") {
		t.Fatalf("expected cleaned source in citation, got %q", res.Reply)
	}
}

func TestFallbackWhenProviderReturnsNothing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Personality.Website = "https://example-biz.com"
	provider := &countingProvider{reply: ""}
	r, _, _ := newTestResponder(t, cfg, provider, nil)

	res := r.Reply(context.Background(), "What are your prices?", "+918123133382", "conv-1")
	if res.Reply == "" {
		t.Fatal("expected fallback reply")
	}
	if !strings.Contains(res.Reply, "don't have enough information") {
		t.Fatalf("expected grounded fallback, got %q", res.Reply)
	}
	if !strings.Contains(res.Reply, "example-biz.com") {
		t.Fatalf("fallback should point at the configured website, got %q", res.Reply)
	}
}

func TestDegradedCRMStillReplies(t *testing.T) {
	provider := &countingProvider{reply: "Happy to help!"}
	contacts := &stubContacts{err: context.DeadlineExceeded}
	r, _, _ := newTestResponder(t, nil, provider, contacts)

	res := r.Reply(context.Background(), "Can you help me with something?", "+918123133382", "conv-1")
	if res.HandedOff {
		t.Fatal("CRM failure must not trigger handoff")
	}
	if res.Reply == "" {
		t.Fatal("CRM failure must not block the reply")
	}
}

func TestMemoryRecordedUnderNormalizedKey(t *testing.T) {
	provider := &countingProvider{reply: "Hello Dana!"}
	r, _, mem := newTestResponder(t, nil, provider, nil)

	r.Reply(context.Background(), "hi there, anyone around?", "08123133382", "conv-1")
	turns := mem.Recent("+918123133382", 10)
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn under normalized key, got %d", len(turns))
	}
	if turns[0].Reply != "Hello Dana!" {
		t.Fatalf("unexpected recorded reply %q", turns[0].Reply)
	}
}

func TestMemoryFallsBackToConversationID(t *testing.T) {
	provider := &countingProvider{reply: "Welcome!"}
	r, _, mem := newTestResponder(t, nil, provider, nil)

	r.Reply(context.Background(), "hello from the web widget", "status", "conv-42")
	if turns := mem.Recent("conv-42", 10); len(turns) != 1 {
		t.Fatalf("expected 1 turn under conversation id, got %d", len(turns))
	}
}

func TestPriorTurnsReachThePrompt(t *testing.T) {
	provider := &countingProvider{reply: "As I said, $49."}
	r, _, mem := newTestResponder(t, nil, provider, nil)

	mem.Append("+918123133382", "How much is the basic plan?", "The basic plan is $49 per month.")
	r.Reply(context.Background(), "And the yearly price?", "+918123133382", "conv-1")

	prompt := provider.lastPrompt()
	if !strings.Contains(prompt, "The basic plan is $49 per month.") {
		t.Fatalf("prompt missing prior turn:\n%s", prompt)
	}
}

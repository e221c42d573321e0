// Package pipeline implements the retrieval-augmented reply flow: handoff
// detection, concurrent context fetch, intent-tuned retrieval, grounded
// prompt assembly, completion, and post-processing. Every collaborator
// failure degrades to a documented fallback; the pipeline itself never
// returns an error to its caller.
package pipeline

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/helpdeskhq/waverly/internal/config"
	"github.com/helpdeskhq/waverly/internal/crm"
	"github.com/helpdeskhq/waverly/internal/facts"
	"github.com/helpdeskhq/waverly/internal/handoff"
	"github.com/helpdeskhq/waverly/internal/knowledge"
	"github.com/helpdeskhq/waverly/internal/llm"
	"github.com/helpdeskhq/waverly/internal/memory"
	"github.com/helpdeskhq/waverly/internal/phone"
)

// contextWindow is how many prior turns are surfaced to the model. The
// memory store retains more (its cap), but only this slice reaches the
// prompt.
const contextWindow = 5

// disabledReply is returned without any model call when the assistant is
// switched off.
const disabledReply = "Thanks for reaching out! A member of our team will reply to you shortly."

// Result is the outcome of one inbound message.
type Result struct {
	// Reply is the outbound text. Empty when there is nothing to send.
	Reply string
	// HandedOff is true when the message was escalated to a human and no
	// automated reply may be sent.
	HandedOff bool
}

// Responder wires the reply pipeline's collaborators together.
type Responder struct {
	cfg        *config.Config
	store      *knowledge.Store
	mem        *memory.Store
	resolver   *crm.Resolver
	kb         crm.KnowledgeSearcher
	policy     *handoff.Policy
	provider   llm.Provider
	normalizer *phone.Normalizer
	events     EventSink
}

// New creates a Responder. A nil events sink discards events.
func New(
	cfg *config.Config,
	store *knowledge.Store,
	mem *memory.Store,
	resolver *crm.Resolver,
	kb crm.KnowledgeSearcher,
	policy *handoff.Policy,
	provider llm.Provider,
	normalizer *phone.Normalizer,
	events EventSink,
) *Responder {
	if events == nil {
		events = NoopSink{}
	}
	return &Responder{
		cfg:        cfg,
		store:      store,
		mem:        mem,
		resolver:   resolver,
		kb:         kb,
		policy:     policy,
		provider:   provider,
		normalizer: normalizer,
		events:     events,
	}
}

// Reply processes one inbound message and returns the outcome. phoneKey is
// the raw sender identifier; conversationID is the transport conversation
// reference used as a fallback memory key when the phone cannot be
// normalized.
func (r *Responder) Reply(ctx context.Context, message, phoneKey, conversationID string) Result {
	message = strings.TrimSpace(message)
	if message == "" {
		return Result{}
	}

	// One snapshot per message: the admin API can swap the personality at
	// any moment, and a reply must not mix fields from two versions.
	personality := r.cfg.PersonalitySnapshot()
	if !personality.AIEnabled {
		return Result{Reply: disabledReply}
	}

	userKey := r.userKey(phoneKey, conversationID)

	// Keyword and topic rules need no profile; check them before anything
	// expensive.
	if r.policy.ShouldHandoff(message, nil) {
		r.events.Publish(Event{Type: EventHandoff, UserKey: userKey, Message: message, Timestamp: time.Now()})
		return Result{HandedOff: true}
	}

	// Conversation memory and CRM profile are independent reads; fetch
	// them concurrently. This is the pipeline's only fan-out.
	var (
		turns   []memory.Turn
		profile *crm.Profile
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if userKey != "" {
			turns = r.mem.Recent(userKey, contextWindow)
		}
	}()
	go func() {
		defer wg.Done()
		profile = r.resolver.Resolve(ctx, phoneKey)
	}()
	wg.Wait()

	// Priority-contact handoff needs the profile, but still runs before
	// retrieval and completion.
	if r.policy.ShouldHandoff(message, profile) {
		r.events.Publish(Event{Type: EventHandoff, UserKey: userKey, Message: message, Timestamp: time.Now()})
		return Result{HandedOff: true}
	}

	intent := ClassifyIntent(message)
	retrieved := r.gatherKnowledge(ctx, message, intent)

	// Deterministic identity and brand-FAQ snippets are a stand-in, not a
	// supplement: they only enter when retrieval found nothing, so the
	// model grounds itself in the richer source when one exists.
	identity, faq := r.deterministicFacts(ctx, personality)
	results := retrieved
	if len(results) == 0 {
		results = deterministicResults(identity, faq, intent)
	}

	results = rerankByTags(results, tagKeywords(profile, r.cfg.CRM.TagLocationPrefix))

	persona := buildPersonaLine(
		personality.Name,
		personality.Role,
		r.structuredIdentity(personality),
		personality.Tone,
		personality.Traits,
	)
	prompt := buildPrompt(persona, turns, results, message)

	reply, generated := r.complete(ctx, prompt)
	eventType := EventReply
	if !generated {
		reply = fallbackReply(identity)
		eventType = EventFallback
	} else {
		// Only retrieved knowledge is citable; deterministic snippets
		// never produce a Sources line.
		reply = appendCitations(reply, retrieved, r.cfg.Citations)
	}

	if userKey != "" {
		r.mem.Append(userKey, message, reply)
	}
	r.events.Publish(Event{
		Type:      eventType,
		UserKey:   userKey,
		Message:   message,
		Reply:     reply,
		Intent:    string(intent),
		Timestamp: time.Now(),
	})

	return Result{Reply: reply}
}

// userKey picks the memory/routing key: the normalized phone when
// possible, otherwise the conversation id. A raw phone string is never
// used as a key.
func (r *Responder) userKey(phoneKey, conversationID string) string {
	if e164, ok := r.normalizer.Normalize(phoneKey); ok {
		return e164
	}
	return conversationID
}

// gatherKnowledge runs the retrieval tiers in order: CRM-hosted knowledge
// base, local vector search with intent-tuned thresholds, then a broadened
// keyword query.
func (r *Responder) gatherKnowledge(ctx context.Context, message string, intent Intent) []knowledge.SearchResult {
	if r.kb.Configured() {
		kbResults, err := r.kb.Search(ctx, message)
		if err != nil {
			log.Printf("pipeline: crm knowledge base search failed: %v", err)
		} else if len(kbResults) > 0 {
			out := make([]knowledge.SearchResult, len(kbResults))
			for i, kr := range kbResults {
				out[i] = knowledge.SearchResult{
					Title:    kr.Title,
					Content:  kr.Content,
					Source:   kr.Source,
					Category: "crm_kb",
				}
			}
			return out
		}
	}

	minSim, topK := intent.RetrievalParams()
	results := r.store.Search(ctx, message, knowledge.SearchOptions{
		TopK:          topK,
		MinSimilarity: minSim,
		TenantID:      r.cfg.CRM.LocationID,
	})
	if len(results) > 0 {
		return results
	}

	// Last resort: broaden the query with generic business terms.
	broadened := message + " services pricing support whatsapp"
	return r.store.KeywordSearch(ctx, broadened, r.cfg.CRM.LocationID)
}

// deterministicFacts resolves identity and brand-FAQ facts from structured
// configuration first, then mined knowledge text, discarding placeholders.
func (r *Responder) deterministicFacts(ctx context.Context, p config.Personality) (facts.Identity, facts.BrandFAQ) {
	var texts []string
	entries, err := r.store.ListEntries(ctx, r.cfg.CRM.LocationID)
	if err == nil {
		for _, e := range entries {
			texts = append(texts, e.Title+"\n"+e.Content)
		}
	}

	identity := facts.ResolveIdentity(
		r.identityValue("personality.company", p.Company),
		r.identityValue("personality.website", p.Website),
		texts,
	)
	faq := facts.ResolveBrandFAQ(
		r.identityValue("personality.support_email", p.SupportEmail),
		r.identityValue("personality.support_phone", p.SupportPhone),
		r.identityValue("personality.support_link", p.SupportLink),
		r.identityValue("personality.address", p.Address),
		r.identityValue("personality.business_hours", p.BusinessHours),
		texts,
	)
	return identity, faq
}

// structuredIdentity resolves the persona identity from configuration
// only; mined values never enter the persona line.
func (r *Responder) structuredIdentity(p config.Personality) facts.Identity {
	return facts.ResolveIdentity(
		r.identityValue("personality.company", p.Company),
		r.identityValue("personality.website", p.Website),
		nil,
	)
}

// identityValue blanks out fields that still hold built-in defaults, so
// the placeholder literal itself can never be considered.
func (r *Responder) identityValue(key, value string) string {
	if r.cfg.Defaulted(key) {
		return ""
	}
	return value
}

// deterministicResults renders the identity and FAQ snippets as knowledge
// results, ordered by relevance to the intent.
func deterministicResults(identity facts.Identity, faq facts.BrandFAQ, intent Intent) []knowledge.SearchResult {
	var out []knowledge.SearchResult

	idSnippet := identity.IdentitySnippet()
	faqSnippet := faq.FAQSnippet()

	add := func(title, content string) {
		if content != "" {
			out = append(out, knowledge.SearchResult{Title: title, Content: content, Category: "deterministic"})
		}
	}

	if intent == IntentSupport {
		add("Support details", faqSnippet)
		add("About the business", idSnippet)
	} else {
		add("About the business", idSnippet)
		add("Support details", faqSnippet)
	}
	return out
}

// complete calls the provider and reports whether a usable reply came
// back. Errors and empty responses both mean "nothing generated".
func (r *Responder) complete(ctx context.Context, prompt string) (string, bool) {
	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Model: r.cfg.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   512,
		Temperature: 0.4,
	})
	if err != nil {
		log.Printf("pipeline: completion failed: %v", err)
		return "", false
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", false
	}
	return strings.TrimSpace(resp.Content), true
}

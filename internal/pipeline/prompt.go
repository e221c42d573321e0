package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/helpdeskhq/waverly/internal/facts"
	"github.com/helpdeskhq/waverly/internal/knowledge"
	"github.com/helpdeskhq/waverly/internal/memory"
)

// snippetMaxChars bounds how much of each knowledge snippet enters the
// prompt.
const snippetMaxChars = 400

// systemPrompt is the fixed instruction block. Facts must come from the
// supplied knowledge only; the persona supplies tone, never facts.
const systemPrompt = `You are a customer support assistant replying on WhatsApp.

Rules:
- Answer strictly from the business knowledge provided below. Do not invent facts, prices, or links.
- If the knowledge does not cover the question, say so briefly and ask one clarifying question.
- Keep the persona's tone, but take every fact from the knowledge section only.
- Keep replies short and suitable for a chat message.`

// buildPersonaLine renders the assistant identity. Placeholder company and
// website values are omitted entirely; the placeholder text itself must
// never appear.
func buildPersonaLine(name, role string, id facts.Identity, tone string, traits []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a %s", name, role)
	if id.Company != "" {
		fmt.Fprintf(&b, " for %s", id.Company)
	}
	b.WriteString(".")
	if id.Website != "" {
		fmt.Fprintf(&b, " Website: %s.", id.Website)
	}
	if tone != "" {
		fmt.Fprintf(&b, " Tone: %s.", tone)
	}
	if len(traits) > 0 {
		fmt.Fprintf(&b, " Traits: %s.", strings.Join(traits, ", "))
	}
	return b.String()
}

// buildPrompt assembles the user-turn prompt: persona, recent conversation,
// knowledge snippets, and the current message.
func buildPrompt(persona string, turns []memory.Turn, results []knowledge.SearchResult, message string) string {
	var b strings.Builder

	b.WriteString(persona)
	b.WriteString("\n\n")

	if len(turns) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, t := range turns {
			fmt.Fprintf(&b, "Customer: %s\n", t.UserMessage)
			fmt.Fprintf(&b, "Assistant: %s\n", t.Reply)
		}
		b.WriteString("\n")
	}

	if len(results) > 0 {
		b.WriteString("Business knowledge:\n")
		for i, r := range results {
			content := truncate(r.Content, snippetMaxChars)
			fmt.Fprintf(&b, "[%d] %s\n%s\n", i+1, r.Title, content)
			if r.Source != "" {
				fmt.Fprintf(&b, "Source: %s\n", r.Source)
			}
		}
		b.WriteString("\n")
	} else {
		b.WriteString("Business knowledge: (none found for this question)\n\n")
	}

	fmt.Fprintf(&b, "Customer message: %s", message)
	return b.String()
}

// truncate shortens s to at most max bytes without splitting a rune,
// appending an ellipsis when anything was removed.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

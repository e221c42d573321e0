package pipeline

import "strings"

// Intent is a cheap, auditable classification of what the user is asking
// for. It tunes retrieval aggressiveness; it is deliberately a substring
// table, not a model.
type Intent string

const (
	IntentServices   Intent = "services"
	IntentPricing    Intent = "pricing"
	IntentAutomation Intent = "automation"
	IntentIdentity   Intent = "identity"
	IntentSupport    Intent = "support"
	IntentGeneral    Intent = "general"
)

// intentTable maps intents to their trigger substrings. Checked in order;
// first match wins.
var intentTable = []struct {
	intent   Intent
	triggers []string
}{
	{IntentPricing, []string{"price", "pricing", "cost", "how much", "plan", "subscription fee"}},
	{IntentServices, []string{"service", "what do you do", "what do you offer", "offerings"}},
	{IntentAutomation, []string{"automation", "automate", "workflow", "chatbot", "integration"}},
	{IntentIdentity, []string{"who are you", "your name", "your company", "your website", "about you", "website"}},
	{IntentSupport, []string{"support", "help", "contact", "hours", "address", "email", "phone number"}},
}

// ClassifyIntent buckets a message by substring match.
func ClassifyIntent(message string) Intent {
	lower := strings.ToLower(message)
	for _, row := range intentTable {
		for _, trigger := range row.triggers {
			if strings.Contains(lower, trigger) {
				return row.intent
			}
		}
	}
	return IntentGeneral
}

// KnowledgeSeeking reports whether the intent plausibly targets the
// knowledge base. Knowledge-seeking intents search more broadly and more
// permissively than small talk.
func (i Intent) KnowledgeSeeking() bool {
	return i != IntentGeneral
}

// RetrievalParams returns the similarity floor and candidate count for the
// intent.
func (i Intent) RetrievalParams() (minSimilarity float32, topK int) {
	if i.KnowledgeSeeking() {
		return 0.15, 10
	}
	return 0.30, 8
}

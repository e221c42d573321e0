package pipeline

import "time"

// Event types published to the event sink.
const (
	EventReply    = "reply"
	EventHandoff  = "handoff"
	EventFallback = "fallback"
)

// Event describes one pipeline outcome, for the live operator feed.
type Event struct {
	Type      string    `json:"type"`
	UserKey   string    `json:"user_key"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply,omitempty"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventSink receives pipeline events. Publish must not block the reply
// path.
type EventSink interface {
	Publish(Event)
}

// NoopSink discards events.
type NoopSink struct{}

func (NoopSink) Publish(Event) {}

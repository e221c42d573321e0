// Package memory holds short-term conversation context per user key.
// It is deliberately in-process only: a restart clears it. This is working
// memory for prompt context, not an audit log.
package memory

import (
	"sync"
	"time"
)

// DefaultCap is how many turns are retained per user key.
const DefaultCap = 10

// Turn is one (user message, assistant reply) pair.
type Turn struct {
	Timestamp   time.Time
	UserMessage string
	Reply       string
}

// Store is a bounded per-key ring of conversation turns. Eviction is FIFO
// on storage order; reads do not refresh recency.
type Store struct {
	mu    sync.Mutex
	cap   int
	turns map[string][]Turn
}

// NewStore creates a Store with the given per-key capacity. A non-positive
// capacity uses DefaultCap.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Store{
		cap:   capacity,
		turns: make(map[string][]Turn),
	}
}

// Append records a turn for the key, evicting the oldest when over
// capacity. Order reflects arrival at this call.
func (s *Store) Append(key, userMessage, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(s.turns[key], Turn{
		Timestamp:   time.Now(),
		UserMessage: userMessage,
		Reply:       reply,
	})
	if len(list) > s.cap {
		list = list[len(list)-s.cap:]
	}
	s.turns[key] = list
}

// Recent returns up to window turns for the key in chronological order,
// oldest first.
func (s *Store) Recent(key string, window int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.turns[key]
	if window <= 0 || window > len(list) {
		window = len(list)
	}
	out := make([]Turn, window)
	copy(out, list[len(list)-window:])
	return out
}

// Reset clears all retained turns. Intended for test isolation.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = make(map[string][]Turn)
}

package chat

import (
	"sync"
	"time"
)

// defaultHistoryCap bounds in-memory history growth.
const defaultHistoryCap = 1000

// Exchange is one user message and the assistant's reply.
type Exchange struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
}

// History is the in-memory conversation log. It is the only mutating state
// in the system; appends are serialized behind a mutex so concurrent
// handlers can share one instance.
type History struct {
	mu      sync.Mutex
	entries []Exchange
	cap     int
}

// NewHistory creates a history with the default capacity.
func NewHistory() *History {
	return &History{cap: defaultHistoryCap}
}

// Append records one exchange, evicting the oldest entry past capacity.
func (h *History) Append(user, bot string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, Exchange{
		Timestamp: time.Now().UTC(),
		User:      user,
		Bot:       bot,
	})

	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
}

// Recent returns up to limit most recent exchanges, oldest first.
func (h *History) Recent(limit int) []Exchange {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 || limit > len(h.entries) {
		limit = len(h.entries)
	}

	out := make([]Exchange, limit)
	copy(out, h.entries[len(h.entries)-limit:])
	return out
}

// Clear drops all history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

package rules

import (
	"sync/atomic"

	"github.com/coinscan/backend/internal/scoring"
)

// Holder publishes a RuleTable to concurrent readers. Reload swaps the whole
// table atomically so a reader never observes a partially updated one; fields
// are never mutated in place.
type Holder struct {
	current atomic.Pointer[scoring.RuleTable]
}

// NewHolder creates a holder seeded with the given table.
func NewHolder(table scoring.RuleTable) *Holder {
	h := &Holder{}
	h.current.Store(&table)
	return h
}

// Current returns the active rule table.
func (h *Holder) Current() scoring.RuleTable {
	return *h.current.Load()
}

// Replace atomically installs a new rule table.
func (h *Holder) Replace(table scoring.RuleTable) {
	h.current.Store(&table)
}

// ReloadFrom loads a rules file and installs it on success, returning the
// new table's hash. On failure the previous table stays active and the error
// is returned to the caller.
func (h *Holder) ReloadFrom(path string) (string, error) {
	table, _, err := Load(path)
	if err != nil {
		return "", err
	}

	hash, err := Hash(table)
	if err != nil {
		return "", err
	}

	h.Replace(table)
	return hash, nil
}

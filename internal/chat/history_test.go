package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_AppendAndRecent(t *testing.T) {
	h := NewHistory()

	h.Append("Score BTC", "BTC scored 59/100")
	h.Append("help", "commands...")

	recent := h.Recent(0)
	assert.Len(t, recent, 2)
	// Oldest first.
	assert.Equal(t, "Score BTC", recent[0].User)
	assert.Equal(t, "help", recent[1].User)
	assert.False(t, recent[0].Timestamp.IsZero())
}

func TestHistory_RecentLimit(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 5; i++ {
		h.Append(fmt.Sprintf("q%d", i), "r")
	}

	recent := h.Recent(2)
	assert.Len(t, recent, 2)
	assert.Equal(t, "q3", recent[0].User)
	assert.Equal(t, "q4", recent[1].User)

	// Limit larger than the log returns everything.
	assert.Len(t, h.Recent(100), 5)
}

func TestHistory_CapEvictsOldest(t *testing.T) {
	h := &History{cap: 3}

	for i := 0; i < 5; i++ {
		h.Append(fmt.Sprintf("q%d", i), "r")
	}

	recent := h.Recent(0)
	assert.Len(t, recent, 3)
	assert.Equal(t, "q2", recent[0].User)
	assert.Equal(t, "q4", recent[2].User)
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory()
	h.Append("q", "r")
	h.Clear()
	assert.Empty(t, h.Recent(0))
}

func TestHistory_ConcurrentAppend(t *testing.T) {
	h := NewHistory()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				h.Append(fmt.Sprintf("w%d-q%d", n, j), "r")
				h.Recent(5)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, h.Recent(0), 200)
}

func TestHistory_RecentReturnsCopy(t *testing.T) {
	h := NewHistory()
	h.Append("q", "r")

	recent := h.Recent(0)
	recent[0].User = "mutated"

	assert.Equal(t, "q", h.Recent(0)[0].User)
}

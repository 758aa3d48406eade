package autoreply

import (
	"sync"
	"time"
)

// TriggerBudget caps how many replies one user can draw inside a
// sliding window, independent of the shorter per-trigger cooldown.
type TriggerBudget struct {
	mu    sync.Mutex
	clock Clock
	hits  map[string][]time.Time
}

func NewTriggerBudget() *TriggerBudget {
	return &TriggerBudget{
		clock: realClock{},
		hits:  make(map[string][]time.Time),
	}
}

func (b *TriggerBudget) WithClock(clock Clock) {
	b.clock = clock
}

// Allow records a hit for userID and reports whether the user is still
// within max hits for the window. max <= 0 disables the budget.
func (b *TriggerBudget) Allow(userID string, max int, window time.Duration) bool {
	if max <= 0 {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()
	cutoff := now.Add(-window)

	hits := b.hits[userID]
	idx := 0
	for _, hit := range hits {
		if hit.After(cutoff) {
			break
		}
		idx++
	}
	hits = hits[idx:]

	if len(hits) >= max {
		b.hits[userID] = hits
		return false
	}
	b.hits[userID] = append(hits, now)
	return true
}

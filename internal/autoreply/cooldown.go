package autoreply

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// CooldownTracker is the per-user last-trigger ledger. State lives in
// process memory only; a restart forgets all cooldowns, which is
// acceptable for a soft rate-limit.
type CooldownTracker struct {
	mu    sync.Mutex
	clock Clock
	last  map[string]time.Time
}

func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		clock: realClock{},
		last:  make(map[string]time.Time),
	}
}

func (t *CooldownTracker) WithClock(clock Clock) {
	t.clock = clock
}

// OnCooldown reports whether userID triggered a reply less than d ago.
// Expired entries are dropped on the way out.
func (t *CooldownTracker) OnCooldown(userID string, d time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.last[userID]
	if !ok {
		return false
	}
	if t.clock.Now().Sub(last) >= d {
		delete(t.last, userID)
		return false
	}
	return true
}

func (t *CooldownTracker) Record(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last[userID] = t.clock.Now()
}

package autoreply

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCooldownExpires(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	tracker := NewCooldownTracker()
	tracker.WithClock(clock)

	if tracker.OnCooldown("u1", 5*time.Second) {
		t.Fatalf("fresh user should not be on cooldown")
	}
	tracker.Record("u1")

	clock.Advance(4 * time.Second)
	if !tracker.OnCooldown("u1", 5*time.Second) {
		t.Fatalf("user should still be on cooldown after 4s of a 5s window")
	}

	clock.Advance(1 * time.Second)
	if tracker.OnCooldown("u1", 5*time.Second) {
		t.Fatalf("cooldown should have expired after 5s")
	}
}

func TestCooldownIsPerUser(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	tracker := NewCooldownTracker()
	tracker.WithClock(clock)

	tracker.Record("u1")
	if tracker.OnCooldown("u2", 5*time.Second) {
		t.Fatalf("cooldown leaked across users")
	}
}

func TestTriggerBudget(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	budget := NewTriggerBudget()
	budget.WithClock(clock)

	for i := 0; i < 3; i++ {
		if !budget.Allow("u1", 3, time.Minute) {
			t.Fatalf("hit %d should be within budget", i+1)
		}
		clock.Advance(time.Second)
	}
	if budget.Allow("u1", 3, time.Minute) {
		t.Fatalf("fourth hit inside the window should be denied")
	}

	clock.Advance(time.Minute)
	if !budget.Allow("u1", 3, time.Minute) {
		t.Fatalf("budget should reset once the window slides past old hits")
	}
}

func TestTriggerBudgetDisabled(t *testing.T) {
	budget := NewTriggerBudget()
	for i := 0; i < 10; i++ {
		if !budget.Allow("u1", 0, time.Minute) {
			t.Fatalf("max 0 should disable the budget")
		}
	}
}

package clans

import (
	"path/filepath"
	"testing"
	"time"

	"citadel/internal/kv"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	kvStore, err := kv.Open(filepath.Join(t.TempDir(), "clans.store"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(kvStore.Close)

	store := NewStore(kvStore)
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	store.WithClock(clock)
	return store, clock
}

func sampleRequest(userID string) Request {
	return Request{
		UserID:      userID,
		Username:    "leader" + userID,
		LeaderNick:  "Nick" + userID,
		ClanName:    "Clan " + userID,
		ClanTag:     "[C" + userID + "]",
		DiscordLink: "https://discord.gg/example",
		MemberCount: 25,
	}
}

func TestCreatePendingRejectsDuplicate(t *testing.T) {
	store, _ := newTestStore(t)

	req, err := store.CreatePending(sampleRequest("u1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Status != StatusPending {
		t.Fatalf("status = %s, want pending", req.Status)
	}

	if _, err := store.CreatePending(sampleRequest("u1")); err != ErrPendingExists {
		t.Fatalf("duplicate create err = %v, want ErrPendingExists", err)
	}

	cfg, err := store.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Stats.TotalRequests != 1 {
		t.Fatalf("totalRequests = %d, want 1 after rejected duplicate", cfg.Stats.TotalRequests)
	}
}

func TestApproveExactlyOnce(t *testing.T) {
	store, _ := newTestStore(t)

	req, err := store.CreatePending(sampleRequest("u1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	approved, err := store.Approve(req.ID, "staff1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != StatusApproved || approved.ApprovedBy != "staff1" {
		t.Fatalf("approved = %+v", approved)
	}

	if _, pending, _ := store.Pending("u1"); pending {
		t.Fatalf("marker should be removed after approval")
	}

	if _, err := store.Approve(req.ID, "staff2"); err != ErrAlreadyProcessed {
		t.Fatalf("second approve err = %v, want ErrAlreadyProcessed", err)
	}
	if _, err := store.Approve("u9_123", "staff2"); err != ErrNotFound {
		t.Fatalf("unknown approve err = %v, want ErrNotFound", err)
	}

	cfg, _ := store.Config()
	if cfg.Stats.Approved != 1 {
		t.Fatalf("approved counter = %d, want 1", cfg.Stats.Approved)
	}
}

func TestRejectRecordsReason(t *testing.T) {
	store, _ := newTestStore(t)

	req, err := store.CreatePending(sampleRequest("u1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rejected, err := store.Reject(req.ID, "staff1", "tag already taken")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusRejected || rejected.RejectReason != "tag already taken" {
		t.Fatalf("rejected = %+v", rejected)
	}

	record, found, err := store.Record(req.ID)
	if err != nil || !found {
		t.Fatalf("record lookup: found=%t err=%v", found, err)
	}
	if record.RejectedBy != "staff1" {
		t.Fatalf("rejectedBy = %s", record.RejectedBy)
	}

	cfg, _ := store.Config()
	if cfg.Stats.Rejected != 1 {
		t.Fatalf("rejected counter = %d, want 1", cfg.Stats.Rejected)
	}
}

func TestRequestIDCollisionBumpsMillis(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.CreatePending(sampleRequest("u1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Approve(first.ID, "staff1"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Clock has not advanced: the second submit would collide with
	// the first record key and must pick the next millisecond.
	second, err := store.CreatePending(sampleRequest("u1"))
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("resubmit reused request ID %s", first.ID)
	}
}

func TestListPendingExcludesRecords(t *testing.T) {
	store, _ := newTestStore(t)

	reqA, _ := store.CreatePending(sampleRequest("a"))
	if _, err := store.CreatePending(sampleRequest("b")); err != nil {
		t.Fatalf("create b: %v", err)
	}

	pending, err := store.ListPending()
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}

	if _, err := store.Approve(reqA.ID, "staff1"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, _ = store.ListPending()
	if len(pending) != 1 || pending[0].UserID != "b" {
		t.Fatalf("pending after approval = %+v", pending)
	}

	history, err := store.ListHistory()
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 || history[0].Status != StatusApproved {
		t.Fatalf("history = %+v", history)
	}
}

func TestClearPendingLeavesHistory(t *testing.T) {
	store, _ := newTestStore(t)

	reqA, _ := store.CreatePending(sampleRequest("a"))
	if _, err := store.Approve(reqA.ID, "staff1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := store.CreatePending(sampleRequest("b")); err != nil {
		t.Fatalf("create b: %v", err)
	}

	removed, err := store.ClearPending()
	if err != nil {
		t.Fatalf("clear pending: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	history, _ := store.ListHistory()
	if len(history) != 1 {
		t.Fatalf("history should survive a pending wipe, got %d", len(history))
	}

	cfg, _ := store.Config()
	if cfg.Stats.TotalRequests != 2 || cfg.Stats.Approved != 1 {
		t.Fatalf("stats changed by pending wipe: %+v", cfg.Stats)
	}
}

func TestClearStats(t *testing.T) {
	store, _ := newTestStore(t)

	req, _ := store.CreatePending(sampleRequest("a"))
	if _, err := store.Approve(req.ID, "staff1"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := store.ClearStats(); err != nil {
		t.Fatalf("clear stats: %v", err)
	}
	cfg, _ := store.Config()
	if cfg.Stats != (Stats{}) {
		t.Fatalf("stats = %+v, want zero", cfg.Stats)
	}

	history, _ := store.ListHistory()
	if len(history) != 1 {
		t.Fatalf("history should survive a stats reset")
	}
}

func TestCancelPendingRollsBack(t *testing.T) {
	store, _ := newTestStore(t)

	req, err := store.CreatePending(sampleRequest("a"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CancelPending(req); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, pending, _ := store.Pending("a"); pending {
		t.Fatalf("marker should be gone after cancel")
	}
	if _, found, _ := store.Record(req.ID); found {
		t.Fatalf("record should be gone after cancel")
	}
	cfg, _ := store.Config()
	if cfg.Stats.TotalRequests != 0 {
		t.Fatalf("totalRequests = %d, want 0 after rollback", cfg.Stats.TotalRequests)
	}
}

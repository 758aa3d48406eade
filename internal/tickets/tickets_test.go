package tickets

import (
	"path/filepath"
	"testing"
	"time"

	"citadel/internal/kv"

	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store, err := kv.Open(filepath.Join(t.TempDir(), "tickets.store"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(store.Close)
	return NewHandler(store, nil, zap.NewNop())
}

func TestConfigRoundTrip(t *testing.T) {
	h := newTestHandler(t)

	cfg, err := h.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Enabled {
		t.Fatalf("ticket system should start disabled")
	}

	want := Config{Enabled: true, Category: "cat1", LogsChannel: "log1", StaffRole: "role1"}
	if err := h.SaveConfig(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := h.Config()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got != want {
		t.Fatalf("config = %+v, want %+v", got, want)
	}
}

func TestTicketLookupByChannel(t *testing.T) {
	h := newTestHandler(t)

	ticket := Ticket{UserID: "u1", Username: "alice", ChannelID: "c1", OpenedAt: time.Now()}
	if err := h.saveTicket(ticket); err != nil {
		t.Fatalf("save ticket: %v", err)
	}

	got, found, err := h.ticketByChannel("c1")
	if err != nil || !found {
		t.Fatalf("lookup: found=%t err=%v", found, err)
	}
	if got.UserID != "u1" || got.Username != "alice" {
		t.Fatalf("ticket = %+v", got)
	}

	if _, found, _ := h.ticketByChannel("c2"); found {
		t.Fatalf("unknown channel should not resolve to a ticket")
	}

	got.ClaimedBy = "staff1"
	if err := h.saveTicket(got); err != nil {
		t.Fatalf("reclaim save: %v", err)
	}
	reloaded, _, _ := h.ticketByChannel("c1")
	if reloaded.ClaimedBy != "staff1" {
		t.Fatalf("claimedBy = %q, want staff1", reloaded.ClaimedBy)
	}
}

package storage

import (
	"context"
	"testing"
	"time"
)

func TestAuditLogRoundTrip(t *testing.T) {
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	now := time.Now()
	entries := []AuditLog{
		{GuildID: "g1", UserID: "u1", Level: "INFO", Event: "clan_submit", Details: "tag=WAR", CreatedAt: now.Add(-time.Hour)},
		{GuildID: "g1", UserID: "u2", Level: "WARN", Event: "clan_reject", Details: "reason=spam", CreatedAt: now},
		{GuildID: "g2", UserID: "u3", Level: "INFO", Event: "clan_submit", CreatedAt: now},
	}
	for _, entry := range entries {
		if err := store.AddAuditLog(ctx, entry); err != nil {
			t.Fatalf("add audit log: %v", err)
		}
	}

	logs, err := store.ListAuditLogs(ctx, "g1", now.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].Event != "clan_reject" {
		t.Fatalf("expected newest first, got %q", logs[0].Event)
	}

	logs, err = store.ListAuditLogs(ctx, "g1", now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected since filter to keep 1 log, got %d", len(logs))
	}
}

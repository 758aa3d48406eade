package audit

import (
	"context"
	"testing"
	"time"

	"citadel/internal/storage"

	"go.uber.org/zap"
)

func newTestLogger(t *testing.T) (*Logger, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewLogger(store, zap.NewNop()), store
}

func TestLeveledHelpersPersistAndNotify(t *testing.T) {
	logger, store := newTestLogger(t)

	var notified []storage.AuditLog
	logger.SetNotifier(func(ctx context.Context, entry storage.AuditLog) {
		notified = append(notified, entry)
	})

	ctx := context.Background()
	logger.Info(ctx, "g1", "u1", EventClanSubmitted, "tag=WAR")
	logger.Warn(ctx, "g1", "u2", EventClanRejected, "reason=spam")

	logs, err := store.ListAuditLogs(ctx, "g1", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(logs))
	}
	byEvent := make(map[string]string, len(logs))
	for _, entry := range logs {
		byEvent[entry.Event] = entry.Level
	}
	if byEvent[EventClanSubmitted] != LevelInfo {
		t.Fatalf("submit level = %q, want %q", byEvent[EventClanSubmitted], LevelInfo)
	}
	if byEvent[EventClanRejected] != LevelWarn {
		t.Fatalf("reject level = %q, want %q", byEvent[EventClanRejected], LevelWarn)
	}

	if len(notified) != 2 {
		t.Fatalf("notifier saw %d entries, want 2", len(notified))
	}
	if notified[0].Event != EventClanSubmitted || notified[0].Level != LevelInfo {
		t.Fatalf("notified[0] = %+v", notified[0])
	}
}

func TestLogWithoutStoreOrNotifier(t *testing.T) {
	logger := NewLogger(nil, zap.NewNop())
	logger.Crit(context.Background(), "g1", "u1", EventTicketDeleted, "channel=c1")
}

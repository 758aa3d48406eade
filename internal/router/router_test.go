package router

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type countingHandler struct {
	calls int
	err   error
}

func (h *countingHandler) Handle(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	h.calls++
	return h.err
}

// snowflakeAt builds an interaction id whose embedded timestamp is t.
func snowflakeAt(t time.Time) string {
	ms := t.UnixMilli() - 1420070400000
	return strconv.FormatInt(ms<<22, 10)
}

func componentInteraction(id, userID, customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:   id,
			Type: discordgo.InteractionMessageComponent,
			Data: discordgo.MessageComponentInteractionData{CustomID: customID},
			User: &discordgo.User{ID: userID},
		},
	}
}

func newTestRouter(clock Clock) *Router {
	r := New(zap.NewNop(), NewDedupCache(5*time.Minute), 2500*time.Millisecond)
	if clock != nil {
		r.WithClock(clock)
	}
	return r
}

func TestResolveFirstMatchWins(t *testing.T) {
	r := newTestRouter(nil)
	r.Add(Exact("clan_toggle_system"), "config")
	r.Add(Regex(`^clan_approve_\d+_\d+$`), "requests")
	r.Add(Prefix("clan_"), "manage")

	cases := []struct {
		customID string
		want     HandlerID
	}{
		{"clan_toggle_system", "config"},
		{"clan_approve_123_456", "requests"},
		{"clan_approve_abc", "manage"},
		{"clan_manage_pending", "manage"},
	}
	for _, tc := range cases {
		got, ok := r.Resolve(tc.customID)
		if !ok {
			t.Fatalf("no handler for %q", tc.customID)
		}
		if got != tc.want {
			t.Fatalf("resolve %q: expected %q, got %q", tc.customID, tc.want, got)
		}
	}

	if _, ok := r.Resolve("ticket_open"); ok {
		t.Fatalf("expected no handler for unrouted id")
	}
	if _, ok := r.Resolve(""); ok {
		t.Fatalf("expected no handler for empty id")
	}
}

func TestRouteDedupExactlyOnce(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	r := newTestRouter(clock)
	handler := &countingHandler{}
	r.Add(Prefix("clan_"), "clans")
	r.Bind("clans", handler)

	interaction := componentInteraction(snowflakeAt(clock.now), "u1", "clan_confirm_request")

	if outcome := r.Route(context.Background(), nil, interaction); outcome != Handled {
		t.Fatalf("first delivery: expected Handled, got %v", outcome)
	}
	if outcome := r.Route(context.Background(), nil, interaction); outcome != Duplicate {
		t.Fatalf("second delivery: expected Duplicate, got %v", outcome)
	}
	if handler.calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", handler.calls)
	}
}

func TestRouteFailureAllowsRetry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	r := newTestRouter(clock)
	handler := &countingHandler{err: errors.New("boom")}
	r.Add(Prefix("clan_"), "clans")
	r.Bind("clans", handler)

	interaction := componentInteraction(snowflakeAt(clock.now), "u1", "clan_confirm_request")

	if outcome := r.Route(context.Background(), nil, interaction); outcome != Failed {
		t.Fatalf("expected Failed, got %v", outcome)
	}

	handler.err = nil
	if outcome := r.Route(context.Background(), nil, interaction); outcome != Handled {
		t.Fatalf("retry after failure: expected Handled, got %v", outcome)
	}
	if handler.calls != 2 {
		t.Fatalf("expected 2 handler runs, got %d", handler.calls)
	}
}

func TestRouteAbandonsExpiredInteraction(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	r := newTestRouter(clock)
	handler := &countingHandler{}
	r.Add(Prefix("clan_"), "clans")
	r.Bind("clans", handler)

	created := clock.now.Add(-4 * time.Second)
	interaction := componentInteraction(snowflakeAt(created), "u1", "clan_confirm_request")

	if outcome := r.Route(context.Background(), nil, interaction); outcome != Handled {
		t.Fatalf("expected Handled (abandoned), got %v", outcome)
	}
	if handler.calls != 0 {
		t.Fatalf("expected handler not to run, ran %d times", handler.calls)
	}
}

func TestRouteNoHandler(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	r := newTestRouter(clock)
	r.Add(Prefix("clan_"), "clans")

	interaction := componentInteraction(snowflakeAt(clock.now), "u1", "ticket_open")
	if outcome := r.Route(context.Background(), nil, interaction); outcome != NoHandler {
		t.Fatalf("expected NoHandler, got %v", outcome)
	}
}

func TestDedupCacheTTL(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cache := NewDedupCache(5 * time.Minute)
	cache.WithClock(clock)

	if !cache.Mark("k1") {
		t.Fatalf("expected first mark to succeed")
	}
	if cache.Mark("k1") {
		t.Fatalf("expected second mark to fail inside TTL")
	}

	clock.Advance(5*time.Minute + time.Second)
	if cache.Seen("k1") {
		t.Fatalf("expected entry to expire")
	}
	if !cache.Mark("k1") {
		t.Fatalf("expected mark to succeed after expiry")
	}
}

func TestDedupKeyIncludesUserAndCustomID(t *testing.T) {
	a := componentInteraction("1", "u1", "clan_confirm_request")
	b := componentInteraction("1", "u2", "clan_confirm_request")
	c := componentInteraction("1", "u1", "clan_manage_back")

	if DedupKey(a) == DedupKey(b) {
		t.Fatalf("expected different users to produce different keys")
	}
	if DedupKey(a) == DedupKey(c) {
		t.Fatalf("expected different customIds to produce different keys")
	}
}

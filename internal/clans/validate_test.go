package clans

import "testing"

func validSubmission() Submission {
	return Submission{
		LeaderNick:  "Nick",
		ClanName:    "The Warriors",
		ClanTag:     "[WAR]",
		DiscordLink: "https://discord.gg/example",
		MemberCount: "25",
	}
}

func TestParseSubmissionMemberCount(t *testing.T) {
	for _, raw := range []string{"abc", "", "0", "-3", "2.5"} {
		sub := validSubmission()
		sub.MemberCount = raw
		if _, err := ParseSubmission(sub); err != ErrMemberCount {
			t.Fatalf("memberCount %q: err = %v, want ErrMemberCount", raw, err)
		}
	}

	sub := validSubmission()
	sub.MemberCount = " 42 "
	req, err := ParseSubmission(sub)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.MemberCount != 42 {
		t.Fatalf("memberCount = %d, want 42", req.MemberCount)
	}
}

func TestParseSubmissionInviteLink(t *testing.T) {
	sub := validSubmission()
	sub.DiscordLink = "https://example.com/not-an-invite"
	if _, err := ParseSubmission(sub); err != ErrInviteLink {
		t.Fatalf("err = %v, want ErrInviteLink", err)
	}

	sub.DiscordLink = "https://discord.com/invite/abc123"
	req, err := ParseSubmission(sub)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.DiscordLink == "" {
		t.Fatalf("link should survive normalization")
	}
}

func TestParseSubmissionTrimsFields(t *testing.T) {
	sub := validSubmission()
	sub.LeaderNick = "  Nick  "
	sub.ClanTag = " [WAR] "
	req, err := ParseSubmission(sub)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.LeaderNick != "Nick" || req.ClanTag != "[WAR]" {
		t.Fatalf("fields not trimmed: %+v", req)
	}
}

// An invalid submission must never reach the store: parsing fails
// before CreatePending runs, so no marker or record can appear.
func TestInvalidSubmissionLeavesStoreUntouched(t *testing.T) {
	store, _ := newTestStore(t)

	sub := validSubmission()
	sub.MemberCount = "abc"
	if _, err := ParseSubmission(sub); err != ErrMemberCount {
		t.Fatalf("err = %v, want ErrMemberCount", err)
	}

	pending, err := store.ListPending()
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending = %d, want 0", len(pending))
	}
	cfg, _ := store.Config()
	if cfg.Stats.TotalRequests != 0 {
		t.Fatalf("totalRequests = %d, want 0", cfg.Stats.TotalRequests)
	}
}

func TestValidateRejectReason(t *testing.T) {
	if _, err := ValidateRejectReason("   "); err != ErrEmptyReason {
		t.Fatalf("blank reason err = %v, want ErrEmptyReason", err)
	}
	reason, err := ValidateRejectReason("  tag already taken  ")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if reason != "tag already taken" {
		t.Fatalf("reason = %q", reason)
	}
}

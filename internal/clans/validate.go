package clans

import (
	"errors"
	"strconv"
	"strings"

	"citadel/internal/utils"
)

var (
	ErrMemberCount = errors.New("member count must be a whole number of at least 1")
	ErrInviteLink  = errors.New("invite link is not a valid Discord invite")
	ErrEmptyReason = errors.New("rejection reason is required")
)

// Submission is the raw text of the request form, exactly as typed.
type Submission struct {
	LeaderNick  string
	ClanName    string
	ClanTag     string
	DiscordLink string
	MemberCount string
}

// ParseSubmission validates a form submission and shapes it into a
// request. Nothing may be persisted for a submission that fails here.
func ParseSubmission(sub Submission) (Request, error) {
	memberCount, err := strconv.Atoi(strings.TrimSpace(sub.MemberCount))
	if err != nil || memberCount < 1 {
		return Request{}, ErrMemberCount
	}

	link := strings.TrimSpace(sub.DiscordLink)
	if !utils.ValidInviteLink(link) {
		return Request{}, ErrInviteLink
	}
	if normalized, err := utils.NormalizeInviteURL(link); err == nil {
		link = normalized
	}

	return Request{
		LeaderNick:  strings.TrimSpace(sub.LeaderNick),
		ClanName:    strings.TrimSpace(sub.ClanName),
		ClanTag:     strings.TrimSpace(sub.ClanTag),
		DiscordLink: link,
		MemberCount: memberCount,
	}, nil
}

// ValidateRejectReason trims the reason and rejects a blank one.
func ValidateRejectReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", ErrEmptyReason
	}
	return reason, nil
}

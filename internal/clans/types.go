// Package clans implements the clan confirmation workflow: members
// submit a request form, staff approve or reject it, and the outcome
// fans out to the requester and a public announcement channel.
package clans

import "time"

// Status is the lifecycle state of one request. A user with no marker
// has no request at all.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is one clan confirmation request. Records are immutable
// once a decision lands; only the decision fields are written then.
type Request struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	LeaderNick   string    `json:"leaderNick"`
	ClanName     string    `json:"clanName"`
	ClanTag      string    `json:"clanTag"`
	DiscordLink  string    `json:"discordLink"`
	MemberCount  int       `json:"memberCount"`
	Status       Status    `json:"status"`
	SubmittedAt  time.Time `json:"submittedAt"`
	ApprovedBy   string    `json:"approvedBy,omitempty"`
	ApprovedAt   time.Time `json:"approvedAt,omitempty"`
	RejectedBy   string    `json:"rejectedBy,omitempty"`
	RejectedAt   time.Time `json:"rejectedAt,omitempty"`
	RejectReason string    `json:"rejectReason,omitempty"`
}

// Channels holds the two channel bindings of the workflow. Staff is
// mandatory for intake; public only gates announcements.
type Channels struct {
	Staff  string `json:"staff"`
	Public string `json:"public"`
}

type Roles struct {
	Authorized []string `json:"authorized"`
}

// EmbedTemplate is the operator-editable intake message.
type EmbedTemplate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Banner      string `json:"banner,omitempty"`
}

// Stats are monotonic counters; pending is always derived from live
// markers, never stored.
type Stats struct {
	TotalRequests int `json:"totalRequests"`
	Approved      int `json:"approved"`
	Rejected      int `json:"rejected"`
}

// SystemConfig is the persisted clan system configuration.
type SystemConfig struct {
	Enabled  bool          `json:"enabled"`
	Channels Channels      `json:"channels"`
	Roles    Roles         `json:"roles"`
	Embed    EmbedTemplate `json:"embed"`
	Stats    Stats         `json:"stats"`
}

func DefaultEmbedTemplate() EmbedTemplate {
	return EmbedTemplate{
		Title:       "🏰 Clan Confirmation",
		Description: "Click the button below to request confirmation of your clan on this server!",
		Color:       "#FFD700",
	}
}

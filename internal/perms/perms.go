// Package perms computes effective channel permissions from guild
// snapshots and validates that configured channels and roles are
// usable before a workflow depends on them.
package perms

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// DefaultChannelPermissions is what the bot needs in any channel it
// posts embeds to.
var DefaultChannelPermissions = []int64{
	discordgo.PermissionViewChannel,
	discordgo.PermissionSendMessages,
	discordgo.PermissionEmbedLinks,
}

// Result reports one channel permission check.
type Result struct {
	OK           bool
	Missing      []int64
	MissingNames []string
}

// Compute resolves the effective permission bits for member in
// channel, applying role overwrites on top of the guild-wide base.
// Administrator short-circuits to all bits.
func Compute(guild *discordgo.Guild, channel *discordgo.Channel, member *discordgo.Member) int64 {
	if guild == nil || member == nil {
		return 0
	}

	var base int64
	for _, role := range guild.Roles {
		if role.ID == guild.ID {
			base |= role.Permissions
			break
		}
	}
	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID == roleID {
				base |= role.Permissions
				break
			}
		}
	}

	if base&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	if channel == nil {
		return base
	}

	// Overwrite precedence: @everyone, then member roles, then the
	// member-specific overwrite.
	effective := base
	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.Type == discordgo.PermissionOverwriteTypeRole && overwrite.ID == guild.ID {
			effective &^= overwrite.Deny
			effective |= overwrite.Allow
			break
		}
	}

	var roleAllow, roleDeny int64
	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.Type != discordgo.PermissionOverwriteTypeRole || overwrite.ID == guild.ID {
			continue
		}
		for _, roleID := range member.Roles {
			if overwrite.ID == roleID {
				roleAllow |= overwrite.Allow
				roleDeny |= overwrite.Deny
				break
			}
		}
	}
	effective &^= roleDeny
	effective |= roleAllow

	memberID := ""
	if member.User != nil {
		memberID = member.User.ID
	}
	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.Type == discordgo.PermissionOverwriteTypeMember && overwrite.ID == memberID {
			effective &^= overwrite.Deny
			effective |= overwrite.Allow
			break
		}
	}
	return effective
}

// CheckChannelPermissions verifies the default set plus any extra bits
// for member in channel.
func CheckChannelPermissions(guild *discordgo.Guild, channel *discordgo.Channel, member *discordgo.Member, extra ...int64) Result {
	if guild == nil || channel == nil || member == nil {
		return Result{MissingNames: []string{"channel or bot member unavailable"}}
	}

	required := make([]int64, 0, len(DefaultChannelPermissions)+len(extra))
	required = append(required, DefaultChannelPermissions...)
	required = append(required, extra...)

	effective := Compute(guild, channel, member)

	result := Result{OK: true}
	for _, bit := range required {
		if effective&bit == 0 {
			result.OK = false
			result.Missing = append(result.Missing, bit)
			result.MissingNames = append(result.MissingNames, Name(bit))
		}
	}
	return result
}

// HasAuthorizedRole reports whether member carries any of the listed
// role IDs. An empty list authorizes nobody.
func HasAuthorizedRole(member *discordgo.Member, authorizedRoles []string) bool {
	if member == nil || len(authorizedRoles) == 0 {
		return false
	}
	for _, roleID := range authorizedRoles {
		for _, have := range member.Roles {
			if have == roleID {
				return true
			}
		}
	}
	return false
}

// SystemConfig is the subset of a workflow configuration the
// validator needs.
type SystemConfig struct {
	Enabled         bool
	StaffChannel    string
	PublicChannel   string
	AuthorizedRoles []string
}

// Validation separates blocking issues from degraded-mode warnings.
type Validation struct {
	Valid    bool
	Issues   []string
	Warnings []string
}

// ValidateSystemConfig checks a workflow configuration against the
// live guild: the staff channel is mandatory, the public channel and
// authorized roles only degrade behavior when absent.
func ValidateSystemConfig(cfg SystemConfig, guild *discordgo.Guild, botMember *discordgo.Member) Validation {
	var v Validation

	if !cfg.Enabled {
		v.Issues = append(v.Issues, "system is disabled")
	}

	if cfg.StaffChannel == "" {
		v.Issues = append(v.Issues, "staff channel is not configured")
	} else if problem := channelProblem(guild, botMember, cfg.StaffChannel); problem != "" {
		v.Issues = append(v.Issues, "staff channel: "+problem)
	}

	if cfg.PublicChannel == "" {
		v.Warnings = append(v.Warnings, "public channel is not configured, announcements will be skipped")
	} else if problem := channelProblem(guild, botMember, cfg.PublicChannel); problem != "" {
		v.Warnings = append(v.Warnings, "public channel: "+problem)
	}

	if len(cfg.AuthorizedRoles) == 0 {
		v.Warnings = append(v.Warnings, "no authorized roles configured, only the owner can act on requests")
	} else {
		valid := 0
		for _, roleID := range cfg.AuthorizedRoles {
			for _, role := range guild.Roles {
				if role.ID == roleID {
					valid++
					break
				}
			}
		}
		switch {
		case valid == 0:
			v.Warnings = append(v.Warnings, "none of the authorized roles exist in this guild")
		case valid < len(cfg.AuthorizedRoles):
			v.Warnings = append(v.Warnings, fmt.Sprintf("%d authorized role(s) no longer exist", len(cfg.AuthorizedRoles)-valid))
		}
	}

	v.Valid = len(v.Issues) == 0
	return v
}

func channelProblem(guild *discordgo.Guild, botMember *discordgo.Member, channelID string) string {
	channel := findChannel(guild, channelID)
	if channel == nil {
		return "channel not found"
	}
	check := CheckChannelPermissions(guild, channel, botMember)
	if !check.OK {
		return "missing " + strings.Join(check.MissingNames, ", ")
	}
	return ""
}

func findChannel(guild *discordgo.Guild, channelID string) *discordgo.Channel {
	if guild == nil {
		return nil
	}
	for _, channel := range guild.Channels {
		if channel.ID == channelID {
			return channel
		}
	}
	return nil
}

// Report renders a human-readable permission audit for the given
// channels, used by the owner report command.
func Report(guild *discordgo.Guild, botMember *discordgo.Member, channelIDs []string) string {
	if guild == nil || botMember == nil {
		return "❌ Bot member not available in this guild."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Permission Report — %s**\n\n", guild.Name)
	isAdmin := Compute(guild, nil, botMember)&discordgo.PermissionAdministrator != 0
	fmt.Fprintf(&b, "👑 **Administrator:** %t\n\n", isAdmin)

	for _, channelID := range channelIDs {
		channel := findChannel(guild, channelID)
		if channel == nil {
			fmt.Fprintf(&b, "❌ **Channel %s:** not found\n", channelID)
			continue
		}
		check := CheckChannelPermissions(guild, channel, botMember)
		if check.OK {
			fmt.Fprintf(&b, "✅ **%s**\n", channel.Name)
		} else {
			fmt.Fprintf(&b, "❌ **%s** — missing: %s\n", channel.Name, strings.Join(check.MissingNames, ", "))
		}
	}
	return b.String()
}

// Name maps a permission bit to the label shown to staff.
func Name(bit int64) string {
	switch bit {
	case discordgo.PermissionViewChannel:
		return "View Channel"
	case discordgo.PermissionSendMessages:
		return "Send Messages"
	case discordgo.PermissionEmbedLinks:
		return "Embed Links"
	case discordgo.PermissionAttachFiles:
		return "Attach Files"
	case discordgo.PermissionReadMessageHistory:
		return "Read Message History"
	case discordgo.PermissionUseExternalEmojis:
		return "Use External Emojis"
	case discordgo.PermissionAddReactions:
		return "Add Reactions"
	case discordgo.PermissionManageMessages:
		return "Manage Messages"
	case discordgo.PermissionManageChannels:
		return "Manage Channels"
	case discordgo.PermissionManageRoles:
		return "Manage Roles"
	case discordgo.PermissionVoiceConnect:
		return "Connect"
	case discordgo.PermissionVoiceSpeak:
		return "Speak"
	default:
		return fmt.Sprintf("Unknown Permission (0x%x)", bit)
	}
}

package perms

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func testGuild() *discordgo.Guild {
	return &discordgo.Guild{
		ID:   "g1",
		Name: "Test Guild",
		Roles: []*discordgo.Role{
			{ID: "g1", Permissions: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages},
			{ID: "r-embed", Permissions: discordgo.PermissionEmbedLinks},
			{ID: "r-admin", Permissions: discordgo.PermissionAdministrator},
		},
	}
}

func botMember(roles ...string) *discordgo.Member {
	return &discordgo.Member{
		User:  &discordgo.User{ID: "bot"},
		Roles: roles,
	}
}

func TestCheckChannelPermissionsDefaultSet(t *testing.T) {
	guild := testGuild()
	channel := &discordgo.Channel{ID: "c1", Name: "general"}
	guild.Channels = []*discordgo.Channel{channel}

	result := CheckChannelPermissions(guild, channel, botMember())
	if result.OK {
		t.Fatalf("expected missing Embed Links, got OK")
	}
	if len(result.MissingNames) != 1 || result.MissingNames[0] != "Embed Links" {
		t.Fatalf("missing = %v, want [Embed Links]", result.MissingNames)
	}

	result = CheckChannelPermissions(guild, channel, botMember("r-embed"))
	if !result.OK {
		t.Fatalf("expected OK with embed role, missing %v", result.MissingNames)
	}
}

func TestComputeChannelOverwrites(t *testing.T) {
	guild := testGuild()
	channel := &discordgo.Channel{
		ID: "c1",
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: "g1", Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionSendMessages},
			{ID: "bot", Type: discordgo.PermissionOverwriteTypeMember, Allow: discordgo.PermissionSendMessages},
		},
	}

	effective := Compute(guild, channel, botMember())
	if effective&discordgo.PermissionSendMessages == 0 {
		t.Fatalf("member overwrite should win over the @everyone deny")
	}

	// Without the member overwrite the deny holds.
	channel.PermissionOverwrites = channel.PermissionOverwrites[:1]
	effective = Compute(guild, channel, botMember())
	if effective&discordgo.PermissionSendMessages != 0 {
		t.Fatalf("@everyone deny should remove send messages")
	}
}

func TestComputeAdministratorShortCircuit(t *testing.T) {
	guild := testGuild()
	channel := &discordgo.Channel{
		ID: "c1",
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: "g1", Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		},
	}
	effective := Compute(guild, channel, botMember("r-admin"))
	if effective&discordgo.PermissionViewChannel == 0 {
		t.Fatalf("administrator must bypass channel denies")
	}
}

func TestHasAuthorizedRole(t *testing.T) {
	member := botMember("r1", "r2")
	if !HasAuthorizedRole(member, []string{"r2", "r9"}) {
		t.Fatalf("expected role match")
	}
	if HasAuthorizedRole(member, []string{"r9"}) {
		t.Fatalf("expected no role match")
	}
	if HasAuthorizedRole(member, nil) {
		t.Fatalf("empty authorized list must authorize nobody")
	}
}

func TestValidateSystemConfig(t *testing.T) {
	guild := testGuild()
	staff := &discordgo.Channel{ID: "staff"}
	guild.Channels = []*discordgo.Channel{staff}
	member := botMember("r-embed")

	v := ValidateSystemConfig(SystemConfig{
		Enabled:         true,
		StaffChannel:    "staff",
		AuthorizedRoles: []string{"r-embed", "gone"},
	}, guild, member)
	if !v.Valid {
		t.Fatalf("expected valid config, issues: %v", v.Issues)
	}
	if len(v.Warnings) != 2 {
		t.Fatalf("expected public-channel and stale-role warnings, got %v", v.Warnings)
	}

	v = ValidateSystemConfig(SystemConfig{Enabled: false}, guild, member)
	if v.Valid {
		t.Fatalf("disabled system without staff channel must be invalid")
	}
	if len(v.Issues) != 2 {
		t.Fatalf("expected disabled + missing staff channel issues, got %v", v.Issues)
	}
}

func TestReport(t *testing.T) {
	guild := testGuild()
	guild.Channels = []*discordgo.Channel{{ID: "c1", Name: "general"}}
	report := Report(guild, botMember("r-embed"), []string{"c1", "missing"})

	if !strings.Contains(report, "✅ **general**") {
		t.Fatalf("report missing OK channel line:\n%s", report)
	}
	if !strings.Contains(report, "not found") {
		t.Fatalf("report missing unknown channel line:\n%s", report)
	}
}

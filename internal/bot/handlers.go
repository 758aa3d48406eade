package bot

import (
	"context"
	"fmt"
	"strings"

	"citadel/internal/modules/audit"
	"citadel/internal/perms"
	"citadel/internal/tickets"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) handleCommand(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	data := interaction.ApplicationCommandData()

	user := interaction.User
	if user == nil && interaction.Member != nil {
		user = interaction.Member.User
	}
	if user == nil || user.ID != b.cfg.OwnerID {
		b.respond(session, interaction, "❌ This command is restricted to the bot owner.", true)
		return nil
	}

	switch data.Name {
	case "clan-panel":
		return b.clanConfig.ShowPanel(session, interaction)
	case "clan-manage":
		return b.clanManage.ShowStatistics(session, interaction)
	case "auto-reply":
		return b.autoReplyAdmin.ShowPanel(session, interaction)
	case "ticket-setup":
		return b.handleTicketSetup(ctx, session, interaction, data)
	case "report":
		return b.handleReport(ctx, session, interaction)
	default:
		b.respond(session, interaction, "Unknown command.", true)
		return nil
	}
}

func (b *Bot) handleTicketSetup(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) error {
	cfg := tickets.Config{Enabled: true}
	panelChannel := ""

	for _, opt := range data.Options {
		switch opt.Name {
		case "category":
			cfg.Category = opt.ChannelValue(nil).ID
		case "logs":
			cfg.LogsChannel = opt.ChannelValue(nil).ID
		case "feedback":
			cfg.FeedbackChannel = opt.ChannelValue(nil).ID
		case "role":
			cfg.StaffRole = opt.RoleValue(nil, "").ID
		case "panel":
			panelChannel = opt.ChannelValue(nil).ID
		}
	}

	if err := b.tickets.SaveConfig(cfg); err != nil {
		b.logger.Error("ticket config save failed", zap.Error(err))
		b.respond(session, interaction, "❌ Failed to save the ticket configuration.", true)
		return err
	}

	lines := []string{
		"✅ Ticket system configured.",
		fmt.Sprintf("**Category:** <#%s>", cfg.Category),
	}
	if cfg.LogsChannel != "" {
		lines = append(lines, fmt.Sprintf("**Logs:** <#%s>", cfg.LogsChannel))
	}
	if cfg.FeedbackChannel != "" {
		lines = append(lines, fmt.Sprintf("**Feedback:** <#%s>", cfg.FeedbackChannel))
	}
	if cfg.StaffRole != "" {
		lines = append(lines, fmt.Sprintf("**Staff role:** <@&%s>", cfg.StaffRole))
	}

	if panelChannel != "" {
		if err := b.tickets.SendPanel(session, panelChannel); err != nil {
			b.logger.Warn("ticket panel post failed", zap.String("channel_id", panelChannel), zap.Error(err))
			lines = append(lines, fmt.Sprintf("⚠️ Could not post the panel in <#%s>.", panelChannel))
		} else {
			lines = append(lines, fmt.Sprintf("**Panel posted in:** <#%s>", panelChannel))
		}
	}

	b.audit.Info(ctx, interaction.GuildID, b.cfg.OwnerID, audit.EventTicketSetup, "ticket system configured")
	b.respond(session, interaction, strings.Join(lines, "\n"), true)
	return nil
}

// handleReport runs a permission sweep over every configured channel
// plus a validity check of the clan system configuration.
func (b *Bot) handleReport(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	_ = ctx

	guild, err := session.State.Guild(interaction.GuildID)
	if err != nil {
		b.respond(session, interaction, "❌ Guild state unavailable.", true)
		return nil
	}
	botMember, err := session.State.Member(guild.ID, session.State.User.ID)
	if err != nil {
		b.respond(session, interaction, "❌ Bot member state unavailable.", true)
		return nil
	}

	clanCfg, err := b.clanStore.Config()
	if err != nil {
		b.logger.Error("clan config load failed", zap.Error(err))
		b.respond(session, interaction, "❌ Failed to load the clan configuration.", true)
		return err
	}
	ticketCfg, err := b.tickets.Config()
	if err != nil {
		b.logger.Error("ticket config load failed", zap.Error(err))
		b.respond(session, interaction, "❌ Failed to load the ticket configuration.", true)
		return err
	}

	var channelIDs []string
	for _, id := range []string{
		clanCfg.Channels.Staff,
		clanCfg.Channels.Public,
		ticketCfg.LogsChannel,
		ticketCfg.FeedbackChannel,
		b.cfg.DefaultLogChannel,
	} {
		if id != "" {
			channelIDs = append(channelIDs, id)
		}
	}

	report := perms.Report(guild, botMember, channelIDs)

	validation := perms.ValidateSystemConfig(perms.SystemConfig{
		Enabled:         clanCfg.Enabled,
		StaffChannel:    clanCfg.Channels.Staff,
		PublicChannel:   clanCfg.Channels.Public,
		AuthorizedRoles: clanCfg.Roles.Authorized,
	}, guild, botMember)

	status := "✅ Valid"
	if !validation.Valid {
		status = "❌ Invalid"
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: "Clan system", Value: status, Inline: true},
	}
	if len(validation.Issues) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Issues",
			Value: "• " + strings.Join(validation.Issues, "\n• "),
		})
	}
	if len(validation.Warnings) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Warnings",
			Value: "• " + strings.Join(validation.Warnings, "\n• "),
		})
	}

	color := b.cfg.Notifications.EmbedColors.Approved
	if !validation.Valid {
		color = b.cfg.Notifications.EmbedColors.Error
	}

	embed := b.commandEmbed("🩺 System Report", report, color, fields)
	b.respondEmbed(session, interaction, embed, true)
	return nil
}

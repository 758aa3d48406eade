package clans

import (
	"context"
	"fmt"
	"strings"

	"citadel/internal/modules/audit"
	"citadel/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// ConfirmPhrase must be typed verbatim before any bulk data wipe runs.
const ConfirmPhrase = "CONFIRM"

// ManageHandler owns the owner-only management panel: statistics,
// pending and history views, and the typed-confirmation clear flows.
type ManageHandler struct {
	store   *Store
	logger  *zap.Logger
	audit   *audit.Logger
	ownerID string
	palette Palette
}

func NewManageHandler(store *Store, auditLog *audit.Logger, logger *zap.Logger, ownerID string, palette Palette) *ManageHandler {
	return &ManageHandler{store: store, logger: logger, audit: auditLog, ownerID: ownerID, palette: palette}
}

func (h *ManageHandler) Handle(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	if interactionUser(interaction).ID != h.ownerID {
		return deferUpdate(session, interaction)
	}

	customID := componentOrModalID(interaction)
	switch {
	case customID == "clan_manage_pending":
		return h.showPending(session, interaction)
	case customID == "clan_manage_history":
		return h.showHistory(session, interaction)
	case customID == "clan_manage_clear":
		return h.showClearOptions(session, interaction)
	case customID == "clan_manage_back":
		return h.updateStatistics(session, interaction)
	case customID == "clan_clear_pending_btn":
		return h.showConfirmModal(session, interaction, "pending", "Confirm Wipe — Pending")
	case customID == "clan_clear_history_btn":
		return h.showConfirmModal(session, interaction, "history", "Confirm Wipe — History")
	case customID == "clan_clear_stats_btn":
		return h.showConfirmModal(session, interaction, "stats", "Confirm Wipe — Statistics")
	case customID == "clan_clear_all_btn":
		return h.showConfirmModal(session, interaction, "all", "Confirm Wipe — EVERYTHING")
	case strings.HasPrefix(customID, "clan_clear_confirm_"):
		return h.handleClearConfirm(ctx, session, interaction, strings.TrimPrefix(customID, "clan_clear_confirm_"))
	default:
		h.logger.Warn("unhandled clan manage id", zap.String("custom_id", customID))
		return nil
	}
}

// ShowStatistics renders the management panel as the initial response
// to the clan-manage command.
func (h *ManageHandler) ShowStatistics(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	embed, components, err := h.statisticsView()
	if err != nil {
		return err
	}
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

func (h *ManageHandler) updateStatistics(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	embed, components, err := h.statisticsView()
	if err != nil {
		return err
	}
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

func (h *ManageHandler) statisticsView() (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	cfg, err := h.store.Config()
	if err != nil {
		return nil, nil, err
	}
	pending, err := h.store.ListPending()
	if err != nil {
		return nil, nil, err
	}

	rate := 0
	if cfg.Stats.TotalRequests > 0 {
		rate = cfg.Stats.Approved * 100 / cfg.Stats.TotalRequests
	}
	status := "`🔴 Inactive`"
	if cfg.Enabled {
		status = "`🟢 Active`"
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 Clan System Statistics",
		Color: h.palette.Neutral,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📈 Total Requests", Value: fmt.Sprintf("`%d`", cfg.Stats.TotalRequests), Inline: true},
			{Name: "✅ Approved", Value: fmt.Sprintf("`%d`", cfg.Stats.Approved), Inline: true},
			{Name: "❌ Rejected", Value: fmt.Sprintf("`%d`", cfg.Stats.Rejected), Inline: true},
			{Name: "⏳ Pending", Value: fmt.Sprintf("`%d`", len(pending)), Inline: true},
			{Name: "📊 Approval Rate", Value: fmt.Sprintf("`%d%%`", rate), Inline: true},
			{Name: "🎯 System Status", Value: status, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Clan Confirmation System • Use the buttons to navigate"},
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: "clan_manage_pending", Label: "View Pending", Style: discordgo.PrimaryButton, Emoji: discordgo.ComponentEmoji{Name: "⏳"}, Disabled: len(pending) == 0},
			discordgo.Button{CustomID: "clan_manage_history", Label: "History", Style: discordgo.SecondaryButton, Emoji: discordgo.ComponentEmoji{Name: "📋"}},
			discordgo.Button{CustomID: "clan_manage_clear", Label: "Clear Data", Style: discordgo.DangerButton, Emoji: discordgo.ComponentEmoji{Name: "🗑️"}},
		}},
	}
	return embed, components, nil
}

func (h *ManageHandler) showPending(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	pending, err := h.store.ListPending()
	if err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("⏳ Pending Requests (%d)", len(pending)),
		Color: h.palette.Pending,
	}
	if len(pending) == 0 {
		embed.Title = "⏳ Pending Requests"
		embed.Description = "There are no pending requests right now."
	} else {
		var b strings.Builder
		shown := len(pending)
		if shown > 15 {
			shown = 15
		}
		for i := 0; i < shown; i++ {
			req := pending[i]
			fmt.Fprintf(&b, "**%d.** `%s` **%s**\n", i+1, req.ClanTag, req.ClanName)
			fmt.Fprintf(&b, "   👤 %s | 👑 `%s` | 👥 `%d`\n", req.Username, req.LeaderNick, req.MemberCount)
			fmt.Fprintf(&b, "   ⏰ <t:%d:R> | 🔗 [Discord](%s)\n\n", req.SubmittedAt.Unix(), req.DiscordLink)
		}
		if len(pending) > 15 {
			fmt.Fprintf(&b, "*... and %d more request(s)*", len(pending)-15)
		}
		embed.Description = b.String()
	}

	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "clan_manage_back", Label: "Back", Style: discordgo.SecondaryButton, Emoji: discordgo.ComponentEmoji{Name: "⬅️"}},
					discordgo.Button{CustomID: "clan_manage_history", Label: "View History", Style: discordgo.PrimaryButton, Emoji: discordgo.ComponentEmoji{Name: "📋"}},
				}},
			},
		},
	})
}

func (h *ManageHandler) showHistory(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	history, err := h.store.ListHistory()
	if err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📋 Request History (%d)", len(history)),
		Color: h.palette.Neutral,
	}
	if len(history) == 0 {
		embed.Title = "📋 Request History"
		embed.Description = "No processed requests in the history yet."
		embed.Color = 0x808080
	} else {
		var b strings.Builder
		shown := len(history)
		if shown > 12 {
			shown = 12
		}
		approved, rejected := 0, 0
		for _, req := range history {
			switch req.Status {
			case StatusApproved:
				approved++
			case StatusRejected:
				rejected++
			}
		}
		for i := 0; i < shown; i++ {
			req := history[i]
			marker := "✅"
			if req.Status == StatusRejected {
				marker = "❌"
			}
			fmt.Fprintf(&b, "**%d.** %s `%s` **%s**\n", i+1, marker, req.ClanTag, req.ClanName)
			fmt.Fprintf(&b, "   👤 %s | 📅 <t:%d:R>\n", req.Username, req.SubmittedAt.Unix())
			switch req.Status {
			case StatusApproved:
				fmt.Fprintf(&b, "   ✅ By: <@%s> (<t:%d:R>)\n", req.ApprovedBy, req.ApprovedAt.Unix())
			case StatusRejected:
				fmt.Fprintf(&b, "   ❌ By: <@%s> (<t:%d:R>)\n", req.RejectedBy, req.RejectedAt.Unix())
				if req.RejectReason != "" {
					reason := req.RejectReason
					if len(reason) > 50 {
						reason = reason[:50] + "..."
					}
					fmt.Fprintf(&b, "   📝 Reason: %s\n", reason)
				}
			}
			b.WriteString("\n")
		}
		if len(history) > 12 {
			fmt.Fprintf(&b, "*... and %d more in the history*", len(history)-12)
		}
		embed.Description = b.String()

		rate := 0
		if len(history) > 0 {
			rate = approved * 100 / len(history)
		}
		embed.Fields = []*discordgo.MessageEmbedField{{
			Name:  "📊 History Summary",
			Value: fmt.Sprintf("✅ Approved: `%d` | ❌ Rejected: `%d` | 📈 Rate: `%d%%`", approved, rejected, rate),
		}}
	}

	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "clan_manage_back", Label: "Back", Style: discordgo.SecondaryButton, Emoji: discordgo.ComponentEmoji{Name: "⬅️"}},
					discordgo.Button{CustomID: "clan_manage_pending", Label: "View Pending", Style: discordgo.PrimaryButton, Emoji: discordgo.ComponentEmoji{Name: "⏳"}},
				}},
			},
		},
	})
}

func (h *ManageHandler) showClearOptions(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "🗑️ Clear System Data",
				Description: "⚠️ **WARNING:** This cannot be undone!\n\nPick one of the options below:",
				Color:       h.palette.Rejected,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "⏳ Clear Pending", Value: "Removes every request awaiting review"},
					{Name: "📋 Clear History", Value: "Removes every processed request record"},
					{Name: "📊 Reset Statistics", Value: "Zeroes all system counters"},
					{Name: "🗑️ Clear Everything", Value: "Removes all data (pending + history + statistics)"},
				},
				Footer: &discordgo.MessageEmbedFooter{Text: "You will be asked to type '" + ConfirmPhrase + "'"},
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "clan_clear_pending_btn", Label: "Clear Pending", Style: discordgo.DangerButton, Emoji: discordgo.ComponentEmoji{Name: "⏳"}},
					discordgo.Button{CustomID: "clan_clear_history_btn", Label: "Clear History", Style: discordgo.DangerButton, Emoji: discordgo.ComponentEmoji{Name: "📋"}},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "clan_clear_stats_btn", Label: "Reset Statistics", Style: discordgo.DangerButton, Emoji: discordgo.ComponentEmoji{Name: "📊"}},
					discordgo.Button{CustomID: "clan_clear_all_btn", Label: "Clear Everything", Style: discordgo.DangerButton, Emoji: discordgo.ComponentEmoji{Name: "🗑️"}},
				}},
				backRow("clan_manage_back"),
			},
		},
	})
}

func (h *ManageHandler) showConfirmModal(session *discordgo.Session, interaction *discordgo.InteractionCreate, option, title string) error {
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "clan_clear_confirm_" + option,
			Title:    title,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "confirm_text",
						Label:       "Type '" + ConfirmPhrase + "' to proceed",
						Style:       discordgo.TextInputShort,
						MinLength:   len(ConfirmPhrase),
						MaxLength:   len(ConfirmPhrase),
						Placeholder: ConfirmPhrase,
						Required:    true,
					},
				}},
			},
		},
	})
}

func (h *ManageHandler) handleClearConfirm(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, option string) error {
	confirmText := strings.TrimSpace(utils.ModalValue(interaction.ModalSubmitData(), "confirm_text"))
	if confirmText != ConfirmPhrase {
		return replyEphemeral(session, interaction, "❌ Incorrect confirmation. Operation cancelled.")
	}

	if err := deferEphemeral(session, interaction); err != nil {
		return err
	}

	results := make([]string, 0, 3)
	run := func(what string) error {
		switch what {
		case "pending":
			n, err := h.store.ClearPending()
			if err != nil {
				return err
			}
			results = append(results, fmt.Sprintf("⏳ %d pending request(s) removed", n))
		case "history":
			n, err := h.store.ClearHistory()
			if err != nil {
				return err
			}
			results = append(results, fmt.Sprintf("📋 %d history record(s) removed", n))
		case "stats":
			if err := h.store.ClearStats(); err != nil {
				return err
			}
			results = append(results, "📊 Statistics reset")
		}
		return nil
	}

	targets := []string{option}
	if option == "all" {
		targets = []string{"pending", "history", "stats"}
	}
	for _, target := range targets {
		if err := run(target); err != nil {
			return err
		}
	}

	h.audit.Warn(ctx, interaction.GuildID, h.ownerID, audit.EventClanCleared, "scope="+option)
	return editReply(session, interaction, "✅ **Cleanup complete:**\n"+strings.Join(results, "\n"))
}

// Package tickets implements the support ticket workflow: a panel
// with an open button, per-user ticket channels, staff claim and
// delete flows, and a star rating collected after closure.
package tickets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"citadel/internal/kv"
	"citadel/internal/modules/audit"
	"citadel/internal/perms"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	configKey     = "ticketSystem"
	userKeyPrefix = "ticket_user_"
	chanKeyPrefix = "ticket_chan_"
)

// Config is the persisted ticket system configuration.
type Config struct {
	Enabled         bool   `json:"enabled"`
	Category        string `json:"category"`
	LogsChannel     string `json:"logsChannel,omitempty"`
	FeedbackChannel string `json:"feedbackChannel,omitempty"`
	StaffRole       string `json:"staffRole,omitempty"`
}

// Ticket is one open ticket channel.
type Ticket struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	ChannelID string    `json:"channelId"`
	ClaimedBy string    `json:"claimedBy,omitempty"`
	OpenedAt  time.Time `json:"openedAt"`
}

// Handler owns every ticket component id.
type Handler struct {
	kv     *kv.Store
	logger *zap.Logger
	audit  *audit.Logger
}

func NewHandler(store *kv.Store, auditLog *audit.Logger, logger *zap.Logger) *Handler {
	return &Handler{kv: store, logger: logger, audit: auditLog}
}

func (h *Handler) Config() (Config, error) {
	var cfg Config
	if _, err := h.kv.Get(kv.BucketConfig, configKey, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (h *Handler) SaveConfig(cfg Config) error {
	return h.kv.Put(kv.BucketConfig, configKey, cfg)
}

// SendPanel posts the ticket panel message with the open button.
func (h *Handler) SendPanel(session *discordgo.Session, channelID string) error {
	_, err := session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "🎫 Support Tickets",
			Description: "Click the button below to open a private ticket with the staff team.",
			Color:       0x00FFFF,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: "painel-ticket", Label: "Open Ticket", Style: discordgo.PrimaryButton, Emoji: discordgo.ComponentEmoji{Name: "🎫"}},
			}},
		},
	})
	return err
}

func (h *Handler) Handle(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	customID := ""
	if interaction.Type == discordgo.InteractionMessageComponent {
		customID = interaction.MessageComponentData().CustomID
	}

	switch {
	case customID == "painel-ticket":
		return h.handleOpen(ctx, session, interaction)
	case customID == "claim_ticket":
		return h.handleClaim(ctx, session, interaction)
	case customID == "leave_ticket":
		return h.handleClose(ctx, session, interaction, false)
	case customID == "delete_ticket":
		return h.handleClose(ctx, session, interaction, true)
	case customID == "staff_panel":
		return h.handleStaffPanel(session, interaction)
	case strings.HasPrefix(customID, "stars_"):
		return h.handleRating(ctx, session, interaction, strings.TrimPrefix(customID, "stars_"))
	default:
		h.logger.Warn("unhandled ticket id", zap.String("custom_id", customID))
		return nil
	}
}

func (h *Handler) handleOpen(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	cfg, err := h.Config()
	if err != nil {
		return err
	}
	if !cfg.Enabled || cfg.Category == "" {
		return ephemeral(session, interaction, "❌ The ticket system is not configured.")
	}

	user := ticketUser(interaction)
	var existing Ticket
	if found, err := h.kv.Get(kv.BucketTickets, userKeyPrefix+user.ID, &existing); err != nil {
		return err
	} else if found {
		return ephemeral(session, interaction, fmt.Sprintf("❌ You already have an open ticket: <#%s>", existing.ChannelID))
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{ID: interaction.GuildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: user.ID, Type: discordgo.PermissionOverwriteTypeMember, Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory},
	}
	if cfg.StaffRole != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    cfg.StaffRole,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		})
	}

	channel, err := session.GuildChannelCreateComplex(interaction.GuildID, discordgo.GuildChannelCreateData{
		Name:                 "ticket-" + strings.ToLower(user.Username),
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             cfg.Category,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		h.logger.Error("ticket channel create failed", zap.String("user_id", user.ID), zap.Error(err))
		return ephemeral(session, interaction, "❌ Could not create your ticket channel. Contact the staff.")
	}

	ticket := Ticket{UserID: user.ID, Username: user.Username, ChannelID: channel.ID, OpenedAt: time.Now()}
	if err := h.kv.Put(kv.BucketTickets, userKeyPrefix+user.ID, ticket); err != nil {
		return err
	}
	if err := h.kv.Put(kv.BucketTickets, chanKeyPrefix+channel.ID, ticket); err != nil {
		return err
	}

	_, err = session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", user.ID),
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "🎫 Ticket Opened",
			Description: "Describe your issue and the staff team will assist you shortly.",
			Color:       0x00FFFF,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: "claim_ticket", Label: "Claim", Style: discordgo.PrimaryButton, Emoji: discordgo.ComponentEmoji{Name: "🙋"}},
				discordgo.Button{CustomID: "staff_panel", Label: "Details", Style: discordgo.SecondaryButton, Emoji: discordgo.ComponentEmoji{Name: "📋"}},
				discordgo.Button{CustomID: "leave_ticket", Label: "Close", Style: discordgo.SecondaryButton, Emoji: discordgo.ComponentEmoji{Name: "🚪"}},
				discordgo.Button{CustomID: "delete_ticket", Label: "Delete", Style: discordgo.DangerButton, Emoji: discordgo.ComponentEmoji{Name: "🗑️"}},
			}},
		},
	})
	if err != nil {
		h.logger.Warn("ticket intro message failed", zap.String("channel_id", channel.ID), zap.Error(err))
	}

	h.logToChannel(session, cfg, fmt.Sprintf("🎫 Ticket opened by <@%s>: <#%s>", user.ID, channel.ID))
	h.audit.Info(ctx, interaction.GuildID, user.ID, audit.EventTicketOpened, "channel="+channel.ID)
	return ephemeral(session, interaction, fmt.Sprintf("✅ Ticket created: <#%s>", channel.ID))
}

func (h *Handler) handleClaim(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	cfg, err := h.Config()
	if err != nil {
		return err
	}
	if !h.isStaff(interaction, cfg) {
		return ephemeral(session, interaction, "❌ Only the staff team can claim tickets.")
	}

	ticket, found, err := h.ticketByChannel(interaction.ChannelID)
	if err != nil {
		return err
	}
	if !found {
		return ephemeral(session, interaction, "❌ This channel is not a tracked ticket.")
	}
	if ticket.ClaimedBy != "" {
		return ephemeral(session, interaction, fmt.Sprintf("❌ Already claimed by <@%s>.", ticket.ClaimedBy))
	}

	staffID := ticketUser(interaction).ID
	ticket.ClaimedBy = staffID
	if err := h.saveTicket(ticket); err != nil {
		return err
	}

	h.audit.Info(ctx, interaction.GuildID, staffID, audit.EventTicketClaimed, "channel="+ticket.ChannelID)
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Description: fmt.Sprintf("🙋 Ticket claimed by <@%s>.", staffID),
				Color:       0x00FF00,
			}},
		},
	})
}

// handleClose ends a ticket. The opener may close their own ticket;
// deletion is reserved for staff.
func (h *Handler) handleClose(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, staffDelete bool) error {
	cfg, err := h.Config()
	if err != nil {
		return err
	}

	ticket, found, err := h.ticketByChannel(interaction.ChannelID)
	if err != nil {
		return err
	}
	if !found {
		return ephemeral(session, interaction, "❌ This channel is not a tracked ticket.")
	}

	actor := ticketUser(interaction).ID
	if staffDelete {
		if !h.isStaff(interaction, cfg) {
			return ephemeral(session, interaction, "❌ Only the staff team can delete tickets.")
		}
	} else if actor != ticket.UserID && !h.isStaff(interaction, cfg) {
		return ephemeral(session, interaction, "❌ Only the ticket owner or staff can close this ticket.")
	}

	if err := ephemeral(session, interaction, "✅ Closing this ticket..."); err != nil {
		return err
	}

	if err := h.kv.Delete(kv.BucketTickets, userKeyPrefix+ticket.UserID); err != nil {
		h.logger.Warn("ticket cleanup failed", zap.Error(err))
	}
	if err := h.kv.Delete(kv.BucketTickets, chanKeyPrefix+ticket.ChannelID); err != nil {
		h.logger.Warn("ticket cleanup failed", zap.Error(err))
	}

	h.sendRatingPrompt(session, ticket)

	if _, err := session.ChannelDelete(ticket.ChannelID); err != nil {
		h.logger.Warn("ticket channel delete failed", zap.String("channel_id", ticket.ChannelID), zap.Error(err))
	}

	event := audit.EventTicketClosed
	if staffDelete {
		event = audit.EventTicketDeleted
	}
	h.logToChannel(session, cfg, fmt.Sprintf("🗑️ Ticket of <@%s> closed by <@%s>.", ticket.UserID, actor))
	h.audit.Info(ctx, interaction.GuildID, actor, event, "channel="+ticket.ChannelID)
	return nil
}

func (h *Handler) handleStaffPanel(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	ticket, found, err := h.ticketByChannel(interaction.ChannelID)
	if err != nil {
		return err
	}
	if !found {
		return ephemeral(session, interaction, "❌ This channel is not a tracked ticket.")
	}

	claimed := "`Unclaimed`"
	if ticket.ClaimedBy != "" {
		claimed = "<@" + ticket.ClaimedBy + ">"
	}
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title: "📋 Ticket Details",
				Color: 0x00FFFF,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "👤 Opened by", Value: "<@" + ticket.UserID + ">", Inline: true},
					{Name: "🙋 Claimed by", Value: claimed, Inline: true},
					{Name: "⏰ Opened", Value: fmt.Sprintf("<t:%d:R>", ticket.OpenedAt.Unix()), Inline: true},
				},
			}},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

// sendRatingPrompt DMs the opener a 1-5 star row. Best effort: closed
// DMs are common and never block the close.
func (h *Handler) sendRatingPrompt(session *discordgo.Session, ticket Ticket) {
	channel, err := session.UserChannelCreate(ticket.UserID)
	if err != nil {
		h.logger.Info("rating dm unavailable", zap.String("user_id", ticket.UserID), zap.Error(err))
		return
	}

	buttons := make([]discordgo.MessageComponent, 0, 5)
	for i := 1; i <= 5; i++ {
		buttons = append(buttons, discordgo.Button{
			CustomID: fmt.Sprintf("stars_%d_%s", i, ticket.UserID),
			Label:    strconv.Itoa(i),
			Style:    discordgo.SecondaryButton,
			Emoji:    discordgo.ComponentEmoji{Name: "⭐"},
		})
	}

	_, err = session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "⭐ How was your support experience?",
			Description: "Rate the handling of your ticket from 1 to 5 stars.",
			Color:       0xFFD700,
		}},
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
	})
	if err != nil {
		h.logger.Info("rating dm failed", zap.String("user_id", ticket.UserID), zap.Error(err))
	}
}

func (h *Handler) handleRating(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, suffix string) error {
	parts := strings.SplitN(suffix, "_", 2)
	stars, err := strconv.Atoi(parts[0])
	if err != nil || stars < 1 || stars > 5 {
		return nil
	}
	raterID := ticketUser(interaction).ID
	if len(parts) == 2 && parts[1] != raterID {
		return nil
	}

	cfg, err := h.Config()
	if err != nil {
		return err
	}
	if cfg.FeedbackChannel != "" {
		_, err := session.ChannelMessageSendEmbed(cfg.FeedbackChannel, &discordgo.MessageEmbed{
			Title:       "⭐ Ticket Feedback",
			Description: fmt.Sprintf("<@%s> rated their ticket **%s**", raterID, strings.Repeat("⭐", stars)),
			Color:       0xFFD700,
		})
		if err != nil {
			h.logger.Warn("feedback post failed", zap.Error(err))
		}
	}

	h.audit.Info(ctx, "", raterID, audit.EventTicketRated, fmt.Sprintf("stars=%d", stars))
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "💚 Thanks for your feedback!",
				Description: fmt.Sprintf("You rated your ticket %s.", strings.Repeat("⭐", stars)),
				Color:       0x00FF00,
			}},
			Components: []discordgo.MessageComponent{},
		},
	})
}

func (h *Handler) ticketByChannel(channelID string) (Ticket, bool, error) {
	var ticket Ticket
	found, err := h.kv.Get(kv.BucketTickets, chanKeyPrefix+channelID, &ticket)
	return ticket, found, err
}

func (h *Handler) saveTicket(ticket Ticket) error {
	if err := h.kv.Put(kv.BucketTickets, userKeyPrefix+ticket.UserID, ticket); err != nil {
		return err
	}
	return h.kv.Put(kv.BucketTickets, chanKeyPrefix+ticket.ChannelID, ticket)
}

func (h *Handler) isStaff(interaction *discordgo.InteractionCreate, cfg Config) bool {
	if cfg.StaffRole == "" {
		return false
	}
	return perms.HasAuthorizedRole(interaction.Member, []string{cfg.StaffRole})
}

func (h *Handler) logToChannel(session *discordgo.Session, cfg Config, content string) {
	if cfg.LogsChannel == "" {
		return
	}
	if _, err := session.ChannelMessageSend(cfg.LogsChannel, content); err != nil {
		h.logger.Info("ticket log post failed", zap.Error(err))
	}
}

func ticketUser(interaction *discordgo.InteractionCreate) *discordgo.User {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User
	}
	return interaction.User
}

func ephemeral(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string) error {
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

package clans

import (
	"context"
	"fmt"
	"strings"
	"time"

	"citadel/internal/modules/audit"
	"citadel/internal/perms"
	"citadel/internal/router"
	"citadel/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Palette carries the embed colors the workflow renders with.
type Palette struct {
	Neutral  int
	Pending  int
	Approved int
	Rejected int
}

func DefaultPalette() Palette {
	return Palette{Neutral: 0x00FFFF, Pending: 0xFFA500, Approved: 0x00FF00, Rejected: 0xFF0000}
}

// RequestHandler runs the request lifecycle: intake form, staff
// decision buttons, and the rejection reason modal.
type RequestHandler struct {
	store        *Store
	logger       *zap.Logger
	audit        *audit.Logger
	palette      Palette
	clock        Clock
	modalHop     time.Duration
	announceGold int
}

func NewRequestHandler(store *Store, auditLog *audit.Logger, logger *zap.Logger, palette Palette, modalHop time.Duration) *RequestHandler {
	if modalHop <= 0 {
		modalHop = 2800 * time.Millisecond
	}
	return &RequestHandler{
		store:        store,
		logger:       logger,
		audit:        auditLog,
		palette:      palette,
		clock:        realClock{},
		modalHop:     modalHop,
		announceGold: 0xFFD700,
	}
}

func (h *RequestHandler) WithClock(clock Clock) {
	h.clock = clock
	h.store.WithClock(clock)
}

func (h *RequestHandler) Handle(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	customID := componentOrModalID(interaction)
	switch {
	case customID == "clan_confirm_request":
		return h.handleConfirm(session, interaction)
	case customID == "clan_request_modal":
		return h.handleSubmit(ctx, session, interaction)
	case strings.HasPrefix(customID, "clan_reject_modal_"):
		return h.handleRejectModal(ctx, session, interaction, strings.TrimPrefix(customID, "clan_reject_modal_"))
	case strings.HasPrefix(customID, "clan_approve_"):
		return h.handleApprove(ctx, session, interaction, strings.TrimPrefix(customID, "clan_approve_"))
	case strings.HasPrefix(customID, "clan_reject_"):
		return h.handleRejectButton(session, interaction, strings.TrimPrefix(customID, "clan_reject_"))
	default:
		h.logger.Warn("unhandled clan request id", zap.String("custom_id", customID))
		return nil
	}
}

func (h *RequestHandler) handleConfirm(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	cfg, err := h.store.Config()
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		return replyEphemeral(session, interaction, "❌ The clan confirmation system is currently disabled.")
	}

	userID := interactionUser(interaction).ID
	if _, pending, err := h.store.Pending(userID); err != nil {
		return err
	} else if pending {
		return replyEphemeral(session, interaction, "❌ You already have a pending clan request.")
	}

	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "clan_request_modal",
			Title:    "Clan Confirmation Request",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "leader_nick", Label: "Leader nickname (in game)", Style: discordgo.TextInputShort, MaxLength: 50, Placeholder: "e.g. ClanLeader123", Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "clan_name", Label: "Clan name", Style: discordgo.TextInputShort, MaxLength: 100, Placeholder: "e.g. The Warriors", Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "clan_tag", Label: "Clan tag", Style: discordgo.TextInputShort, MaxLength: 10, Placeholder: "e.g. [WAR]", Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "discord_link", Label: "Clan Discord invite link", Style: discordgo.TextInputShort, Placeholder: "https://discord.gg/example", Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "member_count", Label: "Member count", Style: discordgo.TextInputShort, MaxLength: 4, Placeholder: "e.g. 25", Required: true},
				}},
			},
		},
	})
}

func (h *RequestHandler) handleSubmit(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	if err := deferEphemeral(session, interaction); err != nil {
		return err
	}

	data := interaction.ModalSubmitData()
	parsed, err := ParseSubmission(Submission{
		LeaderNick:  utils.ModalValue(data, "leader_nick"),
		ClanName:    utils.ModalValue(data, "clan_name"),
		ClanTag:     utils.ModalValue(data, "clan_tag"),
		DiscordLink: utils.ModalValue(data, "discord_link"),
		MemberCount: utils.ModalValue(data, "member_count"),
	})
	switch err {
	case nil:
	case ErrMemberCount:
		return editReply(session, interaction, "❌ The member count must be a valid number of at least 1.")
	case ErrInviteLink:
		return editReply(session, interaction, "❌ Please provide a valid Discord invite link.")
	default:
		return err
	}

	cfg, err := h.store.Config()
	if err != nil {
		return err
	}
	if cfg.Channels.Staff == "" {
		return editReply(session, interaction, "❌ The staff channel is not configured. Contact an administrator.")
	}
	if check, ok := channelPermissionCheck(session, interaction.GuildID, cfg.Channels.Staff); ok && !check.OK {
		return editReply(session, interaction, "❌ The bot lacks permissions in the staff channel.\n**Required:** "+strings.Join(check.MissingNames, ", "))
	}

	user := interactionUser(interaction)
	displayName := user.Username
	if interaction.Member != nil && interaction.Member.Nick != "" {
		displayName = interaction.Member.Nick
	}

	parsed.UserID = user.ID
	parsed.Username = user.Username
	parsed.DisplayName = displayName
	req, err := h.store.CreatePending(parsed)
	if err == ErrPendingExists {
		return editReply(session, interaction, "❌ You already have a pending clan request.")
	}
	if err != nil {
		return err
	}

	if err := h.notifyStaff(session, cfg.Channels.Staff, user, req); err != nil {
		h.logger.Error("staff notification failed", zap.String("request_id", req.ID), zap.Error(err))
		if cancelErr := h.store.CancelPending(req); cancelErr != nil {
			h.logger.Error("rollback failed", zap.String("request_id", req.ID), zap.Error(cancelErr))
		}
		return editReply(session, interaction, "❌ Could not deliver your request to the staff channel. Try again later.")
	}

	h.audit.Info(ctx, interaction.GuildID, user.ID, audit.EventClanSubmitted,
		fmt.Sprintf("clan=%s tag=%s id=%s", req.ClanName, req.ClanTag, req.ID))
	return editReply(session, interaction, "✅ Your request was submitted! The staff team will review it shortly.")
}

func (h *RequestHandler) notifyStaff(session *discordgo.Session, channelID string, user *discordgo.User, req Request) error {
	embed := &discordgo.MessageEmbed{
		Title:     "🏰 New Clan Confirmation Request",
		Color:     h.palette.Pending,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Requester", Value: fmt.Sprintf("<@%s> (%s)", req.UserID, req.Username), Inline: true},
			{Name: "🎮 Leader Nickname", Value: "`" + req.LeaderNick + "`", Inline: true},
			{Name: "🏰 Clan Name", Value: "**" + req.ClanName + "**", Inline: true},
			{Name: "🏷️ Clan Tag", Value: "`" + req.ClanTag + "`", Inline: true},
			{Name: "👥 Member Count", Value: fmt.Sprintf("`%d`", req.MemberCount), Inline: true},
			{Name: "🔗 Discord Link", Value: fmt.Sprintf("[Click here](%s)", req.DiscordLink), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ID: " + req.ID},
		Timestamp: h.clock.Now().Format(time.RFC3339),
	}

	_, err := session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: "clan_approve_" + req.ID, Label: "Approve", Style: discordgo.SuccessButton, Emoji: discordgo.ComponentEmoji{Name: "✅"}},
				discordgo.Button{CustomID: "clan_reject_" + req.ID, Label: "Reject", Style: discordgo.DangerButton, Emoji: discordgo.ComponentEmoji{Name: "❌"}},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "View Clan Discord", Style: discordgo.LinkButton, Emoji: discordgo.ComponentEmoji{Name: "🔗"}, URL: req.DiscordLink},
			}},
		},
	})
	return err
}

func (h *RequestHandler) handleApprove(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, requestID string) error {
	cfg, err := h.store.Config()
	if err != nil {
		return err
	}
	if !perms.HasAuthorizedRole(interaction.Member, cfg.Roles.Authorized) {
		return replyEphemeral(session, interaction, "❌ You do not have permission to approve requests.")
	}

	if err := deferUpdate(session, interaction); err != nil {
		return err
	}

	req, err := h.store.Approve(requestID, interactionUser(interaction).ID)
	switch err {
	case nil:
	case ErrNotFound:
		return followupEphemeral(session, interaction, "❌ Request not found.")
	case ErrAlreadyProcessed:
		return followupEphemeral(session, interaction, "❌ This request was already processed.")
	default:
		return err
	}

	staffID := interactionUser(interaction).ID
	h.runSideEffects(req.ID, []sideEffect{
		{"staff embed update", func() error {
			return h.markStaffMessage(session, interaction, h.palette.Approved, "✅ Clan Approved",
				&discordgo.MessageEmbedField{
					Name:  "✅ Approved by",
					Value: fmt.Sprintf("<@%s> on <t:%d:f>", staffID, h.clock.Now().Unix()),
				})
		}},
		{"requester dm", func() error {
			return h.sendDM(session, req.UserID, &discordgo.MessageEmbed{
				Title:       "🎉 Clan Approved!",
				Description: fmt.Sprintf("Congratulations! Your clan **%s** was approved!", req.ClanName),
				Color:       h.palette.Approved,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "🏰 Clan Name", Value: req.ClanName, Inline: true},
					{Name: "🏷️ Tag", Value: req.ClanTag, Inline: true},
				},
				Timestamp: h.clock.Now().Format(time.RFC3339),
			})
		}},
		{"public announcement", func() error {
			if cfg.Channels.Public == "" {
				return nil
			}
			_, err := session.ChannelMessageSendEmbed(cfg.Channels.Public, &discordgo.MessageEmbed{
				Title: "🎉 New Clan Confirmed!",
				Color: h.announceGold,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "🏰 Clan Name", Value: "**" + req.ClanName + "**", Inline: true},
					{Name: "🏷️ Tag", Value: "`" + req.ClanTag + "`", Inline: true},
					{Name: "👤 Leader", Value: "`" + req.LeaderNick + "`", Inline: true},
					{Name: "👥 Members", Value: fmt.Sprintf("`%d`", req.MemberCount), Inline: true},
					{Name: "🔗 Discord", Value: fmt.Sprintf("[Join the server](%s)", req.DiscordLink), Inline: true},
				},
				Timestamp: h.clock.Now().Format(time.RFC3339),
			})
			return err
		}},
	})

	h.audit.Info(ctx, interaction.GuildID, staffID, audit.EventClanApproved,
		fmt.Sprintf("clan=%s id=%s", req.ClanName, req.ID))
	return followupEphemeral(session, interaction, fmt.Sprintf("✅ Clan **%s** approved!", req.ClanName))
}

func (h *RequestHandler) handleRejectButton(session *discordgo.Session, interaction *discordgo.InteractionCreate, requestID string) error {
	// The reason modal is a second interaction hop, so the remaining
	// response window is tighter than the general deadline.
	if router.Expired(interaction, h.modalHop, h.clock) {
		h.logger.Info("reject modal skipped, interaction too old", zap.String("request_id", requestID))
		return nil
	}

	cfg, err := h.store.Config()
	if err != nil {
		return err
	}
	if !perms.HasAuthorizedRole(interaction.Member, cfg.Roles.Authorized) {
		return replyEphemeral(session, interaction, "❌ You do not have permission to reject requests.")
	}

	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "clan_reject_modal_" + requestID,
			Title:    "Rejection Reason",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "reject_reason", Label: "Reason for rejection", Style: discordgo.TextInputParagraph, MaxLength: 1000, Placeholder: "Describe why the request was rejected...", Required: true},
				}},
			},
		},
	})
}

func (h *RequestHandler) handleRejectModal(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, requestID string) error {
	reason, err := ValidateRejectReason(utils.ModalValue(interaction.ModalSubmitData(), "reject_reason"))
	if err != nil {
		return replyEphemeral(session, interaction, "❌ A rejection reason is required.")
	}

	if err := deferUpdate(session, interaction); err != nil {
		return err
	}

	staffID := interactionUser(interaction).ID
	req, err := h.store.Reject(requestID, staffID, reason)
	switch err {
	case nil:
	case ErrNotFound:
		return followupEphemeral(session, interaction, "❌ Request not found.")
	case ErrAlreadyProcessed:
		return followupEphemeral(session, interaction, "❌ This request was already processed.")
	default:
		return err
	}

	h.runSideEffects(req.ID, []sideEffect{
		{"staff embed update", func() error {
			return h.markStaffMessage(session, interaction, h.palette.Rejected, "❌ Clan Rejected",
				&discordgo.MessageEmbedField{
					Name:  "❌ Rejected by",
					Value: fmt.Sprintf("<@%s> on <t:%d:f>", staffID, h.clock.Now().Unix()),
				},
				&discordgo.MessageEmbedField{Name: "📝 Reason", Value: reason})
		}},
		{"requester dm", func() error {
			return h.sendDM(session, req.UserID, &discordgo.MessageEmbed{
				Title:       "❌ Clan Rejected",
				Description: fmt.Sprintf("Unfortunately, your clan **%s** was rejected.", req.ClanName),
				Color:       h.palette.Rejected,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "📝 Reason", Value: reason},
					{Name: "🔄 New Request", Value: "You can submit a new request once the issues above are addressed."},
				},
				Timestamp: h.clock.Now().Format(time.RFC3339),
			})
		}},
	})

	h.audit.Warn(ctx, interaction.GuildID, staffID, audit.EventClanRejected,
		fmt.Sprintf("clan=%s id=%s reason=%s", req.ClanName, req.ID, reason))
	return followupEphemeral(session, interaction, fmt.Sprintf("❌ Clan **%s** rejected.", req.ClanName))
}

type sideEffect struct {
	name string
	run  func() error
}

// runSideEffects executes post-commit notifications. Each one is
// best-effort: the decision already landed, a delivery failure must
// not undo it or stop the remaining effects.
func (h *RequestHandler) runSideEffects(requestID string, effects []sideEffect) {
	for _, effect := range effects {
		if err := effect.run(); err != nil {
			h.logger.Warn("side effect failed",
				zap.String("request_id", requestID),
				zap.String("effect", effect.name),
				zap.Error(err))
		}
	}
}

// markStaffMessage recolors the original staff embed and strips the
// decision buttons so the message cannot be acted on twice.
func (h *RequestHandler) markStaffMessage(session *discordgo.Session, interaction *discordgo.InteractionCreate, color int, title string, extra ...*discordgo.MessageEmbedField) error {
	if interaction.Message == nil || len(interaction.Message.Embeds) == 0 {
		return fmt.Errorf("staff message unavailable")
	}
	embed := *interaction.Message.Embeds[0]
	embed.Color = color
	embed.Title = title
	embed.Fields = append(append([]*discordgo.MessageEmbedField(nil), embed.Fields...), extra...)

	embeds := []*discordgo.MessageEmbed{&embed}
	components := []discordgo.MessageComponent{}
	_, err := session.InteractionResponseEdit(interaction.Interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}

func (h *RequestHandler) sendDM(session *discordgo.Session, userID string, embed *discordgo.MessageEmbed) error {
	channel, err := session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = session.ChannelMessageSendEmbed(channel.ID, embed)
	return err
}

func channelPermissionCheck(session *discordgo.Session, guildID, channelID string) (perms.Result, bool) {
	if session == nil || session.State == nil {
		return perms.Result{}, false
	}
	guild, err := session.State.Guild(guildID)
	if err != nil || guild == nil {
		return perms.Result{}, false
	}
	var channel *discordgo.Channel
	for _, c := range guild.Channels {
		if c.ID == channelID {
			channel = c
			break
		}
	}
	if channel == nil {
		return perms.Result{MissingNames: []string{"channel not found"}}, true
	}
	botUser := session.State.User
	if botUser == nil {
		return perms.Result{}, false
	}
	member, err := session.State.Member(guildID, botUser.ID)
	if err != nil || member == nil {
		return perms.Result{}, false
	}
	return perms.CheckChannelPermissions(guild, channel, member), true
}

func componentOrModalID(interaction *discordgo.InteractionCreate) string {
	switch interaction.Type {
	case discordgo.InteractionMessageComponent:
		return interaction.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return interaction.ModalSubmitData().CustomID
	default:
		return ""
	}
}

func interactionUser(interaction *discordgo.InteractionCreate) *discordgo.User {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User
	}
	return interaction.User
}

func replyEphemeral(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string) error {
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func deferEphemeral(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func deferUpdate(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func editReply(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string) error {
	_, err := session.InteractionResponseEdit(interaction.Interaction, &discordgo.WebhookEdit{Content: &content})
	return err
}

func followupEphemeral(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string) error {
	_, err := session.FollowupMessageCreate(interaction.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}

package clans

import (
	"context"
	"strings"

	"citadel/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// ConfigHandler owns the owner-only configuration panel: system
// toggle, channel and role bindings, and the intake embed template.
type ConfigHandler struct {
	store   *Store
	logger  *zap.Logger
	ownerID string
	palette Palette
}

func NewConfigHandler(store *Store, logger *zap.Logger, ownerID string, palette Palette) *ConfigHandler {
	return &ConfigHandler{store: store, logger: logger, ownerID: ownerID, palette: palette}
}

func (h *ConfigHandler) Handle(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	_ = ctx
	if interactionUser(interaction).ID != h.ownerID {
		// Non-owners get a silent ack, same as any other panel press.
		return deferUpdate(session, interaction)
	}

	customID := componentOrModalID(interaction)
	switch customID {
	case "clan_toggle_system":
		return h.handleToggle(session, interaction)
	case "clan_config_channels":
		return h.showChannelMenu(session, interaction)
	case "clan_select_staff_channel":
		return h.showChannelSelect(session, interaction, "clan_staff_channel_selected", "📋 Pick the channel where clan requests will arrive:")
	case "clan_select_public_channel":
		return h.showChannelSelect(session, interaction, "clan_public_channel_selected", "📢 Pick the channel where approved clans will be announced:")
	case "clan_staff_channel_selected":
		return h.handleChannelSelected(session, interaction, true)
	case "clan_public_channel_selected":
		return h.handleChannelSelected(session, interaction, false)
	case "clan_config_roles":
		return h.showRoleSelect(session, interaction)
	case "clan_roles_selected":
		return h.handleRolesSelected(session, interaction)
	case "clan_config_embed":
		return h.showEmbedModal(session, interaction)
	case "clan_embed_modal":
		return h.handleEmbedModal(session, interaction)
	case "clan_preview_message":
		return h.handlePreview(session, interaction)
	case "clan_send_message":
		return h.showChannelSelect(session, interaction, "clan_send_channel_selected", "📤 Pick the channel to post the clan confirmation message in:")
	case "clan_send_channel_selected":
		return h.handleSendSelected(session, interaction)
	case "clan_back_to_main":
		return h.updatePanel(session, interaction)
	default:
		h.logger.Warn("unhandled clan config id", zap.String("custom_id", customID))
		return nil
	}
}

// ShowPanel renders the configuration panel as the initial response to
// the clan-panel command.
func (h *ConfigHandler) ShowPanel(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	embed, components, err := h.panel()
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

func (h *ConfigHandler) updatePanel(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	embed, components, err := h.panel()
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

func (h *ConfigHandler) panel() (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	cfg, err := h.store.Config()
	if err != nil {
		return nil, nil, err
	}

	status := "`🔴 Disabled`"
	toggleLabel := "Enable System"
	toggleStyle := discordgo.SuccessButton
	if cfg.Enabled {
		status = "`🟢 Enabled`"
		toggleLabel = "Disable System"
		toggleStyle = discordgo.DangerButton
	}

	staffValue := "`Not configured`"
	if cfg.Channels.Staff != "" {
		staffValue = "<#" + cfg.Channels.Staff + ">"
	}
	publicValue := "`Not configured`"
	if cfg.Channels.Public != "" {
		publicValue = "<#" + cfg.Channels.Public + ">"
	}
	rolesValue := "`No roles configured`"
	if len(cfg.Roles.Authorized) > 0 {
		mentions := make([]string, 0, len(cfg.Roles.Authorized))
		for _, roleID := range cfg.Roles.Authorized {
			mentions = append(mentions, "<@&"+roleID+">")
		}
		rolesValue = strings.Join(mentions, ", ")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "⚙️ Clan System Configuration",
		Description: "Configure the clan confirmation workflow for this server.",
		Color:       h.palette.Neutral,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📊 System Status", Value: status, Inline: true},
			{Name: "📋 Staff Channel", Value: staffValue, Inline: true},
			{Name: "📢 Public Channel", Value: publicValue, Inline: true},
			{Name: "👥 Authorized Roles", Value: rolesValue},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Configure every option before enabling the system"},
	}

	sendDisabled := !cfg.Enabled || cfg.Channels.Staff == "" || cfg.Channels.Public == ""
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: "clan_toggle_system", Label: toggleLabel, Style: toggleStyle},
			discordgo.Button{CustomID: "clan_config_channels", Label: "Configure Channels", Style: discordgo.PrimaryButton, Emoji: discordgo.ComponentEmoji{Name: "📋"}},
			discordgo.Button{CustomID: "clan_config_roles", Label: "Configure Roles", Style: discordgo.PrimaryButton, Emoji: discordgo.ComponentEmoji{Name: "👥"}},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: "clan_config_embed", Label: "Configure Embed", Style: discordgo.SecondaryButton, Emoji: discordgo.ComponentEmoji{Name: "🎨"}},
			discordgo.Button{CustomID: "clan_preview_message", Label: "Preview Message", Style: discordgo.SecondaryButton, Emoji: discordgo.ComponentEmoji{Name: "👀"}},
			discordgo.Button{CustomID: "clan_send_message", Label: "Send Message", Style: discordgo.SuccessButton, Emoji: discordgo.ComponentEmoji{Name: "📤"}, Disabled: sendDisabled},
		}},
	}
	return embed, components, nil
}

func (h *ConfigHandler) handleToggle(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	cfg, err := h.store.Config()
	if err != nil {
		return err
	}
	cfg.Enabled = !cfg.Enabled
	if err := h.store.SaveConfig(cfg); err != nil {
		return err
	}
	return h.updatePanel(session, interaction)
}

func (h *ConfigHandler) showChannelMenu(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "📋 Channel Configuration",
				Description: "Pick which channels the clan system will use.",
				Color:       h.palette.Neutral,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "📋 Staff Channel", Value: "Where requests arrive for approval or rejection."},
					{Name: "📢 Public Channel", Value: "Where approved clans are announced."},
				},
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "clan_select_staff_channel", Label: "Select Staff Channel", Style: discordgo.PrimaryButton, Emoji: discordgo.ComponentEmoji{Name: "📋"}},
					discordgo.Button{CustomID: "clan_select_public_channel", Label: "Select Public Channel", Style: discordgo.PrimaryButton, Emoji: discordgo.ComponentEmoji{Name: "📢"}},
				}},
				backRow("clan_back_to_main"),
			},
		},
	})
}

func (h *ConfigHandler) showChannelSelect(session *discordgo.Session, interaction *discordgo.InteractionCreate, selectID, prompt string) error {
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content: prompt,
			Embeds:  []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:     discordgo.ChannelSelectMenu,
						CustomID:     selectID,
						Placeholder:  "Select a channel",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
				}},
				backRow("clan_config_channels"),
			},
		},
	})
}

func (h *ConfigHandler) handleChannelSelected(session *discordgo.Session, interaction *discordgo.InteractionCreate, staff bool) error {
	values := interaction.MessageComponentData().Values
	if len(values) == 0 {
		return deferUpdate(session, interaction)
	}
	channelID := values[0]

	cfg, err := h.store.Config()
	if err != nil {
		return err
	}
	label := "public"
	if staff {
		cfg.Channels.Staff = channelID
		label = "staff"
	} else {
		cfg.Channels.Public = channelID
	}
	if err := h.store.SaveConfig(cfg); err != nil {
		return err
	}

	if err := h.showChannelMenu(session, interaction); err != nil {
		return err
	}
	return followupEphemeral(session, interaction, "✅ Configured "+label+" channel: <#"+channelID+">")
}

func (h *ConfigHandler) showRoleSelect(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	maxRoles := 10
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content: "👥 Pick the roles allowed to approve or reject clan requests:",
			Embeds:  []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:    discordgo.RoleSelectMenu,
						CustomID:    "clan_roles_selected",
						Placeholder: "Select authorized roles",
						MaxValues:   maxRoles,
					},
				}},
				backRow("clan_back_to_main"),
			},
		},
	})
}

func (h *ConfigHandler) handleRolesSelected(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	values := interaction.MessageComponentData().Values

	cfg, err := h.store.Config()
	if err != nil {
		return err
	}
	cfg.Roles.Authorized = values
	if err := h.store.SaveConfig(cfg); err != nil {
		return err
	}

	if err := h.updatePanel(session, interaction); err != nil {
		return err
	}
	mentions := make([]string, 0, len(values))
	for _, roleID := range values {
		mentions = append(mentions, "<@&"+roleID+">")
	}
	return followupEphemeral(session, interaction, "✅ Authorized roles configured: "+strings.Join(mentions, ", "))
}

func (h *ConfigHandler) showEmbedModal(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	cfg, err := h.store.Config()
	if err != nil {
		return err
	}
	template := cfg.Embed

	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "clan_embed_modal",
			Title:    "Configure Intake Embed",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "embed_title", Label: "Embed title", Style: discordgo.TextInputShort, MaxLength: 256, Value: template.Title, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "embed_description", Label: "Embed description", Style: discordgo.TextInputParagraph, MaxLength: 4000, Value: template.Description, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "embed_color", Label: "Embed color (hex)", Style: discordgo.TextInputShort, MaxLength: 7, Value: template.Color, Placeholder: "#FFD700", Required: false},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "embed_banner", Label: "Image URL (optional)", Style: discordgo.TextInputShort, Value: template.Banner, Placeholder: "https://example.com/image.png", Required: false},
				}},
			},
		},
	})
}

func (h *ConfigHandler) handleEmbedModal(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	data := interaction.ModalSubmitData()

	cfg, err := h.store.Config()
	if err != nil {
		return err
	}
	cfg.Embed = EmbedTemplate{
		Title:       strings.TrimSpace(utils.ModalValue(data, "embed_title")),
		Description: strings.TrimSpace(utils.ModalValue(data, "embed_description")),
		Color:       strings.TrimSpace(utils.ModalValue(data, "embed_color")),
		Banner:      strings.TrimSpace(utils.ModalValue(data, "embed_banner")),
	}
	if cfg.Embed.Color == "" {
		cfg.Embed.Color = "#FFD700"
	}
	if err := h.store.SaveConfig(cfg); err != nil {
		return err
	}
	return replyEphemeral(session, interaction, "✅ Embed settings saved.")
}

func (h *ConfigHandler) handlePreview(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	cfg, err := h.store.Config()
	if err != nil {
		return err
	}
	embed := h.intakeEmbed(cfg.Embed)

	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "👀 **Message preview:**",
			Embeds:  []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "clan_confirm_request", Label: "Confirm Clan", Style: discordgo.PrimaryButton, Emoji: discordgo.ComponentEmoji{Name: "🏰"}, Disabled: true},
				}},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func (h *ConfigHandler) handleSendSelected(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	values := interaction.MessageComponentData().Values
	if len(values) == 0 {
		return deferUpdate(session, interaction)
	}
	channelID := values[0]

	if err := deferUpdate(session, interaction); err != nil {
		return err
	}

	if check, ok := channelPermissionCheck(session, interaction.GuildID, channelID); ok && !check.OK {
		return followupEphemeral(session, interaction, "❌ The bot lacks permissions in that channel.\n**Required:** "+strings.Join(check.MissingNames, ", "))
	}

	cfg, err := h.store.Config()
	if err != nil {
		return err
	}

	_, err = session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{h.intakeEmbed(cfg.Embed)},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: "clan_confirm_request", Label: "Confirm Clan", Style: discordgo.PrimaryButton, Emoji: discordgo.ComponentEmoji{Name: "🏰"}},
			}},
		},
	})
	if err != nil {
		h.logger.Warn("intake message send failed", zap.String("channel_id", channelID), zap.Error(err))
		return followupEphemeral(session, interaction, "❌ Could not send the message. Check the bot permissions in that channel.")
	}
	return followupEphemeral(session, interaction, "✅ Message sent to <#"+channelID+">!")
}

func (h *ConfigHandler) intakeEmbed(template EmbedTemplate) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       template.Title,
		Description: template.Description,
		Color:       utils.ParseHexColor(template.Color, 0xFFD700),
	}
	if template.Banner != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: template.Banner}
	}
	return embed
}

func backRow(customID string) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{CustomID: customID, Label: "Back", Style: discordgo.SecondaryButton, Emoji: discordgo.ComponentEmoji{Name: "⬅️"}},
	}}
}

package autoreply

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"citadel/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// AdminHandler owns every autoreply_* component and modal id. The
// panel itself is opened by the auto-reply slash command.
type AdminHandler struct {
	engine  *Engine
	logger  *zap.Logger
	ownerID string
}

func NewAdminHandler(engine *Engine, logger *zap.Logger, ownerID string) *AdminHandler {
	return &AdminHandler{engine: engine, logger: logger, ownerID: ownerID}
}

func (h *AdminHandler) Handle(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	_ = ctx
	if !h.authorized(interaction) {
		return respondEphemeral(session, interaction, "Only the bot owner can manage auto-replies.")
	}

	customID := ""
	switch interaction.Type {
	case discordgo.InteractionMessageComponent:
		customID = interaction.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		customID = interaction.ModalSubmitData().CustomID
	}

	switch {
	case customID == "autoreply_toggle":
		return h.handleToggle(session, interaction)
	case customID == "autoreply_add":
		return h.showAddModal(session, interaction)
	case customID == "autoreply_add_modal":
		return h.handleAddModal(session, interaction)
	case customID == "autoreply_remove":
		return h.showRemoveSelect(session, interaction)
	case customID == "autoreply_remove_select":
		return h.handleRemoveSelect(session, interaction)
	case customID == "autoreply_settings":
		return h.showSettingsModal(session, interaction)
	case customID == "autoreply_settings_modal":
		return h.handleSettingsModal(session, interaction)
	case customID == "autoreply_stats":
		return h.showStats(session, interaction)
	case customID == "autoreply_back":
		return h.updatePanel(session, interaction)
	case customID == "autoreply_edit":
		return h.showWordSelect(session, interaction)
	case customID == "autoreply_word_selected":
		return h.handleWordSelected(session, interaction)
	case strings.HasPrefix(customID, "autoreply_edit_modal_"):
		return h.handleEditModal(session, interaction, strings.TrimPrefix(customID, "autoreply_edit_modal_"))
	case strings.HasPrefix(customID, "autoreply_edit_"):
		return h.showEditModal(session, interaction, strings.TrimPrefix(customID, "autoreply_edit_"))
	case strings.HasPrefix(customID, "autoreply_toggle_"):
		return h.handleToggleWord(session, interaction, strings.TrimPrefix(customID, "autoreply_toggle_"))
	default:
		h.logger.Warn("unhandled auto-reply id", zap.String("custom_id", customID))
		return nil
	}
}

func (h *AdminHandler) authorized(interaction *discordgo.InteractionCreate) bool {
	if h.ownerID == "" {
		return false
	}
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User.ID == h.ownerID
	}
	return interaction.User != nil && interaction.User.ID == h.ownerID
}

// ShowPanel renders the management panel as the initial response.
func (h *AdminHandler) ShowPanel(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
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

func (h *AdminHandler) updatePanel(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
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

func (h *AdminHandler) panel() (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	status := "🔴 Disabled"
	if cfg.Enabled {
		status = "🟢 Enabled"
	}

	words := make([]string, 0, len(cfg.Triggers))
	for _, trigger := range cfg.Triggers {
		marker := "•"
		if !trigger.Enabled {
			marker = "◦"
		}
		words = append(words, fmt.Sprintf("%s `%s`", marker, trigger.Word))
	}
	wordList := "No keywords configured."
	if len(words) > 0 {
		wordList = strings.Join(words, "\n")
	}

	embed := &discordgo.MessageEmbed{
		Title: "💬 Auto-Reply Configuration",
		Color: 0x00FFFF,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: status, Inline: true},
			{Name: "Cooldown", Value: fmt.Sprintf("%ds", cfg.Settings.CooldownSeconds), Inline: true},
			{Name: "Delete Original", Value: fmt.Sprintf("%t", cfg.Settings.DeleteOriginal), Inline: true},
			{Name: "Max Triggers / User", Value: fmt.Sprintf("%d", cfg.Settings.MaxTriggersPerUser), Inline: true},
			{Name: fmt.Sprintf("Keywords (%d)", len(cfg.Triggers)), Value: wordList, Inline: false},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: "autoreply_toggle", Label: "Toggle System", Style: discordgo.PrimaryButton},
			discordgo.Button{CustomID: "autoreply_add", Label: "Add Keyword", Style: discordgo.SuccessButton},
			discordgo.Button{CustomID: "autoreply_edit", Label: "Edit Keyword", Style: discordgo.SecondaryButton, Disabled: len(cfg.Triggers) == 0},
			discordgo.Button{CustomID: "autoreply_remove", Label: "Remove Keyword", Style: discordgo.DangerButton, Disabled: len(cfg.Triggers) == 0},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: "autoreply_settings", Label: "Settings", Style: discordgo.SecondaryButton},
			discordgo.Button{CustomID: "autoreply_stats", Label: "Usage Stats", Style: discordgo.SecondaryButton},
		}},
	}
	return embed, components, nil
}

func (h *AdminHandler) handleToggle(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return err
	}
	cfg.Enabled = !cfg.Enabled
	if err := h.engine.SaveConfig(cfg); err != nil {
		return err
	}
	return h.updatePanel(session, interaction)
}

func (h *AdminHandler) showAddModal(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "autoreply_add_modal",
			Title:    "Add Auto-Reply Keyword",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "trigger_word", Label: "Keyword", Style: discordgo.TextInputShort, MaxLength: 50, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "reply_title", Label: "Reply title", Style: discordgo.TextInputShort, MaxLength: 100, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "reply_description", Label: "Reply description", Style: discordgo.TextInputParagraph, MaxLength: 1000, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "match_flags", Label: "Match flags (whole, case)", Style: discordgo.TextInputShort, MaxLength: 20, Required: false, Placeholder: "whole"},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "reply_color", Label: "Embed color (hex)", Style: discordgo.TextInputShort, MaxLength: 7, Required: false, Placeholder: "#00FFFF"},
				}},
			},
		},
	})
}

func (h *AdminHandler) handleAddModal(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	data := interaction.ModalSubmitData()
	word := strings.TrimSpace(utils.ModalValue(data, "trigger_word"))
	if word == "" {
		return respondEphemeral(session, interaction, "❌ The keyword cannot be empty.")
	}

	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return err
	}
	for _, trigger := range cfg.Triggers {
		if strings.EqualFold(trigger.Word, word) {
			return respondEphemeral(session, interaction, fmt.Sprintf("❌ The keyword `%s` is already configured.", word))
		}
	}

	flags := strings.ToLower(utils.ModalValue(data, "match_flags"))
	color := utils.ParseHexColor(utils.ModalValue(data, "reply_color"), 0)

	cfg.Triggers = append(cfg.Triggers, Trigger{
		Word:          word,
		Enabled:       true,
		CaseSensitive: strings.Contains(flags, "case"),
		WholeWordOnly: strings.Contains(flags, "whole"),
		Reply: ReplyEmbed{
			Title:       strings.TrimSpace(utils.ModalValue(data, "reply_title")),
			Description: strings.TrimSpace(utils.ModalValue(data, "reply_description")),
			Color:       color,
		},
	})
	if err := h.engine.SaveConfig(cfg); err != nil {
		return err
	}
	return respondEphemeral(session, interaction, fmt.Sprintf("✅ Keyword `%s` added.", word))
}

func (h *AdminHandler) showRemoveSelect(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Triggers) == 0 {
		return respondEphemeral(session, interaction, "There are no keywords to remove.")
	}

	options := make([]discordgo.SelectMenuOption, 0, len(cfg.Triggers))
	for _, trigger := range cfg.Triggers {
		if len(options) == 25 {
			break
		}
		options = append(options, discordgo.SelectMenuOption{
			Label: trigger.Word,
			Value: trigger.Word,
		})
	}

	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "🗑️ Remove Keyword",
				Description: "Pick the keyword to delete.",
				Color:       0xFF0000,
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{CustomID: "autoreply_remove_select", Options: options},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "autoreply_back", Label: "Back", Style: discordgo.SecondaryButton},
				}},
			},
		},
	})
}

func (h *AdminHandler) handleRemoveSelect(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	values := interaction.MessageComponentData().Values
	if len(values) == 0 {
		return respondEphemeral(session, interaction, "❌ No keyword selected.")
	}
	word := values[0]

	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return err
	}
	kept := cfg.Triggers[:0]
	removed := false
	for _, trigger := range cfg.Triggers {
		if trigger.Word == word {
			removed = true
			continue
		}
		kept = append(kept, trigger)
	}
	cfg.Triggers = kept
	if !removed {
		return respondEphemeral(session, interaction, fmt.Sprintf("❌ Keyword `%s` was not found.", word))
	}
	if err := h.engine.SaveConfig(cfg); err != nil {
		return err
	}
	return h.updatePanel(session, interaction)
}

func (h *AdminHandler) showWordSelect(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Triggers) == 0 {
		return respondEphemeral(session, interaction, "There are no keywords to edit.")
	}

	options := make([]discordgo.SelectMenuOption, 0, len(cfg.Triggers))
	for _, trigger := range cfg.Triggers {
		if len(options) == 25 {
			break
		}
		state := "enabled"
		if !trigger.Enabled {
			state = "disabled"
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       trigger.Word,
			Value:       trigger.Word,
			Description: state,
		})
	}

	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "✏️ Edit Keyword",
				Description: "Pick the keyword to edit or toggle.",
				Color:       0x00FFFF,
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{CustomID: "autoreply_word_selected", Options: options},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "autoreply_back", Label: "Back", Style: discordgo.SecondaryButton},
				}},
			},
		},
	})
}

func (h *AdminHandler) handleWordSelected(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	values := interaction.MessageComponentData().Values
	if len(values) == 0 {
		return respondEphemeral(session, interaction, "❌ No keyword selected.")
	}
	return h.showWordPanel(session, interaction, values[0])
}

func (h *AdminHandler) showWordPanel(session *discordgo.Session, interaction *discordgo.InteractionCreate, word string) error {
	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return err
	}
	var trigger Trigger
	if !updateTrigger(cfg.Triggers, word, func(t *Trigger) { trigger = *t }) {
		return respondEphemeral(session, interaction, fmt.Sprintf("❌ Keyword `%s` was not found.", word))
	}

	status := "🔴 Disabled"
	toggleLabel := "Enable"
	if trigger.Enabled {
		status = "🟢 Enabled"
		toggleLabel = "Disable"
	}
	flags := make([]string, 0, 2)
	if trigger.WholeWordOnly {
		flags = append(flags, "whole word")
	}
	if trigger.CaseSensitive {
		flags = append(flags, "case sensitive")
	}
	flagText := "substring, case insensitive"
	if len(flags) > 0 {
		flagText = strings.Join(flags, ", ")
	}
	replyTitle := trigger.Reply.Title
	if replyTitle == "" {
		replyTitle = "(not set)"
	}

	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title: fmt.Sprintf("✏️ Keyword `%s`", trigger.Word),
				Color: 0x00FFFF,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Status", Value: status, Inline: true},
					{Name: "Matching", Value: flagText, Inline: true},
					{Name: "Reply Title", Value: replyTitle, Inline: false},
				},
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "autoreply_toggle_" + trigger.Word, Label: toggleLabel, Style: discordgo.PrimaryButton},
					discordgo.Button{CustomID: "autoreply_edit_" + trigger.Word, Label: "Edit Reply", Style: discordgo.SecondaryButton},
					discordgo.Button{CustomID: "autoreply_back", Label: "Back", Style: discordgo.SecondaryButton},
				}},
			},
		},
	})
}

func (h *AdminHandler) handleToggleWord(session *discordgo.Session, interaction *discordgo.InteractionCreate, word string) error {
	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return err
	}
	if !updateTrigger(cfg.Triggers, word, func(t *Trigger) { t.Enabled = !t.Enabled }) {
		return respondEphemeral(session, interaction, fmt.Sprintf("❌ Keyword `%s` was not found.", word))
	}
	if err := h.engine.SaveConfig(cfg); err != nil {
		return err
	}
	return h.showWordPanel(session, interaction, word)
}

func (h *AdminHandler) showEditModal(session *discordgo.Session, interaction *discordgo.InteractionCreate, word string) error {
	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return err
	}
	var trigger Trigger
	if !updateTrigger(cfg.Triggers, word, func(t *Trigger) { trigger = *t }) {
		return respondEphemeral(session, interaction, fmt.Sprintf("❌ Keyword `%s` was not found.", word))
	}

	flags := make([]string, 0, 2)
	if trigger.WholeWordOnly {
		flags = append(flags, "whole")
	}
	if trigger.CaseSensitive {
		flags = append(flags, "case")
	}
	color := ""
	if trigger.Reply.Color != 0 {
		color = fmt.Sprintf("#%06X", trigger.Reply.Color)
	}

	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "autoreply_edit_modal_" + trigger.Word,
			Title:    "Edit Auto-Reply Keyword",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "reply_title", Label: "Reply title", Style: discordgo.TextInputShort, MaxLength: 100, Required: true, Value: trigger.Reply.Title},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "reply_description", Label: "Reply description", Style: discordgo.TextInputParagraph, MaxLength: 1000, Required: true, Value: trigger.Reply.Description},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "match_flags", Label: "Match flags (whole, case)", Style: discordgo.TextInputShort, MaxLength: 20, Required: false, Value: strings.Join(flags, ",")},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "reply_color", Label: "Embed color (hex)", Style: discordgo.TextInputShort, MaxLength: 7, Required: false, Value: color},
				}},
			},
		},
	})
}

func (h *AdminHandler) handleEditModal(session *discordgo.Session, interaction *discordgo.InteractionCreate, word string) error {
	data := interaction.ModalSubmitData()
	title := strings.TrimSpace(utils.ModalValue(data, "reply_title"))
	description := strings.TrimSpace(utils.ModalValue(data, "reply_description"))
	if title == "" || description == "" {
		return respondEphemeral(session, interaction, "❌ The reply title and description cannot be empty.")
	}
	flags := strings.ToLower(utils.ModalValue(data, "match_flags"))
	color := utils.ParseHexColor(utils.ModalValue(data, "reply_color"), 0)

	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return err
	}
	if !updateTrigger(cfg.Triggers, word, func(t *Trigger) {
		t.CaseSensitive = strings.Contains(flags, "case")
		t.WholeWordOnly = strings.Contains(flags, "whole")
		t.Reply.Title = title
		t.Reply.Description = description
		t.Reply.Color = color
	}) {
		return respondEphemeral(session, interaction, fmt.Sprintf("❌ Keyword `%s` was not found.", word))
	}
	if err := h.engine.SaveConfig(cfg); err != nil {
		return err
	}
	return respondEphemeral(session, interaction, fmt.Sprintf("✅ Keyword `%s` updated.", word))
}

func (h *AdminHandler) showSettingsModal(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return err
	}
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "autoreply_settings_modal",
			Title:    "Auto-Reply Settings",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "cooldown_seconds", Label: "Cooldown (seconds)", Style: discordgo.TextInputShort, MaxLength: 4, Required: true, Value: strconv.Itoa(cfg.Settings.CooldownSeconds)},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "delete_original", Label: "Delete trigger message (yes/no)", Style: discordgo.TextInputShort, MaxLength: 3, Required: true, Value: boolWord(cfg.Settings.DeleteOriginal)},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "max_triggers", Label: "Max triggers per user per minute", Style: discordgo.TextInputShort, MaxLength: 3, Required: true, Value: strconv.Itoa(cfg.Settings.MaxTriggersPerUser)},
				}},
			},
		},
	})
}

func (h *AdminHandler) handleSettingsModal(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	data := interaction.ModalSubmitData()

	cooldown, err := strconv.Atoi(strings.TrimSpace(utils.ModalValue(data, "cooldown_seconds")))
	if err != nil || cooldown < 0 {
		return respondEphemeral(session, interaction, "❌ Cooldown must be a number of seconds (0 or more).")
	}
	maxTriggers, err := strconv.Atoi(strings.TrimSpace(utils.ModalValue(data, "max_triggers")))
	if err != nil || maxTriggers < 0 {
		return respondEphemeral(session, interaction, "❌ Max triggers must be a number (0 disables the limit).")
	}

	cfg, err := h.engine.LoadConfig()
	if err != nil {
		return err
	}
	cfg.Settings.CooldownSeconds = cooldown
	cfg.Settings.MaxTriggersPerUser = maxTriggers
	cfg.Settings.DeleteOriginal = parseBoolWord(utils.ModalValue(data, "delete_original"))
	if err := h.engine.SaveConfig(cfg); err != nil {
		return err
	}
	return respondEphemeral(session, interaction, "✅ Settings updated.")
}

func (h *AdminHandler) showStats(session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	stats, err := h.engine.Stats()
	if err != nil {
		return err
	}

	words := make([]string, 0, len(stats))
	for word := range stats {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool { return stats[words[i]].Count > stats[words[j]].Count })

	lines := make([]string, 0, len(words))
	for _, word := range words {
		entry := stats[word]
		lines = append(lines, fmt.Sprintf("`%s` — %d use(s), last <t:%d:R>", word, entry.Count, entry.LastUsed.Unix()))
	}
	body := "No keyword has been triggered yet."
	if len(lines) > 0 {
		body = strings.Join(lines, "\n")
	}

	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "📊 Auto-Reply Usage",
				Description: body,
				Color:       0x00FFFF,
				Timestamp:   time.Now().Format(time.RFC3339),
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "autoreply_back", Label: "Back", Style: discordgo.SecondaryButton},
				}},
			},
		},
	})
}

func respondEphemeral(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string) error {
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func boolWord(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func parseBoolWord(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "on":
		return true
	default:
		return false
	}
}

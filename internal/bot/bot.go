package bot

import (
	"context"
	"fmt"
	"time"

	"citadel/internal/analytics"
	"citadel/internal/autoreply"
	"citadel/internal/clans"
	"citadel/internal/config"
	"citadel/internal/kv"
	"citadel/internal/modules/audit"
	"citadel/internal/router"
	"citadel/internal/storage"
	"citadel/internal/tickets"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const commandsHandler router.HandlerID = "commands"

type Bot struct {
	cfg       config.Config
	logger    *zap.Logger
	kv        *kv.Store
	store     *storage.Store
	audit     *audit.Logger
	analytics *analytics.Service
	session   *discordgo.Session
	router    *router.Router

	autoReply      *autoreply.Engine
	autoReplyAdmin *autoreply.AdminHandler
	clanStore      *clans.Store
	clanRequests   *clans.RequestHandler
	clanConfig     *clans.ConfigHandler
	clanManage     *clans.ManageHandler
	tickets        *tickets.Handler
}

func New(cfg config.Config, logger *zap.Logger, kvStore *kv.Store, store *storage.Store, auditLogger *audit.Logger, analyticsEngine *analytics.Service) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:       cfg,
		logger:    logger,
		kv:        kvStore,
		store:     store,
		audit:     auditLogger,
		analytics: analyticsEngine,
		session:   session,
	}

	palette := clans.Palette{
		Neutral:  cfg.Notifications.EmbedColors.Neutral,
		Pending:  cfg.Notifications.EmbedColors.Pending,
		Approved: cfg.Notifications.EmbedColors.Approved,
		Rejected: cfg.Notifications.EmbedColors.Rejected,
	}

	b.autoReply = autoreply.NewEngine(kvStore, logger, autoreply.Settings{
		CooldownSeconds:    cfg.AutoReply.CooldownSeconds,
		MaxTriggersPerUser: cfg.AutoReply.MaxTriggersPerUser,
	}, time.Duration(cfg.AutoReply.BudgetWindowSeconds)*time.Second)
	b.autoReplyAdmin = autoreply.NewAdminHandler(b.autoReply, logger, cfg.OwnerID)
	b.clanStore = clans.NewStore(kvStore)
	b.clanRequests = clans.NewRequestHandler(b.clanStore, auditLogger, logger, palette, time.Duration(cfg.Router.ModalHopMillis)*time.Millisecond)
	b.clanConfig = clans.NewConfigHandler(b.clanStore, logger, cfg.OwnerID, palette)
	b.clanManage = clans.NewManageHandler(b.clanStore, auditLogger, logger, cfg.OwnerID, palette)
	b.tickets = tickets.NewHandler(kvStore, auditLogger, logger)

	b.router = b.buildRouter()

	if b.audit != nil {
		b.audit.SetNotifier(func(ctx context.Context, entry storage.AuditLog) {
			if !b.cfg.Notifications.AuditToChannel {
				return
			}
			b.notifyAudit(ctx, entry)
		})
	}

	return b, nil
}

// buildRouter assembles the ordered pattern table. Narrow clan request
// ids come first so the broad config and manage prefixes cannot steal
// them.
func (b *Bot) buildRouter() *router.Router {
	dedup := router.NewDedupCache(time.Duration(b.cfg.Router.DedupTTLMinutes) * time.Minute)
	rt := router.New(b.logger, dedup, time.Duration(b.cfg.Router.DeadlineMillis)*time.Millisecond)

	const (
		clanRequests router.HandlerID = "clan_requests"
		clanConfig   router.HandlerID = "clan_config"
		clanManage   router.HandlerID = "clan_manage"
		autoReply    router.HandlerID = "autoreply"
		ticketSystem router.HandlerID = "tickets"
	)

	rt.Add(router.Exact("clan_confirm_request"), clanRequests)
	rt.Add(router.Exact("clan_request_modal"), clanRequests)
	rt.Add(router.Regex(`^clan_approve_\d+_\d+$`), clanRequests)
	rt.Add(router.Regex(`^clan_reject_\d+_\d+$`), clanRequests)
	rt.Add(router.Regex(`^clan_reject_modal_\d+_\d+$`), clanRequests)

	rt.Add(router.Exact("clan_toggle_system"), clanConfig)
	rt.Add(router.Prefix("clan_config_"), clanConfig)
	rt.Add(router.Prefix("clan_select_"), clanConfig)
	rt.Add(router.Exact("clan_staff_channel_selected"), clanConfig)
	rt.Add(router.Exact("clan_public_channel_selected"), clanConfig)
	rt.Add(router.Exact("clan_roles_selected"), clanConfig)
	rt.Add(router.Exact("clan_embed_modal"), clanConfig)
	rt.Add(router.Exact("clan_preview_message"), clanConfig)
	rt.Add(router.Prefix("clan_send_"), clanConfig)
	rt.Add(router.Exact("clan_back_to_main"), clanConfig)

	rt.Add(router.Prefix("clan_manage_"), clanManage)
	rt.Add(router.Prefix("clan_clear_"), clanManage)

	rt.Add(router.Prefix("autoreply_"), autoReply)

	rt.Add(router.Exact("painel-ticket"), ticketSystem)
	rt.Add(router.Exact("claim_ticket"), ticketSystem)
	rt.Add(router.Exact("leave_ticket"), ticketSystem)
	rt.Add(router.Exact("delete_ticket"), ticketSystem)
	rt.Add(router.Exact("staff_panel"), ticketSystem)
	rt.Add(router.Prefix("stars_"), ticketSystem)

	// Slash commands ride the same dedup and deadline guards.
	for _, name := range commandNames() {
		rt.Add(router.Exact(name), commandsHandler)
	}

	rt.Bind(clanRequests, b.clanRequests)
	rt.Bind(clanConfig, b.clanConfig)
	rt.Bind(clanManage, b.clanManage)
	rt.Bind(autoReply, b.autoReplyAdmin)
	rt.Bind(ticketSystem, b.tickets)
	rt.Bind(commandsHandler, router.HandlerFunc(b.handleCommand))

	return rt
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)

	b.router.CheckRoutes()

	if err := b.session.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		return err
	}

	b.startDailySummary()

	return nil
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	if b.session != nil {
		_ = b.session.Close()
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	_ = event
	b.logger.Info("discord ready", zap.String("user", session.State.User.Username))
}

func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	b.autoReply.HandleMessage(session, msg)
}

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	ctx := context.Background()
	outcome := b.router.Route(ctx, session, interaction)
	if outcome == router.NoHandler {
		b.logger.Warn("no route for interaction", zap.String("custom_id", router.CustomID(interaction)))
	}
}

func (b *Bot) notifyAudit(ctx context.Context, entry storage.AuditLog) {
	_ = ctx
	channelID := b.cfg.DefaultLogChannel
	if channelID == "" {
		return
	}

	color := b.cfg.Notifications.EmbedColors.Neutral
	switch entry.Level {
	case audit.LevelWarn:
		color = b.cfg.Notifications.EmbedColors.Pending
	case audit.LevelCrit:
		color = b.cfg.Notifications.EmbedColors.Error
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📒 " + entry.Event,
		Description: entry.Details,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Level", Value: entry.Level, Inline: true},
			{Name: "User", Value: "<@" + entry.UserID + ">", Inline: true},
		},
		Timestamp: entry.CreatedAt.Format(time.RFC3339),
	}
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		b.logger.Debug("audit notification failed", zap.Error(err))
	}
}

func (b *Bot) startDailySummary() {
	if !b.cfg.Notifications.DailySummary {
		return
	}
	go func() {
		time.Sleep(30 * time.Second)
		b.sendDailySummary()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			b.sendDailySummary()
		}
	}()
}

func (b *Bot) sendDailySummary() {
	channelID := b.cfg.DefaultLogChannel
	if channelID == "" {
		return
	}

	ctx := context.Background()
	since := time.Now().Add(-24 * time.Hour)
	for _, guild := range b.session.State.Guilds {
		report, err := b.analytics.Report(ctx, guild.ID, since)
		if err != nil {
			b.logger.Warn("daily summary report failed", zap.String("guild_id", guild.ID), zap.Error(err))
			continue
		}
		if report.Total == 0 {
			continue
		}

		fields := make([]*discordgo.MessageEmbedField, 0, len(report.ByEvent)+1)
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Total events",
			Value: fmt.Sprintf("%d", report.Total),
		})
		for event, count := range report.ByEvent {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   event,
				Value:  fmt.Sprintf("%d", count),
				Inline: true,
			})
		}

		embed := b.commandEmbed("📅 Daily Summary — "+guild.Name, "Activity over the last 24 hours.", b.cfg.Notifications.EmbedColors.Neutral, fields)
		if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
			b.logger.Warn("daily summary post failed", zap.Error(err))
		}
	}
}

func (b *Bot) respond(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
}

func (b *Bot) respondEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	if embed == nil {
		b.respond(session, interaction, "No response available.", ephemeral)
		return
	}
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		},
	})
}

func (b *Bot) commandEmbed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields:      fields,
	}
}

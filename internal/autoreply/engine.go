package autoreply

import (
	"time"

	"citadel/internal/kv"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Engine wires the matcher, cooldown tracker, and trigger budget to
// inbound guild messages.
type Engine struct {
	store        *kv.Store
	logger       *zap.Logger
	cooldowns    *CooldownTracker
	budget       *TriggerBudget
	defaults     Settings
	budgetWindow time.Duration
	clock        Clock
}

// NewEngine builds the auto-reply pipeline. defaults seed the settings
// until an operator saves their own through the admin panel.
func NewEngine(store *kv.Store, logger *zap.Logger, defaults Settings, budgetWindow time.Duration) *Engine {
	if budgetWindow <= 0 {
		budgetWindow = time.Minute
	}
	if defaults.CooldownSeconds < 0 {
		defaults.CooldownSeconds = DefaultSettings().CooldownSeconds
	}
	if defaults.MaxTriggersPerUser < 0 {
		defaults.MaxTriggersPerUser = DefaultSettings().MaxTriggersPerUser
	}
	return &Engine{
		store:        store,
		logger:       logger,
		cooldowns:    NewCooldownTracker(),
		budget:       NewTriggerBudget(),
		defaults:     defaults,
		budgetWindow: budgetWindow,
		clock:        realClock{},
	}
}

func (e *Engine) WithClock(clock Clock) {
	e.clock = clock
	e.cooldowns.WithClock(clock)
	e.budget.WithClock(clock)
}

func (e *Engine) LoadConfig() (Config, error) {
	var cfg Config
	found, err := e.store.Get(kv.BucketConfig, ConfigKey, &cfg)
	if err != nil {
		return Config{}, err
	}
	if !found {
		return Config{Settings: e.defaults}, nil
	}
	if cfg.Settings.CooldownSeconds < 0 {
		cfg.Settings.CooldownSeconds = 0
	}
	return cfg, nil
}

func (e *Engine) SaveConfig(cfg Config) error {
	return e.store.Put(kv.BucketConfig, ConfigKey, cfg)
}

// HandleMessage runs the auto-reply pipeline for one guild message.
// Cooldown and budget state are updated before any network I/O so a
// concurrent message from the same user cannot double-fire.
func (e *Engine) HandleMessage(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil || msg.Author.Bot || msg.Content == "" || msg.GuildID == "" {
		return
	}

	cfg, err := e.LoadConfig()
	if err != nil {
		e.logger.Warn("auto-reply config load failed", zap.Error(err))
		return
	}
	if !cfg.Enabled || len(cfg.Triggers) == 0 {
		return
	}

	userID := msg.Author.ID
	cooldown := time.Duration(cfg.Settings.CooldownSeconds) * time.Second
	if e.cooldowns.OnCooldown(userID, cooldown) {
		return
	}

	trigger, found := Match(msg.Content, cfg.Triggers)
	if !found {
		return
	}

	if !e.budget.Allow(userID, cfg.Settings.MaxTriggersPerUser, e.budgetWindow) {
		e.logger.Info("auto-reply budget exhausted", zap.String("user_id", userID))
		return
	}
	e.cooldowns.Record(userID)

	e.sendReply(session, msg, trigger)

	if cfg.Settings.DeleteOriginal {
		if err := session.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
			e.logger.Info("could not delete trigger message", zap.Error(err))
		}
	}

	if err := e.recordUsage(trigger.Word); err != nil {
		e.logger.Warn("auto-reply stats update failed", zap.Error(err))
	}
}

func (e *Engine) sendReply(session *discordgo.Session, msg *discordgo.MessageCreate, trigger Trigger) {
	embed := &discordgo.MessageEmbed{
		Title:       trigger.Reply.Title,
		Description: trigger.Reply.Description,
		Color:       trigger.Reply.Color,
		Timestamp:   e.clock.Now().Format(time.RFC3339),
	}
	if embed.Title == "" {
		embed.Title = "Auto-Reply"
	}
	if embed.Color == 0 {
		embed.Color = 0x00FFFF
	}
	if trigger.Reply.Banner != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: trigger.Reply.Banner}
	}
	if trigger.Reply.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: trigger.Reply.Footer}
	}

	_, err := session.ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{embed},
		Reference: msg.Reference(),
	})
	if err != nil {
		e.logger.Warn("auto-reply send failed", zap.String("word", trigger.Word), zap.Error(err))
		return
	}
	e.logger.Info("auto-reply sent", zap.String("word", trigger.Word), zap.String("user_id", msg.Author.ID))
}

func (e *Engine) recordUsage(word string) error {
	stats := make(map[string]WordStats)
	if _, err := e.store.Get(kv.BucketConfig, StatsKey, &stats); err != nil {
		return err
	}

	now := e.clock.Now()
	entry := stats[word]
	if entry.Count == 0 {
		entry.FirstUsed = now
	}
	entry.Count++
	entry.LastUsed = now
	stats[word] = entry

	return e.store.Put(kv.BucketConfig, StatsKey, stats)
}

func (e *Engine) Stats() (map[string]WordStats, error) {
	stats := make(map[string]WordStats)
	if _, err := e.store.Get(kv.BucketConfig, StatsKey, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

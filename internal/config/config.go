package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken      string          `yaml:"discord_token"`
	DatabasePath      string          `yaml:"database_path"`
	StorePath         string          `yaml:"store_path"`
	LogLevel          string          `yaml:"log_level"`
	OwnerID           string          `yaml:"owner_id"`
	DefaultLogChannel string          `yaml:"default_log_channel"`
	Health            HealthConfig    `yaml:"health"`
	Router            RouterConfig    `yaml:"router"`
	AutoReply         AutoReplyConfig `yaml:"auto_reply"`
	Notifications     NotifyConfig    `yaml:"notifications"`
}

type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type RouterConfig struct {
	DedupTTLMinutes int `yaml:"dedup_ttl_minutes"`
	DeadlineMillis  int `yaml:"deadline_millis"`
	ModalHopMillis  int `yaml:"modal_hop_millis"`
}

type AutoReplyConfig struct {
	CooldownSeconds     int `yaml:"cooldown_seconds"`
	MaxTriggersPerUser  int `yaml:"max_triggers_per_user"`
	BudgetWindowSeconds int `yaml:"budget_window_seconds"`
}

type NotifyConfig struct {
	AuditToChannel bool        `yaml:"audit_to_channel"`
	DailySummary   bool        `yaml:"daily_summary"`
	EmbedColors    EmbedColors `yaml:"embed_colors"`
}

type EmbedColors struct {
	Neutral  int `yaml:"neutral"`
	Pending  int `yaml:"pending"`
	Approved int `yaml:"approved"`
	Rejected int `yaml:"rejected"`
	Error    int `yaml:"error"`
}

func DefaultConfig() Config {
	return Config{
		DatabasePath:      "/data/citadel.db",
		StorePath:         "/data/citadel.store",
		LogLevel:          "info",
		DefaultLogChannel: "",
		Health:            HealthConfig{Enabled: false, Addr: ":8080"},
		Router: RouterConfig{
			DedupTTLMinutes: 5,
			DeadlineMillis:  2500,
			ModalHopMillis:  2800,
		},
		AutoReply: AutoReplyConfig{
			CooldownSeconds:     5,
			MaxTriggersPerUser:  3,
			BudgetWindowSeconds: 60,
		},
		Notifications: NotifyConfig{
			AuditToChannel: true,
			DailySummary:   true,
			EmbedColors: EmbedColors{
				Neutral:  0x00FFFF,
				Pending:  0xFFA500,
				Approved: 0x00FF00,
				Rejected: 0xFF0000,
				Error:    0xF97316,
			},
		},
	}
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.DatabasePath = envString("DATABASE_PATH", cfg.DatabasePath)
	cfg.StorePath = envString("STORE_PATH", cfg.StorePath)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.OwnerID = envString("OWNER_ID", cfg.OwnerID)
	cfg.DefaultLogChannel = envString("DEFAULT_LOG_CHANNEL", cfg.DefaultLogChannel)
	cfg.Health.Enabled = envBool("HEALTH_ENABLED", cfg.Health.Enabled)
	cfg.Health.Addr = envString("HEALTH_ADDR", cfg.Health.Addr)
	cfg.Router.DedupTTLMinutes = envInt("DEDUP_TTL_MINUTES", cfg.Router.DedupTTLMinutes)
	cfg.Router.DeadlineMillis = envInt("DEADLINE_MILLIS", cfg.Router.DeadlineMillis)
	cfg.Router.ModalHopMillis = envInt("MODAL_HOP_MILLIS", cfg.Router.ModalHopMillis)
	cfg.AutoReply.CooldownSeconds = envInt("AUTOREPLY_COOLDOWN_SECONDS", cfg.AutoReply.CooldownSeconds)
	cfg.AutoReply.MaxTriggersPerUser = envInt("AUTOREPLY_MAX_TRIGGERS", cfg.AutoReply.MaxTriggersPerUser)
	cfg.AutoReply.BudgetWindowSeconds = envInt("AUTOREPLY_BUDGET_WINDOW_SECONDS", cfg.AutoReply.BudgetWindowSeconds)
	cfg.Notifications.AuditToChannel = envBool("AUDIT_TO_CHANNEL", cfg.Notifications.AuditToChannel)
	cfg.Notifications.DailySummary = envBool("DAILY_SUMMARY", cfg.Notifications.DailySummary)
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := strings.ToLower(level)
	switch lvl {
	case "debug", "info", "warn", "error":
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(lvl))
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}

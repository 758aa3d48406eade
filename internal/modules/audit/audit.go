// Package audit records the moderation-relevant events of the bot: a
// durable trail in storage, a structured log line, and an optional
// notifier for posting the entry to a Discord channel.
package audit

import (
	"context"
	"time"

	"citadel/internal/storage"

	"go.uber.org/zap"
)

const (
	LevelInfo = "INFO"
	LevelWarn = "WARN"
	LevelCrit = "CRIT"
)

// Event names shared by the handlers and the reporting surfaces. The
// daily summary groups by these, so they stay stable once written.
const (
	EventClanSubmitted = "clan_request_submitted"
	EventClanApproved  = "clan_request_approved"
	EventClanRejected  = "clan_request_rejected"
	EventClanCleared   = "clan_data_cleared"
	EventTicketSetup   = "ticket_setup"
	EventTicketOpened  = "ticket_opened"
	EventTicketClaimed = "ticket_claimed"
	EventTicketClosed  = "ticket_closed"
	EventTicketDeleted = "ticket_deleted"
	EventTicketRated   = "ticket_rated"
)

type Logger struct {
	store  *storage.Store
	logger *zap.Logger
	notify func(context.Context, storage.AuditLog)
}

func NewLogger(store *storage.Store, logger *zap.Logger) *Logger {
	return &Logger{store: store, logger: logger}
}

func (l *Logger) SetNotifier(notify func(context.Context, storage.AuditLog)) {
	l.notify = notify
}

// Info records a routine event (submissions, approvals, ticket flow).
func (l *Logger) Info(ctx context.Context, guildID, userID, event, details string) {
	l.Log(ctx, LevelInfo, guildID, userID, event, details)
}

// Warn records an event an operator should look at: rejections and
// destructive admin actions.
func (l *Logger) Warn(ctx context.Context, guildID, userID, event, details string) {
	l.Log(ctx, LevelWarn, guildID, userID, event, details)
}

// Crit records an event that indicates the system is misbehaving.
func (l *Logger) Crit(ctx context.Context, guildID, userID, event, details string) {
	l.Log(ctx, LevelCrit, guildID, userID, event, details)
}

func (l *Logger) Log(ctx context.Context, level, guildID, userID, event, details string) {
	entry := storage.AuditLog{
		GuildID:   guildID,
		UserID:    userID,
		Level:     level,
		Event:     event,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if l.store != nil {
		_ = l.store.AddAuditLog(ctx, entry)
	}
	if l.notify != nil {
		l.notify(ctx, entry)
	}
	l.logger.Info("audit", zap.String("level", level), zap.String("guild_id", guildID), zap.String("user_id", userID), zap.String("event", event), zap.String("details", details))
}

// Package router dispatches component, modal, and command interactions
// to the handler owning their customId space. Dispatch is an ordered
// first-match-wins pattern table; a TTL'd dedup cache guards against
// redelivered or doubly-triggered events.
package router

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type HandlerID string

// Handler is the single entry point every routed subsystem implements.
type Handler interface {
	Handle(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error

func (f HandlerFunc) Handle(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) error {
	return f(ctx, session, interaction)
}

type patternKind int

const (
	kindExact patternKind = iota
	kindPrefix
	kindRegex
)

type Pattern struct {
	kind  patternKind
	value string
	re    *regexp.Regexp
}

func Exact(value string) Pattern  { return Pattern{kind: kindExact, value: value} }
func Prefix(value string) Pattern { return Pattern{kind: kindPrefix, value: value} }

// Regex panics on a malformed expression; routes are static startup
// configuration, so a bad pattern is a programming error.
func Regex(expr string) Pattern {
	return Pattern{kind: kindRegex, value: expr, re: regexp.MustCompile(expr)}
}

func (p Pattern) Match(customID string) bool {
	switch p.kind {
	case kindExact:
		return customID == p.value
	case kindPrefix:
		return strings.HasPrefix(customID, p.value)
	default:
		return p.re.MatchString(customID)
	}
}

func (p Pattern) String() string {
	switch p.kind {
	case kindExact:
		return "=" + p.value
	case kindPrefix:
		return p.value + "*"
	default:
		return "/" + p.value + "/"
	}
}

// shadows reports whether every customId matched by other is also
// matched by p. Regex patterns are only comparable by identity.
func (p Pattern) shadows(other Pattern) bool {
	switch p.kind {
	case kindExact:
		return other.kind == kindExact && other.value == p.value
	case kindPrefix:
		switch other.kind {
		case kindExact, kindPrefix:
			return strings.HasPrefix(other.value, p.value)
		default:
			return false
		}
	default:
		return other.kind == kindRegex && other.value == p.value
	}
}

type Route struct {
	Pattern Pattern
	Handler HandlerID
}

type Outcome int

const (
	// Handled covers successful dispatch and deliberate abandonment
	// (deadline exceeded): in both cases the caller must not respond.
	Handled Outcome = iota
	Duplicate
	NoHandler
	Failed
)

type Router struct {
	routes   []Route
	registry map[HandlerID]Handler
	dedup    *DedupCache
	clock    Clock
	deadline time.Duration
	logger   *zap.Logger
}

func New(logger *zap.Logger, dedup *DedupCache, deadline time.Duration) *Router {
	if deadline <= 0 {
		deadline = 2500 * time.Millisecond
	}
	return &Router{
		registry: make(map[HandlerID]Handler),
		dedup:    dedup,
		clock:    realClock{},
		deadline: deadline,
		logger:   logger,
	}
}

func (r *Router) WithClock(clock Clock) {
	r.clock = clock
	r.dedup.WithClock(clock)
}

// Add appends a route. Order is priority: the first matching route
// wins, so narrow patterns must be added before broad ones.
func (r *Router) Add(pattern Pattern, id HandlerID) {
	r.routes = append(r.routes, Route{Pattern: pattern, Handler: id})
}

// Bind attaches the handler implementing id. Every route's handler
// must be bound before the first Route call.
func (r *Router) Bind(id HandlerID, handler Handler) {
	r.registry[id] = handler
}

// CheckRoutes flags configuration mistakes at startup: routes whose
// handler was never bound, and later routes fully shadowed by an
// earlier pattern bound to a different handler.
func (r *Router) CheckRoutes() {
	for _, route := range r.routes {
		if _, ok := r.registry[route.Handler]; !ok {
			r.logger.Warn("route has no bound handler",
				zap.String("pattern", route.Pattern.String()),
				zap.String("handler", string(route.Handler)))
		}
	}
	for i, earlier := range r.routes {
		for _, later := range r.routes[i+1:] {
			if earlier.Handler != later.Handler && earlier.Pattern.shadows(later.Pattern) {
				r.logger.Warn("route shadowed by earlier pattern",
					zap.String("shadowed", later.Pattern.String()),
					zap.String("shadowed_handler", string(later.Handler)),
					zap.String("by", earlier.Pattern.String()),
					zap.String("by_handler", string(earlier.Handler)))
			}
		}
	}
}

// Resolve returns the first route matching customID.
func (r *Router) Resolve(customID string) (HandlerID, bool) {
	if customID == "" {
		return "", false
	}
	for _, route := range r.routes {
		if route.Pattern.Match(customID) {
			return route.Handler, true
		}
	}
	return "", false
}

// CustomID extracts the routing identifier: the component or modal
// customId, or the command name for application commands.
func CustomID(interaction *discordgo.InteractionCreate) string {
	switch interaction.Type {
	case discordgo.InteractionMessageComponent:
		return interaction.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return interaction.ModalSubmitData().CustomID
	case discordgo.InteractionApplicationCommand:
		return interaction.ApplicationCommandData().Name
	default:
		return ""
	}
}

func interactionUserID(interaction *discordgo.InteractionCreate) string {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User.ID
	}
	if interaction.User != nil {
		return interaction.User.ID
	}
	return ""
}

// DedupKey identifies one delivery of one interaction.
func DedupKey(interaction *discordgo.InteractionCreate) string {
	return interaction.ID + "_" + interactionUserID(interaction) + "_" + CustomID(interaction)
}

// Expired reports whether the response window for the interaction has
// already passed, judged from its snowflake creation timestamp.
func Expired(interaction *discordgo.InteractionCreate, budget time.Duration, clock Clock) bool {
	created, err := discordgo.SnowflakeTimestamp(interaction.ID)
	if err != nil {
		return false
	}
	return clock.Now().Sub(created) > budget
}

// Route dispatches one interaction. The dedup key is inserted before
// the handler runs so a concurrent duplicate delivery cannot re-enter
// it, and removed again on failure so a legitimate retry still works.
func (r *Router) Route(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) Outcome {
	customID := CustomID(interaction)
	if customID == "" {
		return NoHandler
	}

	key := DedupKey(interaction)
	if r.dedup.Seen(key) {
		r.logger.Info("duplicate interaction dropped", zap.String("custom_id", customID))
		return Duplicate
	}

	if Expired(interaction, r.deadline, r.clock) {
		r.logger.Warn("interaction abandoned past deadline", zap.String("custom_id", customID))
		return Handled
	}

	id, ok := r.Resolve(customID)
	if !ok {
		return NoHandler
	}
	handler, ok := r.registry[id]
	if !ok {
		r.logger.Error("handler not bound", zap.String("handler", string(id)), zap.String("custom_id", customID))
		return NoHandler
	}

	if !r.dedup.Mark(key) {
		return Duplicate
	}

	if err := handler.Handle(ctx, session, interaction); err != nil {
		r.dedup.Forget(key)
		r.logger.Error("handler failed",
			zap.String("handler", string(id)),
			zap.String("custom_id", customID),
			zap.Error(err))
		r.respondError(session, interaction)
		return Failed
	}
	return Handled
}

// respondError sends the generic ephemeral fallback. If the handler
// already responded the call fails with 40060 and is dropped.
func (r *Router) respondError(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if session == nil {
		return
	}
	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Something went wrong. Please try again in a few seconds.",
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		r.logger.Debug("error fallback not delivered", zap.Error(err))
	}
}

package bot

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func commandNames() []string {
	return []string{"clan-panel", "clan-manage", "auto-reply", "ticket-setup", "report"}
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "clan-panel",
			Description: "Open the clan system configuration panel",
		},
		{
			Name:        "clan-manage",
			Description: "View clan request statistics and management tools",
		},
		{
			Name:        "auto-reply",
			Description: "Open the keyword auto-reply administration panel",
		},
		{
			Name:        "ticket-setup",
			Description: "Configure the ticket system",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "category",
					Description:  "Category where ticket channels are created",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
				},
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "logs",
					Description:  "Channel for ticket open/close logs",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "feedback",
					Description:  "Channel where ticket ratings are posted",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Staff role allowed to manage tickets",
				},
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "panel",
					Description:  "Channel to post the ticket panel in",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
			},
		},
		{
			Name:        "report",
			Description: "Check bot permissions and system configuration health",
		},
	}
}

func (b *Bot) registerCommands() error {
	appID := b.session.State.User.ID
	for _, cmd := range commandDefinitions() {
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			b.logger.Error("command registration failed", zap.String("command", cmd.Name), zap.Error(err))
			return err
		}
		b.logger.Debug("registered command", zap.String("command", cmd.Name))
	}
	return nil
}

package utils

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ModalValue extracts a text input value from a modal submission by
// its component custom ID. Missing fields return "".
func ModalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, component := range actionsRow.Components {
			if input, ok := component.(*discordgo.TextInput); ok && input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}

// ParseHexColor converts a "#RRGGBB" string to an embed color int,
// falling back when the value is empty or malformed.
func ParseHexColor(value string, fallback int) int {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 16, 32)
	if err != nil {
		return fallback
	}
	return int(parsed)
}

package autoreply

import "time"

// Trigger is one configured keyword with its matching rules and reply
// payload. Triggers are evaluated in slice order; the first enabled
// match wins.
type Trigger struct {
	Word          string     `json:"word"`
	Enabled       bool       `json:"enabled"`
	CaseSensitive bool       `json:"caseSensitive"`
	WholeWordOnly bool       `json:"wholeWordOnly"`
	Reply         ReplyEmbed `json:"reply"`
}

type ReplyEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Banner      string `json:"banner,omitempty"`
	Footer      string `json:"footer,omitempty"`
}

type Settings struct {
	CooldownSeconds    int  `json:"cooldownSeconds"`
	DeleteOriginal     bool `json:"deleteOriginal"`
	MaxTriggersPerUser int  `json:"maxTriggersPerUser"`
}

type Config struct {
	Enabled  bool      `json:"enabled"`
	Triggers []Trigger `json:"triggers"`
	Settings Settings  `json:"settings"`
}

func DefaultSettings() Settings {
	return Settings{
		CooldownSeconds:    5,
		DeleteOriginal:     false,
		MaxTriggersPerUser: 3,
	}
}

// WordStats tracks per-word usage.
type WordStats struct {
	Count     int       `json:"count"`
	FirstUsed time.Time `json:"firstUsed"`
	LastUsed  time.Time `json:"lastUsed"`
}

const (
	ConfigKey = "autoReply"
	StatsKey  = "autoReplyStats"
)

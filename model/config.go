package model

// Config holds the bot's runtime configuration.
type Config struct {
	BotToken     string
	AppID        string
	LogChannelID string
	DBPath       string
}

package config

import (
	"log"
	"os"
	"snipe-bot/model"

	"github.com/joho/godotenv"
)

// Load loads the configuration from environment variables.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	logChannelID := os.Getenv("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, channel logging will be disabled")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/snipe.db"
	}

	cfg := &model.Config{
		BotToken:     token,
		AppID:        appID,
		LogChannelID: logChannelID,
		DBPath:       dbPath,
	}

	return cfg, nil
}

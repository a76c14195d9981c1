package main

import (
	"log"
	"os"
	"path/filepath"
	"snipe-bot/bot"
	"snipe-bot/config"
	"snipe-bot/handlers"
	"snipe-bot/utils/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	db, err := database.InitSnipeDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)

	b.Run()

	defer b.Close()
}

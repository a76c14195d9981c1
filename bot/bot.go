package bot

import (
	"log"
	"snipe-bot/model"
	"snipe-bot/scheduler"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	DB                 *sqlx.DB
	Dispatcher         *scheduler.Dispatcher
	config             atomic.Value // *model.Config
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	dg.StateEnabled = true

	b := &Bot{
		Session:    dg,
		DB:         db,
		Dispatcher: scheduler.NewDispatcher(db, NewSessionActions(dg), scheduler.DefaultPollInterval),
	}
	b.config.Store(cfg)
	return b, nil
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	if err := b.Session.Close(); err != nil {
		log.Printf("Error closing session: %v", err)
	}
	if err := b.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

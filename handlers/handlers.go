package handlers

import (
	"fmt"
	"log"
	"snipe-bot/bot"
	"snipe-bot/utils"
	"snipe-bot/utils/database"
	"time"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"snipe": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleSnipe(s, i, b)
		},
		"clear": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleClear(s, i, b)
		},
		"show": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleShow(s, i, b)
		},
		"timezone": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleTimezone(s, i, b)
		},
		"status": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleStatus(s, i, b)
		},
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)

		for _, guild := range r.Guilds {
			if err := database.UpsertDefaultSetting(b.DB, guild.ID); err != nil {
				log.Printf("Error seeding setting for guild %s: %v", guild.ID, err)
			}
		}
		if settings, err := database.ListSettings(b.DB); err == nil {
			log.Printf("Loaded %d guild settings", len(settings))
		}

		// Jobs that came due while the bot was down are dropped, not
		// executed late.
		stale, err := database.ClaimDueJobs(b.DB, time.Now().UTC())
		if err != nil {
			log.Printf("Error sweeping stale jobs: %v", err)
		} else if len(stale) > 0 {
			log.Printf("Dropped %d stale jobs from previous run", len(stale))
		}

		if count, err := database.CountJobs(b.DB); err == nil && count > 0 {
			log.Printf("%d future jobs survived the restart, starting dispatcher", count)
			b.Dispatcher.Ensure()
		}

		if b.GetConfig().LogChannelID != "" {
			err := utils.LogInfo(s, b.GetConfig().LogChannelID, "System", "Startup", "Bot has started successfully.")
			if err != nil {
				log.Printf("Failed to send startup log: %v", err)
			}
		}
	})

	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
				h(s, i)
			}
		case discordgo.InteractionMessageComponent:
			customID := i.MessageComponentData().CustomID
			if customID == snipeTypeAbsoluteID || customID == snipeTypeRelativeID {
				HandleSnipeTypeSelect(s, i, b)
			}
		}
	})

	b.Session.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		if err := database.UpsertDefaultSetting(b.DB, g.ID); err != nil {
			log.Printf("Error creating setting for guild %s: %v", g.ID, err)
		}
	})

	b.Session.AddHandler(func(s *discordgo.Session, g *discordgo.GuildDelete) {
		if g.Unavailable {
			// Outage, not a removal; keep the guild's rows.
			return
		}
		if err := database.DeleteGuild(b.DB, g.ID); err != nil {
			log.Printf("Error deleting data for guild %s: %v", g.ID, err)
			if b.GetConfig().LogChannelID != "" {
				utils.LogError(s, b.GetConfig().LogChannelID, "Guild", "Delete", fmt.Sprintf("guild %s: %v", g.ID, err))
			}
		}
	})
}

package handlers

import (
	"fmt"
	"log"
	"snipe-bot/bot"
	"snipe-bot/model"
	"snipe-bot/scheduler"
	"snipe-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleShow lists this guild's pending disconnects, formatted with the
// offset snapshotted when each job was created.
func HandleShow(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	jobs, err := scheduler.ListPending(b.DB, i.GuildID)
	if err != nil {
		log.Printf("Error listing jobs for guild %s: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "切断予定の取得に失敗しました")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "射殺予定",
		Description: "snipebotの通話切断予定表",
		Color:       0x5865F2,
	}
	for _, job := range jobs {
		if job.EventType != model.EventDisconnect {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  utils.FormatInstant(job.DueAt, job.UTCOffset),
			Value: fmt.Sprintf("<@%s>", job.UserID),
		})
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Printf("Error sending show response: %v", err)
	}
}

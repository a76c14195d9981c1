package handlers

import (
	"fmt"
	"log"
	"snipe-bot/bot"
	"snipe-bot/scheduler"
	"snipe-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleClear drops the invoker's pending jobs in this guild. Jobs the
// dispatcher has already claimed still execute.
func HandleClear(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID := i.Member.User.ID

	removed, err := scheduler.ClearPending(b.DB, i.GuildID, userID)
	if err != nil {
		log.Printf("Error clearing jobs for user %s in guild %s: %v", userID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "切断予約の削除に失敗しました")
		return
	}

	utils.SendPublicResponse(s, i, fmt.Sprintf("<@%s>の切断予約を削除しました（%d件）", userID, removed))
}

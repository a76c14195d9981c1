package handlers

import (
	"errors"
	"fmt"
	"log"
	"snipe-bot/bot"
	"snipe-bot/model"
	"snipe-bot/scheduler"
	"snipe-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleTimezone sets the guild's UTC offset when the option is given and
// reports the current one otherwise.
func HandleTimezone(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if opt, ok := optionMap(i)["offset"]; ok {
		offset := int(opt.IntValue())
		if err := scheduler.SetGuildTimezone(b.DB, i.GuildID, offset); err != nil {
			switch {
			case errors.Is(err, model.ErrInvalidOffset):
				utils.SendErrorResponse(s, i, "時差は-12〜+12の範囲で指定してください")
			default:
				log.Printf("Error setting timezone for guild %s: %v", i.GuildID, err)
				utils.SendErrorResponse(s, i, "タイムゾーンの設定に失敗しました")
			}
			return
		}
		utils.SendPublicResponse(s, i, fmt.Sprintf("%sに設定しました", utils.FormatOffset(offset)))
		return
	}

	offset, err := scheduler.GetGuildTimezone(b.DB, i.GuildID)
	if err != nil {
		if errors.Is(err, model.ErrSettingNotFound) {
			utils.SendPublicResponse(s, i, "タイムゾーンは未設定です")
			return
		}
		log.Printf("Error getting timezone for guild %s: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "タイムゾーンの取得に失敗しました")
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("%sに設定されています", utils.FormatOffset(offset)))
}

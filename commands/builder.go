package commands

import (
	"github.com/bwmarrin/discordgo"
)

// GenerateCommands builds the bot's global slash commands.
func GenerateCommands() []*discordgo.ApplicationCommand {
	minOffset := float64(-12)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "snipe",
			Description: "通話の切断を予約します",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "time",
					Description: "切断する時刻/切断するまでの時間",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "指定方法を選択します (at: 時刻, in: 時間後)",
					Required:    false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "at", Value: "at"},
						{Name: "in", Value: "in"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "ユーザーに対して切断予約します",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Roleに対して切断予約します",
					Required:    false,
				},
			},
		},
		{
			Name:        "clear",
			Description: "通話の切断予定を削除します",
		},
		{
			Name:        "show",
			Description: "通話の切断予定を表示します",
		},
		{
			Name:        "timezone",
			Description: "UTCからの時差を設定/表示します",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "offset",
					Description: "時差（h）",
					Required:    false,
					MinValue:    &minOffset,
					MaxValue:    12,
				},
			},
		},
		{
			Name:        "status",
			Description: "Botの稼働状況を表示します",
		},
	}
}

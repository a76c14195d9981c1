package handlers

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"snipe-bot/bot"
	"snipe-bot/utils/database"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HandleStatus reports host and bot health in an embed.
func HandleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	var dbSize int64
	if info, err := os.Stat(b.GetConfig().DBPath); err == nil {
		dbSize = info.Size() / 1024
	}

	pending, err := database.CountJobs(b.DB)
	if err != nil {
		log.Printf("Error counting jobs for status: %v", err)
	}

	dispatcherState := "idle"
	if b.Dispatcher.Running() {
		dispatcherState = "running"
	}

	embed := &discordgo.MessageEmbed{
		Title: "稼働状況",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion), Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPU 数", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU 使用率", Value: fmt.Sprintf("%.1f%%", cpuUsage), Inline: true},
			{Name: "🧠 メモリ", Value: fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024), Inline: true},
			{Name: "🗃️ DB サイズ", Value: fmt.Sprintf("%d KB", dbSize), Inline: true},
			{Name: "⏱️ WebSocket 遅延", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "🌍 サーバー数", Value: fmt.Sprintf("%d", len(s.State.Guilds)), Inline: true},
			{Name: "📋 待機中ジョブ", Value: fmt.Sprintf("%d", pending), Inline: true},
			{Name: "🔁 ディスパッチャ", Value: dispatcherState, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("システム監視・今日%s", time.Now().Format("15:04")),
		},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Printf("Error sending status response: %v", err)
	}
}

package handlers

import (
	"errors"
	"fmt"
	"log"
	"snipe-bot/bot"
	"snipe-bot/model"
	"snipe-bot/scheduler"
	"snipe-bot/utils"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	snipeTypeAbsoluteID = "snipe_type_at"
	snipeTypeRelativeID = "snipe_type_in"

	pendingSnipeTTL = 30 * time.Second
)

// pendingSnipe is a /snipe invocation waiting for the user to pick a time
// interpretation via the button row.
type pendingSnipe struct {
	expr      string
	targets   []string
	createdAt time.Time
}

var (
	pendingSnipes = make(map[string]pendingSnipe)
	pendingMutex  sync.Mutex
)

func pendingKey(guildID, userID string) string {
	return guildID + ":" + userID
}

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// HandleSnipe schedules a forced voice disconnect for the invoker, a chosen
// user, or every holder of a chosen role.
func HandleSnipe(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	guildID := i.GuildID
	invokerID := i.Member.User.ID
	opts := optionMap(i)

	expr := opts["time"].StringValue()
	if _, _, err := utils.ParseTimeExpression(expr); err != nil {
		utils.SendErrorResponse(s, i, "時間/時刻を認識できません")
		return
	}

	targets, err := resolveTargets(s, i, opts, invokerID)
	if err != nil {
		log.Printf("Error resolving snipe targets in guild %s: %v", guildID, err)
		utils.SendErrorResponse(s, i, "対象ユーザーを取得できませんでした")
		return
	}

	if typeOpt, ok := opts["type"]; ok {
		scheduleAndRespond(s, i, b, targets, expr, scheduler.Mode(typeOpt.StringValue()))
		return
	}

	// No type given: ask with a button row and park the request.
	pendingMutex.Lock()
	pendingSnipes[pendingKey(guildID, invokerID)] = pendingSnipe{expr: expr, targets: targets, createdAt: time.Now()}
	for key, pending := range pendingSnipes {
		if time.Since(pending.createdAt) > pendingSnipeTTL {
			delete(pendingSnipes, key)
		}
	}
	pendingMutex.Unlock()

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "時間指定方法の選択",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "時刻",
							Style:    discordgo.SecondaryButton,
							CustomID: snipeTypeAbsoluteID,
							Emoji:    &discordgo.ComponentEmoji{Name: "⏰"},
						},
						discordgo.Button{
							Label:    "時間後",
							Style:    discordgo.PrimaryButton,
							CustomID: snipeTypeRelativeID,
							Emoji:    &discordgo.ComponentEmoji{Name: "⏲"},
						},
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("Error sending snipe type selection: %v", err)
	}
}

// HandleSnipeTypeSelect completes a /snipe whose time interpretation was
// chosen via button.
func HandleSnipeTypeSelect(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID := i.Member.User.ID
	key := pendingKey(i.GuildID, userID)

	pendingMutex.Lock()
	pending, ok := pendingSnipes[key]
	delete(pendingSnipes, key)
	pendingMutex.Unlock()

	if !ok || time.Since(pending.createdAt) > pendingSnipeTTL {
		utils.UpdateComponentResponse(s, i, "タイムアウトしました")
		return
	}

	mode := scheduler.ModeRelative
	if i.MessageComponentData().CustomID == snipeTypeAbsoluteID {
		mode = scheduler.ModeAbsolute
	}
	scheduleAndRespond(s, i, b, pending.targets, pending.expr, mode)
}

// resolveTargets collects the user IDs a snipe applies to: an explicit user
// option, every member holding a role option, or the invoker as fallback.
func resolveTargets(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, invokerID string) ([]string, error) {
	targetSet := make(map[string]struct{})

	if userOpt, ok := opts["user"]; ok {
		targetSet[userOpt.UserValue(nil).ID] = struct{}{}
	}
	if roleOpt, ok := opts["role"]; ok {
		roleID := roleOpt.RoleValue(nil, i.GuildID).ID
		after := ""
		for {
			members, err := s.GuildMembers(i.GuildID, after, 1000)
			if err != nil {
				return nil, fmt.Errorf("failed to list members of guild %s: %w", i.GuildID, err)
			}
			for _, member := range members {
				for _, r := range member.Roles {
					if r == roleID {
						targetSet[member.User.ID] = struct{}{}
						break
					}
				}
			}
			if len(members) < 1000 {
				break
			}
			after = members[len(members)-1].User.ID
		}
	}
	if len(targetSet) == 0 {
		targetSet[invokerID] = struct{}{}
	}

	targets := make([]string, 0, len(targetSet))
	for id := range targetSet {
		targets = append(targets, id)
	}
	return targets, nil
}

func scheduleAndRespond(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, targets []string, expr string, mode scheduler.Mode) {
	now := time.Now().UTC()

	var due time.Time
	for _, target := range targets {
		d, err := scheduler.ScheduleJobs(b.DB, i.GuildID, target, expr, mode, now)
		if err != nil {
			respondScheduleError(s, i, err)
			return
		}
		due = d
	}

	mentions := make([]string, 0, len(targets))
	for _, target := range targets {
		mentions = append(mentions, fmt.Sprintf("<@%s>", target))
	}
	content := fmt.Sprintf("%sを<t:%d:T> (<t:%d:R>)に切断します", strings.Join(mentions, ""), due.Unix(), due.Unix())

	if i.Type == discordgo.InteractionMessageComponent {
		utils.UpdateComponentResponse(s, i, content)
	} else {
		utils.SendPublicResponse(s, i, content)
	}

	b.Dispatcher.Ensure()
}

func respondScheduleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	var content string
	switch {
	case errors.Is(err, model.ErrInvalidTimeExpression):
		content = "時間/時刻を認識できません"
	case errors.Is(err, model.ErrInvalidTime):
		content = "時刻は0:00〜23:59で指定してください"
	default:
		log.Printf("Error scheduling snipe: %v", err)
		content = "切断予約に失敗しました"
	}

	if i.Type == discordgo.InteractionMessageComponent {
		utils.UpdateComponentResponse(s, i, content)
	} else {
		utils.SendErrorResponse(s, i, content)
	}
}

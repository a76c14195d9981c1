package bot

import (
	"snipe-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// SessionActions performs job side effects through a discordgo session. It is
// the production implementation of scheduler.Actions.
type SessionActions struct {
	session *discordgo.Session
}

func NewSessionActions(s *discordgo.Session) *SessionActions {
	return &SessionActions{session: s}
}

// DisconnectMember removes a member from whatever voice channel they are in.
func (a *SessionActions) DisconnectMember(guildID, userID string) error {
	return a.session.GuildMemberMove(guildID, userID, nil)
}

// SendDirectMessage DMs a user.
func (a *SessionActions) SendDirectMessage(userID, content string) error {
	return utils.SendPrivateMessage(a.session, userID, content)
}

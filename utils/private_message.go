package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// SendPrivateMessage sends a direct message to a user.
func SendPrivateMessage(s *discordgo.Session, userID, message string) error {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to create private channel with user %s: %w", userID, err)
	}
	if _, err := s.ChannelMessageSend(channel.ID, message); err != nil {
		return fmt.Errorf("failed to send private message to user %s: %w", userID, err)
	}
	return nil
}

package rolemenu

import "github.com/bwmarrin/discordgo"

// Accepts reports whether reactions in the given channel are in scope.
// Only guild channels qualify, never DMs or group chats, and the channel name
// must match the watched name exactly (case-sensitive).
func Accepts(ch *discordgo.Channel, watchName string) bool {
	if ch == nil {
		return false
	}
	switch ch.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
	default:
		return false
	}
	return ch.Name == watchName
}

package discord

import "github.com/bwmarrin/discordgo"

// SessionAPI is the surface of the Discord session the reaction pipeline
// depends on. The live implementation wraps *discordgo.Session; tests
// substitute a fake.
type SessionAPI interface {
	BotUserID() string
	Channel(channelID string) (*discordgo.Channel, error)
	ChannelMessage(channelID, messageID string) (*discordgo.Message, error)
	GuildRoles(guildID string) ([]*discordgo.Role, error)
	GuildMember(guildID, userID string) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string) error
	GuildMemberRoleRemove(guildID, userID, roleID string) error
}

// restSession adapts *discordgo.Session to SessionAPI
type restSession struct {
	s *discordgo.Session
}

func (r *restSession) BotUserID() string {
	if r.s.State != nil && r.s.State.User != nil {
		return r.s.State.User.ID
	}
	return ""
}

func (r *restSession) Channel(channelID string) (*discordgo.Channel, error) {
	return r.s.Channel(channelID)
}

func (r *restSession) ChannelMessage(channelID, messageID string) (*discordgo.Message, error) {
	return r.s.ChannelMessage(channelID, messageID)
}

func (r *restSession) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	return r.s.GuildRoles(guildID)
}

func (r *restSession) GuildMember(guildID, userID string) (*discordgo.Member, error) {
	return r.s.GuildMember(guildID, userID)
}

func (r *restSession) GuildMemberRoleAdd(guildID, userID, roleID string) error {
	return r.s.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (r *restSession) GuildMemberRoleRemove(guildID, userID, roleID string) error {
	return r.s.GuildMemberRoleRemove(guildID, userID, roleID)
}

package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

const (
	testGuild   = "guild-1"
	testChannel = "chan-1"
	testMessage = "msg-1"
	testUser    = "user-1"
	testBot     = "bot-1"
)

// fakeSession implements SessionAPI against in-memory fixtures and records
// which collaborator calls the pipeline made.
type fakeSession struct {
	botID    string
	channels map[string]*discordgo.Channel
	messages map[string]*discordgo.Message // channelID/messageID
	roles    map[string][]*discordgo.Role  // guildID

	failMemberFetch bool
	failRolesFetch  bool

	memberRoles map[string][]string // guildID/userID

	channelFetches int
	messageFetches int
	rolesFetches   int
	memberFetches  int
	addCalls       int
	removeCalls    int
}

func (f *fakeSession) BotUserID() string { return f.botID }

func (f *fakeSession) Channel(channelID string) (*discordgo.Channel, error) {
	f.channelFetches++
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, errors.New("channel not found")
	}
	return ch, nil
}

func (f *fakeSession) ChannelMessage(channelID, messageID string) (*discordgo.Message, error) {
	f.messageFetches++
	msg, ok := f.messages[channelID+"/"+messageID]
	if !ok {
		return nil, errors.New("message not found")
	}
	return msg, nil
}

func (f *fakeSession) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	f.rolesFetches++
	if f.failRolesFetch {
		return nil, errors.New("roles fetch failed")
	}
	return f.roles[guildID], nil
}

func (f *fakeSession) GuildMember(guildID, userID string) (*discordgo.Member, error) {
	f.memberFetches++
	if f.failMemberFetch {
		return nil, errors.New("member fetch failed")
	}
	return &discordgo.Member{
		User:  &discordgo.User{ID: userID},
		Roles: f.memberRoles[guildID+"/"+userID],
	}, nil
}

func (f *fakeSession) GuildMemberRoleAdd(guildID, userID, roleID string) error {
	f.addCalls++
	key := guildID + "/" + userID
	for _, r := range f.memberRoles[key] {
		if r == roleID {
			// already granted, Discord treats this as a no-op
			return nil
		}
	}
	f.memberRoles[key] = append(f.memberRoles[key], roleID)
	return nil
}

func (f *fakeSession) GuildMemberRoleRemove(guildID, userID, roleID string) error {
	f.removeCalls++
	key := guildID + "/" + userID
	kept := f.memberRoles[key][:0]
	for _, r := range f.memberRoles[key] {
		if r != roleID {
			kept = append(kept, r)
		}
	}
	f.memberRoles[key] = kept
	return nil
}

// newMenuFixture builds a fake guild with a role-menu message in the watched
// channel and three grantable roles.
func newMenuFixture(content string) *fakeSession {
	return &fakeSession{
		botID: testBot,
		channels: map[string]*discordgo.Channel{
			testChannel: {ID: testChannel, Type: discordgo.ChannelTypeGuildText, Name: "channel-management"},
		},
		messages: map[string]*discordgo.Message{
			testChannel + "/" + testMessage: {ID: testMessage, Content: content},
		},
		roles: map[string][]*discordgo.Role{
			testGuild: {
				{ID: "100", Name: "Gamer"},
				{ID: "200", Name: "Artist"},
				{ID: "300", Name: "Retro-Gamer"},
			},
		},
		memberRoles: map[string][]string{},
	}
}

func reaction(emoji string, action RoleAction) reactionEvent {
	return newReactionEvent(&discordgo.MessageReaction{
		UserID:    testUser,
		GuildID:   testGuild,
		ChannelID: testChannel,
		MessageID: testMessage,
		Emoji:     discordgo.Emoji{Name: emoji},
	}, action)
}

func memberRoleSet(f *fakeSession) []string {
	return f.memberRoles[testGuild+"/"+testUser]
}

func TestHandleGrantsRole(t *testing.T) {
	f := newMenuFixture("React to get a role!\n\n🎮: Gamer\n🎨: Artist")
	h := NewReactionHandler(f, "channel-management", nil)

	h.Handle(reaction("🎨", AddRole))

	got := memberRoleSet(f)
	if len(got) != 1 || got[0] != "200" {
		t.Fatalf("member roles = %v, want [200]", got)
	}

	processed, granted, revoked, aborted, _ := h.StatsSnapshot()
	if processed != 1 || granted != 1 || revoked != 0 || aborted != 0 {
		t.Errorf("counters = processed %d granted %d revoked %d aborted %d, want 1/1/0/0",
			processed, granted, revoked, aborted)
	}
}

func TestHandleLastDuplicateEntryWins(t *testing.T) {
	f := newMenuFixture("Pick your role\n\n🎮: Gamer\n🎮: Retro-Gamer")
	h := NewReactionHandler(f, "channel-management", nil)

	h.Handle(reaction("🎮", AddRole))

	got := memberRoleSet(f)
	if len(got) != 1 || got[0] != "300" {
		t.Fatalf("member roles = %v, want [300] (Retro-Gamer, the later entry)", got)
	}
}

func TestHandleRevokesRole(t *testing.T) {
	f := newMenuFixture("React to get a role!\n\n🎨: Artist")
	f.memberRoles[testGuild+"/"+testUser] = []string{"200"}
	h := NewReactionHandler(f, "channel-management", nil)

	h.Handle(reaction("🎨", RemoveRole))

	if got := memberRoleSet(f); len(got) != 0 {
		t.Fatalf("member roles = %v, want empty after revoke", got)
	}
	if f.removeCalls != 1 {
		t.Errorf("removeCalls = %d, want 1", f.removeCalls)
	}
}

func TestHandleDoubleGrantIsIdempotent(t *testing.T) {
	f := newMenuFixture("Menu\n\n🎨: Artist")
	h := NewReactionHandler(f, "channel-management", nil)

	h.Handle(reaction("🎨", AddRole))
	h.Handle(reaction("🎨", AddRole))

	got := memberRoleSet(f)
	if len(got) != 1 || got[0] != "200" {
		t.Fatalf("member roles = %v, want [200] exactly once", got)
	}
	_, granted, _, aborted, _ := h.StatsSnapshot()
	if granted != 2 || aborted != 0 {
		t.Errorf("granted = %d aborted = %d, want 2 and 0 (duplicate grant is not a failure)", granted, aborted)
	}
}

func TestHandleNoSeparatorAborts(t *testing.T) {
	f := newMenuFixture("🎮: Gamer\n🎨: Artist")
	h := NewReactionHandler(f, "channel-management", nil)

	h.Handle(reaction("🎮", AddRole))

	if f.addCalls != 0 || f.removeCalls != 0 {
		t.Errorf("mutation calls = %d/%d, want none when the menu has no role list", f.addCalls, f.removeCalls)
	}
	_, _, _, aborted, _ := h.StatsSnapshot()
	if aborted != 1 {
		t.Errorf("aborted = %d, want 1", aborted)
	}
}

func TestHandleCustomEmojiRejected(t *testing.T) {
	f := newMenuFixture("Menu\n\n🎨: Artist")
	h := NewReactionHandler(f, "channel-management", nil)

	ev := newReactionEvent(&discordgo.MessageReaction{
		UserID:    testUser,
		GuildID:   testGuild,
		ChannelID: testChannel,
		MessageID: testMessage,
		Emoji:     discordgo.Emoji{Name: "pepe", ID: "424242"},
	}, AddRole)
	h.Handle(ev)

	if f.rolesFetches != 0 {
		t.Errorf("rolesFetches = %d, want 0 for a custom emoji", f.rolesFetches)
	}
	if f.memberFetches != 0 {
		t.Errorf("memberFetches = %d, want 0 for a custom emoji", f.memberFetches)
	}
	if f.addCalls != 0 {
		t.Errorf("addCalls = %d, want 0", f.addCalls)
	}
	_, _, _, _, unsupported := h.StatsSnapshot()
	if unsupported != 1 {
		t.Errorf("unsupported = %d, want 1", unsupported)
	}
}

func TestHandleUnknownRoleName(t *testing.T) {
	f := newMenuFixture("Menu\n\n🛡️: Moderator")
	h := NewReactionHandler(f, "channel-management", nil)

	h.Handle(reaction("🛡️", AddRole))

	if f.memberFetches != 0 {
		t.Errorf("memberFetches = %d, want 0 when the role name does not resolve", f.memberFetches)
	}
	if f.addCalls != 0 {
		t.Errorf("addCalls = %d, want 0", f.addCalls)
	}
}

func TestHandleIgnoresWrongChannelName(t *testing.T) {
	f := newMenuFixture("Menu\n\n🎨: Artist")
	f.channels[testChannel].Name = "general"
	h := NewReactionHandler(f, "channel-management", nil)

	h.Handle(reaction("🎨", AddRole))

	if f.messageFetches != 0 {
		t.Errorf("messageFetches = %d, want 0 for an unwatched channel", f.messageFetches)
	}
	processed, _, _, _, _ := h.StatsSnapshot()
	if processed != 0 {
		t.Errorf("processed = %d, want 0 (routine filtering is not counted)", processed)
	}
}

func TestHandleIgnoresDirectMessages(t *testing.T) {
	f := newMenuFixture("Menu\n\n🎨: Artist")
	f.channels[testChannel].Type = discordgo.ChannelTypeDM
	h := NewReactionHandler(f, "channel-management", nil)

	h.Handle(reaction("🎨", AddRole))

	if f.messageFetches != 0 {
		t.Errorf("messageFetches = %d, want 0 for a DM channel", f.messageFetches)
	}
}

func TestHandleIgnoresMissingChannel(t *testing.T) {
	f := newMenuFixture("Menu\n\n🎨: Artist")
	delete(f.channels, testChannel)
	h := NewReactionHandler(f, "channel-management", nil)

	h.Handle(reaction("🎨", AddRole))

	if f.messageFetches != 0 || f.addCalls != 0 {
		t.Errorf("messageFetches = %d addCalls = %d, want 0/0 when the channel is gone", f.messageFetches, f.addCalls)
	}
}

func TestHandleIgnoresMissingGuild(t *testing.T) {
	f := newMenuFixture("Menu\n\n🎨: Artist")
	h := NewReactionHandler(f, "channel-management", nil)

	ev := newReactionEvent(&discordgo.MessageReaction{
		UserID:    testUser,
		ChannelID: testChannel,
		MessageID: testMessage,
		Emoji:     discordgo.Emoji{Name: "🎨"},
	}, AddRole)
	h.Handle(ev)

	if f.rolesFetches != 0 || f.addCalls != 0 {
		t.Errorf("rolesFetches = %d addCalls = %d, want 0/0 without a guild ID", f.rolesFetches, f.addCalls)
	}
}

func TestHandleIgnoresOwnReaction(t *testing.T) {
	f := newMenuFixture("Menu\n\n🎨: Artist")
	h := NewReactionHandler(f, "channel-management", nil)

	ev := newReactionEvent(&discordgo.MessageReaction{
		UserID:    testBot,
		GuildID:   testGuild,
		ChannelID: testChannel,
		MessageID: testMessage,
		Emoji:     discordgo.Emoji{Name: "🎨"},
	}, AddRole)
	h.Handle(ev)

	if f.channelFetches != 0 {
		t.Errorf("channelFetches = %d, want 0 for the bot's own reaction", f.channelFetches)
	}
}

func TestHandleMemberFetchFailureAborts(t *testing.T) {
	f := newMenuFixture("Menu\n\n🎨: Artist")
	f.failMemberFetch = true
	h := NewReactionHandler(f, "channel-management", nil)

	// Must abort this event only, never panic
	h.Handle(reaction("🎨", AddRole))

	if f.addCalls != 0 {
		t.Errorf("addCalls = %d, want 0 when the member fetch fails", f.addCalls)
	}
	_, _, _, aborted, _ := h.StatsSnapshot()
	if aborted != 1 {
		t.Errorf("aborted = %d, want 1", aborted)
	}
}

func TestHandleRolesFetchFailureAborts(t *testing.T) {
	f := newMenuFixture("Menu\n\n🎨: Artist")
	f.failRolesFetch = true
	h := NewReactionHandler(f, "channel-management", nil)

	h.Handle(reaction("🎨", AddRole))

	if f.memberFetches != 0 || f.addCalls != 0 {
		t.Errorf("memberFetches = %d addCalls = %d, want 0/0 when the roles fetch fails", f.memberFetches, f.addCalls)
	}
}

func TestHandleDeletedMessageAborts(t *testing.T) {
	f := newMenuFixture("Menu\n\n🎨: Artist")
	delete(f.messages, testChannel+"/"+testMessage)
	h := NewReactionHandler(f, "channel-management", nil)

	h.Handle(reaction("🎨", AddRole))

	if f.rolesFetches != 0 || f.addCalls != 0 {
		t.Errorf("rolesFetches = %d addCalls = %d, want 0/0 when the message is gone", f.rolesFetches, f.addCalls)
	}
}

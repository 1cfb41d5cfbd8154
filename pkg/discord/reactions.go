package discord

import (
	"strings"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/lucasduport/role-menu-bot/pkg/database"
	"github.com/lucasduport/role-menu-bot/pkg/rolemenu"
	"github.com/lucasduport/role-menu-bot/pkg/types"
	"github.com/lucasduport/role-menu-bot/pkg/utils"
)

// RoleAction selects which mutation a reaction event carries.
type RoleAction int

const (
	AddRole RoleAction = iota
	RemoveRole
)

func (a RoleAction) String() string {
	if a == AddRole {
		return "grant"
	}
	return "revoke"
}

// reactionEvent is an immutable copy of the gateway event fields the
// pipeline needs. guildID is empty for reactions outside guilds and
// emojiID is non-empty for server custom emojis.
type reactionEvent struct {
	id        string // correlation ID for logs
	emojiName string
	emojiID   string
	userID    string
	guildID   string
	channelID string
	messageID string
	action    RoleAction
}

func newReactionEvent(r *discordgo.MessageReaction, action RoleAction) reactionEvent {
	return reactionEvent{
		id:        shortID(),
		emojiName: r.Emoji.Name,
		emojiID:   r.Emoji.ID,
		userID:    r.UserID,
		guildID:   r.GuildID,
		channelID: r.ChannelID,
		messageID: r.MessageID,
		action:    action,
	}
}

// shortID returns a compact correlation ID for pipeline logs
func shortID() string {
	return strings.Split(uuid.New().String(), "-")[0]
}

// ReactionHandler runs the role-menu pipeline for reaction events.
// Events are independent: discordgo dispatches each one on its own goroutine
// and the handler keeps no per-event state, only atomic counters.
type ReactionHandler struct {
	api          SessionAPI
	watchChannel string
	db           *database.DBManager

	// counters, updated atomically
	processed   int64
	granted     int64
	revoked     int64
	aborted     int64
	unsupported int64
}

// NewReactionHandler creates the pipeline around a session and an optional
// audit database (nil disables the audit trail)
func NewReactionHandler(api SessionAPI, watchChannel string, db *database.DBManager) *ReactionHandler {
	return &ReactionHandler{
		api:          api,
		watchChannel: watchChannel,
		db:           db,
	}
}

// Handle runs one reaction event end to end. Every abort is local to this
// event: expected absences (deleted channel or message, DMs, reactions
// elsewhere) stay quiet, real failures are logged with the event's
// correlation ID. Nothing retries; role add/remove is idempotent so the next
// reaction toggle self-corrects.
func (h *ReactionHandler) Handle(ev reactionEvent) {
	if ev.userID != "" && ev.userID == h.api.BotUserID() {
		return
	}

	ch, err := h.api.Channel(ev.channelID)
	if err != nil {
		// No channel, nothing to do
		utils.DebugLog("[%s] Channel %s not available: %v", ev.id, ev.channelID, err)
		return
	}
	if !rolemenu.Accepts(ch, h.watchChannel) {
		return
	}

	atomic.AddInt64(&h.processed, 1)

	msg, err := h.api.ChannelMessage(ev.channelID, ev.messageID)
	if err != nil {
		// The menu message may have been deleted in the meantime
		utils.DebugLog("[%s] Message %s not available: %v", ev.id, ev.messageID, err)
		atomic.AddInt64(&h.aborted, 1)
		return
	}

	if ev.guildID == "" || ev.userID == "" {
		// Cannot resolve a member without both
		utils.DebugLog("[%s] Reaction without guild or user, ignoring", ev.id)
		atomic.AddInt64(&h.aborted, 1)
		return
	}

	if ev.emojiID != "" {
		utils.WarnLog("[%s] Server custom emojis are not supported (%s)", ev.id, ev.emojiName)
		atomic.AddInt64(&h.unsupported, 1)
		atomic.AddInt64(&h.aborted, 1)
		return
	}

	list, err := rolemenu.ParseRoleList(msg.Content)
	if err != nil {
		utils.ErrorLog("[%s] Error while parsing role menu %s: %v", ev.id, ev.messageID, err)
		atomic.AddInt64(&h.aborted, 1)
		return
	}

	roleName, err := list.RoleFor(ev.emojiName)
	if err != nil {
		utils.ErrorLog("[%s] Error while resolving emoji in menu %s: %v", ev.id, ev.messageID, err)
		atomic.AddInt64(&h.aborted, 1)
		return
	}

	roles, err := h.api.GuildRoles(ev.guildID)
	if err != nil {
		utils.ErrorLog("[%s] Error while fetching roles for guild %s: %v", ev.id, ev.guildID, err)
		atomic.AddInt64(&h.aborted, 1)
		return
	}

	roleID, err := rolemenu.RoleIDByName(roles, roleName)
	if err != nil {
		utils.ErrorLog("[%s] Error while getting role by name: %v", ev.id, err)
		atomic.AddInt64(&h.aborted, 1)
		return
	}

	if _, err := h.api.GuildMember(ev.guildID, ev.userID); err != nil {
		utils.ErrorLog("[%s] Error while fetching member %s in guild %s: %v", ev.id, ev.userID, ev.guildID, err)
		atomic.AddInt64(&h.aborted, 1)
		return
	}

	var mutErr error
	switch ev.action {
	case AddRole:
		mutErr = h.api.GuildMemberRoleAdd(ev.guildID, ev.userID, roleID)
	case RemoveRole:
		mutErr = h.api.GuildMemberRoleRemove(ev.guildID, ev.userID, roleID)
	}

	if mutErr != nil {
		utils.ErrorLog("[%s] Failed to %s role %q for member %s: %v", ev.id, ev.action, roleName, ev.userID, mutErr)
		atomic.AddInt64(&h.aborted, 1)
	} else {
		utils.InfoLog("[%s] Applied %s of role %q for member %s", ev.id, ev.action, roleName, ev.userID)
		switch ev.action {
		case AddRole:
			atomic.AddInt64(&h.granted, 1)
		case RemoveRole:
			atomic.AddInt64(&h.revoked, 1)
		}
	}

	h.recordHistory(ev, roleID, roleName, mutErr == nil)
}

// recordHistory writes the audit row when the database is enabled. Audit
// failures never fail the pipeline, the database layer already logs them.
func (h *ReactionHandler) recordHistory(ev reactionEvent, roleID, roleName string, success bool) {
	if h.db == nil {
		return
	}
	_, _ = h.db.AddRoleHistory(types.RoleEvent{
		GuildID:   ev.guildID,
		ChannelID: ev.channelID,
		MessageID: ev.messageID,
		UserID:    ev.userID,
		Emoji:     ev.emojiName,
		RoleID:    roleID,
		RoleName:  roleName,
		Action:    ev.action.String(),
		Success:   success,
	})
}

// StatsSnapshot returns the pipeline counters
func (h *ReactionHandler) StatsSnapshot() (processed, granted, revoked, aborted, unsupported int64) {
	return atomic.LoadInt64(&h.processed),
		atomic.LoadInt64(&h.granted),
		atomic.LoadInt64(&h.revoked),
		atomic.LoadInt64(&h.aborted),
		atomic.LoadInt64(&h.unsupported)
}

/*
 * role-menu-bot is a Discord bot that grants and revokes roles from reaction menus.
 * Copyright (C) 2025  Lucas Duport
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lucasduport/role-menu-bot/pkg/config"
	"github.com/lucasduport/role-menu-bot/pkg/database"
	"github.com/lucasduport/role-menu-bot/pkg/types"
	"github.com/lucasduport/role-menu-bot/pkg/utils"
)

// Bot wraps the Discord session and the reaction pipeline
type Bot struct {
	session   *discordgo.Session
	conf      *config.BotConfig
	handler   *ReactionHandler
	startedAt time.Time
}

// NewBot creates a new Discord bot
func NewBot(conf *config.BotConfig, db *database.DBManager) (*Bot, error) {
	dg, err := discordgo.New("Bot " + string(conf.Token))
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		session:   dg,
		conf:      conf,
		startedAt: time.Now(),
	}
	bot.handler = NewReactionHandler(&restSession{s: dg}, conf.WatchChannel, db)

	// Register handlers
	dg.AddHandler(bot.messageReactionAdd)
	dg.AddHandler(bot.messageReactionRemove)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		if s != nil && s.State != nil && s.State.User != nil {
			utils.InfoLog("Discord ready: %s#%s (%s)", s.State.User.Username, s.State.User.Discriminator, s.State.User.ID)
		} else {
			utils.InfoLog("Discord ready: session state not populated yet")
		}
	})

	// Intents: guilds, guild messages, reactions, message content
	dg.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildMessageReactions |
		discordgo.IntentMessageContent

	return bot, nil
}

// Start starts the Discord bot
func (b *Bot) Start() error {
	utils.InfoLog("Starting Discord bot with intents: Guilds, GuildMessages, GuildMessageReactions, MessageContent")
	return b.session.Open()
}

// Stop stops the Discord bot
func (b *Bot) Stop() {
	utils.InfoLog("Stopping Discord bot")
	b.session.Close()
}

// Status returns a snapshot of the bot's counters for the status API
func (b *Bot) Status() types.StatusSnapshot {
	processed, granted, revoked, aborted, unsupported := b.handler.StatsSnapshot()
	return types.StatusSnapshot{
		StartedAt:        b.startedAt,
		Uptime:           time.Since(b.startedAt).Truncate(time.Second).String(),
		WatchChannel:     b.conf.WatchChannel,
		EventsProcessed:  processed,
		RolesGranted:     granted,
		RolesRevoked:     revoked,
		EventsAborted:    aborted,
		UnsupportedEmoji: unsupported,
	}
}

// messageReactionAdd forwards reaction-added gateway events to the pipeline
func (b *Bot) messageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	b.handler.Handle(newReactionEvent(r.MessageReaction, AddRole))
}

// messageReactionRemove forwards reaction-removed gateway events to the pipeline
func (b *Bot) messageReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	b.handler.Handle(newReactionEvent(r.MessageReaction, RemoveRole))
}

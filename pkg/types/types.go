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

package types

import "time"

// APIResponse is a standardized API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RoleEvent describes one applied (or attempted) role mutation for the audit trail
type RoleEvent struct {
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	Emoji     string `json:"emoji"`
	RoleID    string `json:"role_id"`
	RoleName  string `json:"role_name"`
	Action    string `json:"action"` // "grant" or "revoke"
	Success   bool   `json:"success"`
}

// StatusSnapshot is the monitoring view exposed by the status API
type StatusSnapshot struct {
	StartedAt        time.Time `json:"started_at"`
	Uptime           string    `json:"uptime"`
	WatchChannel     string    `json:"watch_channel"`
	EventsProcessed  int64     `json:"events_processed"`
	RolesGranted     int64     `json:"roles_granted"`
	RolesRevoked     int64     `json:"roles_revoked"`
	EventsAborted    int64     `json:"events_aborted"`
	UnsupportedEmoji int64     `json:"unsupported_emoji"`
}

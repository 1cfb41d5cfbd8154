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

package database

import (
	"fmt"
	"time"

	"github.com/lucasduport/role-menu-bot/pkg/types"
	"github.com/lucasduport/role-menu-bot/pkg/utils"
)

// AddRoleHistory records one applied (or attempted) role mutation
func (m *DBManager) AddRoleHistory(ev types.RoleEvent) (int64, error) {
	utils.DebugLog("Database: Recording role history - user: %s, role: %s, action: %s", ev.UserID, ev.RoleName, ev.Action)
	if m == nil || m.db == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	var id int64
	err := m.db.QueryRow(`
        INSERT INTO role_history
          (guild_id, channel_id, message_id, user_id, emoji, role_id, role_name, action, success)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `, ev.GuildID, ev.ChannelID, ev.MessageID, ev.UserID, ev.Emoji, ev.RoleID, ev.RoleName, ev.Action, ev.Success).Scan(&id)
	if err != nil {
		utils.ErrorLog("Database error adding role history: %v", err)
		return 0, utils.ErrorWithLocation(err)
	}
	return id, nil
}

// GetRoleHistoryStats gets statistics about role mutations
func (m *DBManager) GetRoleHistoryStats() (map[string]interface{}, error) {
	utils.DebugLog("Database: Getting role history statistics")
	if m == nil || m.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	stats := make(map[string]interface{})
	var total int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM role_history").Scan(&total); err != nil {
		utils.ErrorLog("Database error counting role mutations: %v", err)
		return nil, err
	}
	stats["total_mutations"] = total

	var granted int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM role_history WHERE action = 'grant' AND success").Scan(&granted); err != nil {
		utils.ErrorLog("Database error counting grants: %v", err)
		return nil, err
	}
	stats["granted"] = granted

	var revoked int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM role_history WHERE action = 'revoke' AND success").Scan(&revoked); err != nil {
		utils.ErrorLog("Database error counting revokes: %v", err)
		return nil, err
	}
	stats["revoked"] = revoked

	var activeUsers int
	if err := m.db.QueryRow(`
        SELECT COUNT(DISTINCT user_id) FROM role_history WHERE applied_at > $1
    `, time.Now().Add(-24*time.Hour)).Scan(&activeUsers); err != nil {
		utils.ErrorLog("Database error counting active users: %v", err)
		return nil, err
	}
	stats["active_users_24h"] = activeUsers

	return stats, nil
}

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

package config

// CredentialString hides credential values from accidental printing
type CredentialString string

// String masks the credential when formatted
func (CredentialString) String() string {
	return "*****"
}

// BotConfig holds the runtime configuration of the bot
type BotConfig struct {
	// Discord bot token, required
	Token CredentialString

	// Name of the guild channel watched for role-menu reactions
	WatchChannel string

	// Port for the optional status API, 0 disables it
	APIPort int

	// Whether role mutations are recorded in PostgreSQL
	DatabaseEnabled bool
}

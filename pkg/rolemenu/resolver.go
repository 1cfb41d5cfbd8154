package rolemenu

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// ErrRoleNotFound means the guild has no role with the requested name
var ErrRoleNotFound = errors.New("role not found in guild")

// RoleIDByName looks up a role ID by exact name within a guild's role set.
// Comparison is verbatim string equality: the menu message must name roles
// exactly as the guild defines them.
func RoleIDByName(roles []*discordgo.Role, name string) (string, error) {
	for _, r := range roles {
		if r != nil && r.Name == name {
			return r.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrRoleNotFound, name)
}

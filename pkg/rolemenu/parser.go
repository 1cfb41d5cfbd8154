package rolemenu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasduport/role-menu-bot/pkg/utils"
)

var (
	// ErrNoRoleList means the message has no trailing role-list block
	ErrNoRoleList = errors.New("no role list found in message")
	// ErrNoRoleForEmoji means no line of the role list mentions the emoji
	ErrNoRoleForEmoji = errors.New("no role entry for emoji")
)

// RoleList is the parsed trailing block of a role-menu message.
// It is rebuilt from the message text on every event and never cached.
type RoleList struct {
	lines []string
}

// ParseRoleList extracts the role-list block from a message: everything after
// the last blank-line separator. A message without a blank-line separator has
// no role list at all and fails with ErrNoRoleList.
func ParseRoleList(text string) (*RoleList, error) {
	if !strings.Contains(text, "\n\n") {
		return nil, ErrNoRoleList
	}
	parts := strings.Split(text, "\n\n")
	block := parts[len(parts)-1]
	return &RoleList{lines: strings.Split(block, "\n")}, nil
}

// RoleFor resolves the role name mapped to the given emoji.
//
// A line belongs to the emoji when it contains it as a substring; the role
// name is whatever follows the first colon, trimmed. When several lines
// mention the same emoji, the last one wins. A matching line without a colon
// is skipped with a warning so one bad line cannot take out the whole menu.
func (l *RoleList) RoleFor(emoji string) (string, error) {
	role := ""
	found := false
	for _, line := range l.lines {
		if !strings.Contains(line, emoji) {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			utils.WarnLog("Malformed role-menu line, no colon in %q", line)
			continue
		}
		role = strings.TrimSpace(line[idx+1:])
		found = true
	}
	if !found {
		return "", fmt.Errorf("%w: %s", ErrNoRoleForEmoji, emoji)
	}
	return role, nil
}

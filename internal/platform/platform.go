// Package platform describes what the bot needs from the chat platform it runs on.
// The core packages depend only on these contracts; internal/bot implements them
// on top of discordgo.
package platform

import (
	"context"
	"fmt"
	"time"
)

// Role is a live guild role.
type Role struct {
	ID       string
	Name     string
	Position int
	Managed  bool
}

// Channel is a live guild text channel.
type Channel struct {
	ID       string
	Name     string
	Position int
}

// Member is the invoking guild member at the time of an interaction.
type Member struct {
	UserID        string
	RoleIDs       []string
	Administrator bool
	Bot           bool
}

// HasAnyRole reports whether the member holds at least one of roleIDs.
func (m Member) HasAnyRole(roleIDs []string) bool {
	if len(roleIDs) == 0 || len(m.RoleIDs) == 0 {
		return false
	}
	held := make(map[string]struct{}, len(m.RoleIDs))
	for _, id := range m.RoleIDs {
		held[id] = struct{}{}
	}
	for _, id := range roleIDs {
		if _, ok := held[id]; ok {
			return true
		}
	}
	return false
}

// AllowedMentions is the set of targets a message may ping. There is deliberately
// no way to express an everyone/here ping.
type AllowedMentions struct {
	Roles []string
	Users []string
}

// EmbedField is one name/value pair of an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is the rich summary block attached to a message.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
	Timestamp   time.Time
}

// Message is an outbound channel message.
type Message struct {
	ChannelID string
	Content   string
	Embed     *Embed
	Mentions  AllowedMentions
}

// Receipt identifies a delivered message.
type Receipt struct {
	GuildID   string
	ChannelID string
	MessageID string
}

// JumpURL returns the link that opens the delivered message.
func (r Receipt) JumpURL() string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", r.GuildID, r.ChannelID, r.MessageID)
}

// Directory resolves live guild state at call time.
type Directory interface {
	Roles(ctx context.Context, guildID string) ([]Role, error)
	TextChannels(ctx context.Context, guildID string) ([]Channel, error)
}

// Sender delivers messages to guild channels.
type Sender interface {
	Send(ctx context.Context, guildID string, msg Message) (Receipt, error)
}

// RoleMention formats a role ping.
func RoleMention(id string) string { return "<@&" + id + ">" }

// UserMention formats a user ping.
func UserMention(id string) string { return "<@" + id + ">" }

// ChannelMention formats a channel link.
func ChannelMention(id string) string { return "<#" + id + ">" }

// Timestamp formats t as a client-localized timestamp in the given style
// ("F" full, "R" relative).
func Timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// FindRole returns the live role with id.
func FindRole(roles []Role, id string) (Role, bool) {
	if id == "" {
		return Role{}, false
	}
	for _, r := range roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// FindChannel returns the live channel with id.
func FindChannel(channels []Channel, id string) (Channel, bool) {
	if id == "" {
		return Channel{}, false
	}
	for _, c := range channels {
		if c.ID == id {
			return c, true
		}
	}
	return Channel{}, false
}

package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/logging"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
	"github.com/TripodGG/aegis-discord-bot/pkg/util"
)

const footerText = "Aegis • Rules of Engagement"

// MentionKind says what a mention target refers to.
type MentionKind int

const (
	MentionRole MentionKind = iota
	MentionUser
)

// Mention is one explicit ping target.
type Mention struct {
	Kind MentionKind
	ID   string
}

func RoleTarget(id string) Mention { return Mention{Kind: MentionRole, ID: id} }
func UserTarget(id string) Mention { return Mention{Kind: MentionUser, ID: id} }

func (m Mention) String() string {
	if m.Kind == MentionUser {
		return platform.UserMention(m.ID)
	}
	return platform.RoleMention(m.ID)
}

// Announcement is a public post: pings in the content, details in the embed.
type Announcement struct {
	Title     string
	Body      string
	Color     int
	Timestamp time.Time
	Mentions  []Mention
}

// Dispatcher publishes announcements and mirrors summaries to a guild's audit channel.
type Dispatcher struct {
	sender    platform.Sender
	directory platform.Directory
}

func NewDispatcher(sender platform.Sender, directory platform.Directory) *Dispatcher {
	return &Dispatcher{sender: sender, directory: directory}
}

// Publish posts a to channelID. Only the listed role and user targets can be
// pinged; the guild's @everyone role and any literal everyone/here text are
// neutralized whatever the caller passes.
func (d *Dispatcher) Publish(ctx context.Context, guildID, channelID string, a Announcement) (platform.Receipt, error) {
	if channelID == "" {
		return platform.Receipt{}, errors.New("no destination channel")
	}
	msg := compose(guildID, channelID, a)
	receipt, err := d.sender.Send(ctx, guildID, msg)
	if err != nil {
		return platform.Receipt{}, fmt.Errorf("failed to post to channel %s: %w", channelID, err)
	}
	return receipt, nil
}

// Audit mirrors summary to the configured audit channel. A missing, stale or
// failing audit channel is logged and otherwise ignored.
func (d *Dispatcher) Audit(ctx context.Context, cfg *database.GuildConfig, summary string) {
	if cfg == nil || cfg.AuditChannelID == "" {
		return
	}

	channels, err := d.directory.TextChannels(ctx, cfg.GuildID)
	if err != nil {
		logging.Warn("Audit skipped for guild %s: failed to list channels: %v", cfg.GuildID, err)
		return
	}
	if _, ok := platform.FindChannel(channels, cfg.AuditChannelID); !ok {
		logging.Debug("Audit skipped for guild %s: channel %s no longer exists", cfg.GuildID, cfg.AuditChannelID)
		return
	}

	msg := platform.Message{
		ChannelID: cfg.AuditChannelID,
		Content:   Sanitize(summary),
	}
	if _, err := d.sender.Send(ctx, cfg.GuildID, msg); err != nil {
		logging.Warn("Audit send failed for guild %s channel %s: %v", cfg.GuildID, cfg.AuditChannelID, err)
	}
}

func compose(guildID, channelID string, a Announcement) platform.Message {
	var (
		parts   []string
		allowed platform.AllowedMentions
		seen    = make(map[Mention]bool)
	)
	for _, m := range a.Mentions {
		// The @everyone role shares the guild's id.
		if !util.IsSnowflake(m.ID) || m.ID == guildID || seen[m] {
			continue
		}
		seen[m] = true
		parts = append(parts, m.String())
		if m.Kind == MentionUser {
			allowed.Users = append(allowed.Users, m.ID)
		} else {
			allowed.Roles = append(allowed.Roles, m.ID)
		}
	}

	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return platform.Message{
		ChannelID: channelID,
		Content:   strings.Join(parts, " "),
		Embed: &platform.Embed{
			Title:       Sanitize(a.Title),
			Description: Sanitize(a.Body),
			Color:       a.Color,
			Footer:      footerText,
			Timestamp:   ts,
		},
		Mentions: allowed,
	}
}

var massMentions = strings.NewReplacer(
	"@everyone", "@\u200beveryone",
	"@here", "@\u200bhere",
)

// Sanitize defuses everyone/here mentions in free text.
func Sanitize(s string) string {
	return massMentions.Replace(s)
}

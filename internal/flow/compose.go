package flow

import (
	"fmt"
	"strings"
	"time"

	"github.com/TripodGG/aegis-discord-bot/internal/notifier"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

const (
	colorRed    = 0xED4245
	colorOrange = 0xE67E22
)

func reportAnnouncement(req Request, details string, at time.Time) notifier.Announcement {
	body := fmt.Sprintf("**Offender:** %s\n**Reported by:** %s\n**Details:** %s\n**When:** %s",
		platform.UserMention(req.Offender.UserID),
		platform.UserMention(req.Invoker.UserID),
		details,
		platform.Timestamp(at, "F"),
	)
	return notifier.Announcement{
		Title:     "🚨 RoE Violation Report",
		Body:      body,
		Color:     colorRed,
		Timestamp: at,
		Mentions:  []notifier.Mention{notifier.RoleTarget(req.TargetRoleID)},
	}
}

// declareAnnouncement pings the target and, when escalationRoleID is non-empty,
// the escalation role as well.
func declareAnnouncement(req Request, details, escalationRoleID string, at time.Time) notifier.Announcement {
	body := fmt.Sprintf("**Declaring Against:** %s\n**Declared by:** %s\n**Reason:** %s\n**When:** %s",
		platform.RoleMention(req.TargetRoleID),
		platform.UserMention(req.Invoker.UserID),
		details,
		platform.Timestamp(at, "F"),
	)
	mentions := []notifier.Mention{notifier.RoleTarget(req.TargetRoleID)}
	if escalationRoleID != "" {
		mentions = append(mentions, notifier.RoleTarget(escalationRoleID))
	}
	return notifier.Announcement{
		Title:     "🛡️ War Declaration",
		Body:      body,
		Color:     colorOrange,
		Timestamp: at,
		Mentions:  mentions,
	}
}

func pings(a notifier.Announcement) string {
	parts := make([]string, 0, len(a.Mentions))
	for _, m := range a.Mentions {
		parts = append(parts, m.String())
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func postedTo(receipts []platform.Receipt) string {
	links := make([]string, 0, len(receipts))
	for _, r := range receipts {
		links = append(links, fmt.Sprintf("%s (jump: %s)", platform.ChannelMention(r.ChannelID), r.JumpURL()))
	}
	return strings.Join(links, ", ")
}

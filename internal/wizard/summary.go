package wizard

import (
	"fmt"
	"strings"

	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

// Summarize renders every field of cfg against live guild state. Ids that no
// longer resolve are left out or shown as not set.
func Summarize(cfg *database.GuildConfig, roles []platform.Role, channels []platform.Channel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Allowed:** %s\n", roleList(roles, cfg.AllowedRoleIDs))
	fmt.Fprintf(&b, "**Excluded:** %s\n", roleList(roles, cfg.ExcludedRoleIDs))
	fmt.Fprintf(&b, "**Admiral Role:** %s\n", roleOrNotSet(roles, cfg.EscalationRoleID.ID))
	fmt.Fprintf(&b, "**War Channel:** %s\n", channelOrNotSet(channels, cfg.WarChannelID.ID))
	fmt.Fprintf(&b, "**Log Channel:** %s", channelOrNotSet(channels, cfg.AuditChannelID))
	return b.String()
}

func roleList(roles []platform.Role, ids []string) string {
	var mentions []string
	for _, id := range ids {
		if _, ok := platform.FindRole(roles, id); ok {
			mentions = append(mentions, platform.RoleMention(id))
		}
	}
	if len(mentions) == 0 {
		return "_none_"
	}
	return strings.Join(mentions, ", ")
}

func roleOrNotSet(roles []platform.Role, id string) string {
	if _, ok := platform.FindRole(roles, id); ok {
		return platform.RoleMention(id)
	}
	return "Not set"
}

func channelOrNotSet(channels []platform.Channel, id string) string {
	if _, ok := platform.FindChannel(channels, id); ok {
		return platform.ChannelMention(id)
	}
	return "Not set"
}

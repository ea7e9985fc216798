package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

// memberFrom reads the invoking member off the interaction. The guild owner
// counts as an administrator.
func memberFrom(s *discordgo.Session, i *discordgo.InteractionCreate) (platform.Member, bool) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return platform.Member{}, false
	}
	m := platform.Member{
		UserID:        i.Member.User.ID,
		RoleIDs:       i.Member.Roles,
		Administrator: i.Member.Permissions&discordgo.PermissionAdministrator != 0,
		Bot:           i.Member.User.Bot,
	}
	if !m.Administrator && s != nil {
		m.Administrator = isGuildOwner(s, i.GuildID, m.UserID)
	}
	return m, true
}

func isGuildOwner(s *discordgo.Session, guildID, userID string) bool {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return false
	}
	return guild.OwnerID == userID
}

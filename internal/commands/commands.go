package commands

import "github.com/bwmarrin/discordgo"

var (
	adminPermission int64 = discordgo.PermissionAdministrator
	guildOnly             = false
)

// GetAllCommands returns all application commands
func GetAllCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     "setup",
			Description:              "Configure allowed/excluded roles, admiral role, and channels.",
			DefaultMemberPermissions: &adminPermission,
			DMPermission:             &guildOnly,
		},
		{
			Name:         "config",
			Description:  "Show current configuration (ephemeral).",
			DMPermission: &guildOnly,
		},
		{
			Name:         "roe",
			Description:  "Report a Rules of Engagement violation (pings selected role).",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "offender",
					Description: "Offending player",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
				{
					Name:        "target_role",
					Description: "Role to notify/ping (e.g., their alliance)",
					Type:        discordgo.ApplicationCommandOptionRole,
					Required:    true,
				},
			},
		},
		{
			Name:         "declare",
			Description:  "Declare war against a role/faction with a detailed reason.",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "target",
					Description: "Role/faction to declare against",
					Type:        discordgo.ApplicationCommandOptionRole,
					Required:    true,
				},
			},
		},
	}
}

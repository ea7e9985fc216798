package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/TripodGG/aegis-discord-bot/internal/logging"
)

// SetupEventHandlers logs the gateway lifecycle.
func (s *Session) SetupEventHandlers() {
	logging.Info("Setting up Discord event handlers...")

	s.discord.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		logging.Info("Logged in as %s (id: %s), Aegis standing by in %d guilds", r.User.Username, r.User.ID, len(r.Guilds))
	})

	s.discord.AddHandler(func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		logging.Info("Bot joined/loaded guild: %s (ID: %s)", g.Name, g.ID)
	})

	s.discord.AddHandler(func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		if g.Unavailable {
			logging.Warn("Guild %s became unavailable", g.ID)
			return
		}
		logging.Info("Bot removed from guild %s", g.ID)
	})

	s.discord.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		logging.Warn("Disconnected from Discord gateway, reconnecting")
	})
}

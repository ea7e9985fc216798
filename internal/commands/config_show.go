package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
	"github.com/TripodGG/aegis-discord-bot/internal/wizard"
)

// handleConfigShow shows the committed configuration to the invoker only.
func (h *Handler) handleConfigShow(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.GuildID == "" {
		return respond(s, i, "Use this in a server.")
	}
	ctx := context.Background()

	cfg, err := h.store.GetGuildConfig(ctx, i.GuildID)
	if errors.Is(err, database.ErrNotFound) {
		return respond(s, i, "No configuration saved yet. Ask an admin to run `/setup`.")
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	roles, err := h.directory.Roles(ctx, i.GuildID)
	if err != nil {
		return err
	}
	channels, err := h.directory.TextChannels(ctx, i.GuildID)
	if err != nil {
		return err
	}
	return respond(s, i, configSummary(cfg, roles, channels))
}

func configSummary(cfg *database.GuildConfig, roles []platform.Role, channels []platform.Channel) string {
	out := wizard.Summarize(cfg, roles, channels)
	if cfg.UpdatedBy != "" {
		out += fmt.Sprintf("\n_Updated: %s by %s_", platform.Timestamp(cfg.UpdatedAt, "R"), platform.UserMention(cfg.UpdatedBy))
	}
	return out
}

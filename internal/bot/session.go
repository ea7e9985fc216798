// Package bot wraps the discordgo session: it connects, syncs slash commands
// and serves live guild state and message delivery to the rest of the bot.
package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/TripodGG/aegis-discord-bot/internal/logging"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

// Intents covers guild, role and channel state; interactions carry the
// invoking member, so no privileged intent is needed.
const Intents = discordgo.IntentsGuilds

type Session struct {
	discord *discordgo.Session
	BotID   string
}

// New creates the Discord session without connecting.
func New(token string) (*Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	dg.Identify.Intents = Intents
	return &Session{discord: dg}, nil
}

// Discord returns the underlying discordgo session
func (s *Session) Discord() *discordgo.Session {
	return s.discord
}

// Connect opens the Discord websocket connection
func (s *Session) Connect() error {
	if err := s.discord.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	if s.discord.State.User != nil {
		s.BotID = s.discord.State.User.ID
		logging.Info("Bot ID: %s", s.BotID)
	}
	logging.Info("Discord bot connected successfully")
	return nil
}

func (s *Session) Close() error {
	if s.discord != nil {
		return s.discord.Close()
	}
	return nil
}

// RegisterCommands replaces the application's commands in one call. A non-empty
// guildID syncs to that guild only, which takes effect immediately.
func (s *Session) RegisterCommands(guildID string, commands []*discordgo.ApplicationCommand) error {
	if s.discord.State.User == nil {
		return fmt.Errorf("session is not connected")
	}
	scope := "globally"
	if guildID != "" {
		scope = "to guild " + guildID
	}
	logging.Info("Registering %d slash commands %s...", len(commands), scope)

	registered, err := s.discord.ApplicationCommandBulkOverwrite(s.discord.State.User.ID, guildID, commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	for _, cmd := range registered {
		logging.Info("Registered command: /%s", cmd.Name)
	}
	return nil
}

// AddHandler adds an event handler to the Discord session
func (s *Session) AddHandler(handler interface{}) func() {
	return s.discord.AddHandler(handler)
}

// Roles implements platform.Directory from the state cache, falling back to REST.
func (s *Session) Roles(ctx context.Context, guildID string) ([]platform.Role, error) {
	if g, err := s.discord.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		return convertRoles(g.Roles), nil
	}
	roles, err := s.discord.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles for guild %s: %w", guildID, err)
	}
	return convertRoles(roles), nil
}

// TextChannels implements platform.Directory from the state cache, falling back to REST.
func (s *Session) TextChannels(ctx context.Context, guildID string) ([]platform.Channel, error) {
	if g, err := s.discord.State.Guild(guildID); err == nil && len(g.Channels) > 0 {
		return convertChannels(g.Channels), nil
	}
	channels, err := s.discord.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channels for guild %s: %w", guildID, err)
	}
	return convertChannels(channels), nil
}

// Send implements platform.Sender.
func (s *Session) Send(ctx context.Context, guildID string, msg platform.Message) (platform.Receipt, error) {
	sent, err := s.discord.ChannelMessageSendComplex(msg.ChannelID, convertMessage(msg), discordgo.WithContext(ctx))
	if err != nil {
		return platform.Receipt{}, err
	}
	return platform.Receipt{GuildID: guildID, ChannelID: sent.ChannelID, MessageID: sent.ID}, nil
}

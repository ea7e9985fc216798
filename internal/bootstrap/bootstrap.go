// Package bootstrap builds the bot from its configuration and owns the
// lifetime of every long-lived component.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/TripodGG/aegis-discord-bot/internal/bot"
	"github.com/TripodGG/aegis-discord-bot/internal/commands"
	"github.com/TripodGG/aegis-discord-bot/internal/config"
	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/flow"
	"github.com/TripodGG/aegis-discord-bot/internal/logging"
	"github.com/TripodGG/aegis-discord-bot/internal/notifier"
	"github.com/TripodGG/aegis-discord-bot/internal/wizard"
)

type Bootstrap struct {
	Config      *config.Config
	Components  *Components
	initialized bool
}

type Components struct {
	Store      database.Store
	Session    *bot.Session
	Dispatcher *notifier.Dispatcher
	Wizards    *wizard.Manager
	Flows      *flow.Service
	Handler    *commands.Handler
}

func New(cfg *config.Config) *Bootstrap {
	return &Bootstrap{Config: cfg}
}

func (b *Bootstrap) Initialize(ctx context.Context) error {
	if err := b.Config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logging.InitGlobalLogger(b.Config.Logging); err != nil {
		return fmt.Errorf("logging init failed: %w", err)
	}

	if err := Wire(ctx, b); err != nil {
		return fmt.Errorf("component wiring failed: %w", err)
	}

	b.initialized = true
	logging.Info("Bootstrap complete")
	return nil
}

// Start connects to Discord and syncs the slash commands.
func (b *Bootstrap) Start() error {
	if !b.initialized {
		return fmt.Errorf("bootstrap not initialized")
	}
	return StartAll(b.Components, b.Config.Bot.GuildID)
}

func (b *Bootstrap) Shutdown() error {
	if b.Components == nil {
		return nil
	}
	return Shutdown(b.Components)
}

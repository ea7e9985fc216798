package bootstrap

import (
	"context"
	"fmt"

	"github.com/TripodGG/aegis-discord-bot/internal/bot"
	"github.com/TripodGG/aegis-discord-bot/internal/commands"
	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/flow"
	"github.com/TripodGG/aegis-discord-bot/internal/logging"
	"github.com/TripodGG/aegis-discord-bot/internal/notifier"
	"github.com/TripodGG/aegis-discord-bot/internal/wizard"
)

func Wire(ctx context.Context, b *Bootstrap) error {
	logging.Info("Wiring components...")

	store, err := database.Open(ctx, b.Config.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", b.Config.Storage.Driver, err)
	}
	logging.Info("Config store ready (driver: %s)", b.Config.Storage.Driver)

	session, err := bot.New(b.Config.Bot.Token)
	if err != nil {
		store.Close()
		return err
	}

	// The session is both the guild directory and the message sender.
	dispatcher := notifier.NewDispatcher(session, session)

	var handler *commands.Handler
	wizards := wizard.NewManager(store, session, dispatcher, wizard.Options{
		IdleTimeout: b.Config.Wizard.IdleTimeout,
		OnExpire: func(s *wizard.Session) {
			handler.OnSetupExpired(s)
		},
	})
	flows := flow.NewService(store, session, dispatcher, flow.Options{
		TTL: b.Config.Flow.ResponseTimeout,
	})
	handler = commands.NewHandler(session.Discord(), store, session, wizards, flows)

	b.Components = &Components{
		Store:      store,
		Session:    session,
		Dispatcher: dispatcher,
		Wizards:    wizards,
		Flows:      flows,
		Handler:    handler,
	}

	logging.Info("Component wiring complete")
	return nil
}

func StartAll(c *Components, guildID string) error {
	logging.Info("Starting components...")

	c.Session.SetupEventHandlers()
	c.Session.AddHandler(c.Handler.HandleInteraction)

	if err := c.Session.Connect(); err != nil {
		return fmt.Errorf("gateway connection failed: %w", err)
	}

	if err := c.Session.RegisterCommands(guildID, commands.GetAllCommands()); err != nil {
		return err
	}

	logging.Info("All components started")
	return nil
}

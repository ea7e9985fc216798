package bootstrap

import (
	"errors"

	"github.com/TripodGG/aegis-discord-bot/internal/logging"
)

// Shutdown drops pending drafts and tickets without writing them, then closes
// the gateway and the store.
func Shutdown(c *Components) error {
	logging.Info("Starting graceful shutdown...")

	var errs []error

	if c.Wizards != nil {
		logging.Info("Discarding %d open setup sessions...", c.Wizards.Len())
		c.Wizards.Close()
	}
	if c.Flows != nil {
		logging.Info("Discarding %d pending forms...", c.Flows.Len())
		c.Flows.Close()
	}

	if c.Session != nil {
		logging.Info("Closing Discord session...")
		if err := c.Session.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Store != nil {
		logging.Info("Closing config store...")
		if err := c.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	logging.Info("Graceful shutdown complete")
	return errors.Join(errs...)
}

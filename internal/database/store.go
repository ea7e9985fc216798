package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/TripodGG/aegis-discord-bot/internal/config"
	"github.com/TripodGG/aegis-discord-bot/pkg/util"
)

// ErrNotFound is returned when a guild has never saved a configuration.
var ErrNotFound = errors.New("guild config not found")

// Store is durable per-guild storage of GuildConfig records. Writes replace the
// whole record atomically.
type Store interface {
	GetGuildConfig(ctx context.Context, guildID string) (*GuildConfig, error)
	SaveGuildConfig(ctx context.Context, cfg *GuildConfig) error
	Close() error
}

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case config.DriverRedis:
		return OpenRedis(ctx, cfg)
	case config.DriverFile:
		return OpenFile(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func validateConfig(cfg *GuildConfig) error {
	if cfg == nil {
		return errors.New("nil guild config")
	}
	if !util.IsSnowflake(cfg.GuildID) {
		return fmt.Errorf("invalid guild id %q", cfg.GuildID)
	}
	return nil
}

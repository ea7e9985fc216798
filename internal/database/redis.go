package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/TripodGG/aegis-discord-bot/internal/config"
)

// Redis stores each guild's config as one JSON value.
type Redis struct {
	client *redis.Client
}

// OpenRedis connects to the server described by cfg.
func OpenRedis(ctx context.Context, cfg config.StorageConfig) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedis(rdb), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func guildKey(guildID string) string {
	return fmt.Sprintf("aegis:guild:%s:config", guildID)
}

func (r *Redis) GetGuildConfig(ctx context.Context, guildID string) (*GuildConfig, error) {
	data, err := r.client.Get(ctx, guildKey(guildID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load guild config %s: %w", guildID, err)
	}

	var cfg GuildConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode guild config %s: %w", guildID, err)
	}
	cfg.normalize()
	return &cfg, nil
}

// SaveGuildConfig replaces the record with a single SET.
func (r *Redis) SaveGuildConfig(ctx context.Context, cfg *GuildConfig) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode guild config %s: %w", cfg.GuildID, err)
	}
	if err := r.client.Set(ctx, guildKey(cfg.GuildID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save guild config %s: %w", cfg.GuildID, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

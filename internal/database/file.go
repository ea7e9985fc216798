package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/TripodGG/aegis-discord-bot/pkg/util"
)

// File keeps one JSON document per guild in a directory.
type File struct {
	dir string
}

// OpenFile creates dir if needed.
func OpenFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(guildID string) (string, error) {
	if !util.IsSnowflake(guildID) {
		return "", fmt.Errorf("invalid guild id %q", guildID)
	}
	return filepath.Join(f.dir, guildID+".json"), nil
}

func (f *File) GetGuildConfig(_ context.Context, guildID string) (*GuildConfig, error) {
	p, err := f.path(guildID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read guild config %s: %w", guildID, err)
	}

	var cfg GuildConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode guild config %s: %w", guildID, err)
	}
	if cfg.GuildID == "" {
		cfg.GuildID = guildID
	}
	cfg.normalize()
	return &cfg, nil
}

// SaveGuildConfig writes to a temp file and renames it over the old record.
func (f *File) SaveGuildConfig(_ context.Context, cfg *GuildConfig) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	p, err := f.path(cfg.GuildID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode guild config %s: %w", cfg.GuildID, err)
	}

	tmp, err := os.CreateTemp(f.dir, cfg.GuildID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to save guild config %s: %w", cfg.GuildID, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save guild config %s: %w", cfg.GuildID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save guild config %s: %w", cfg.GuildID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save guild config %s: %w", cfg.GuildID, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to save guild config %s: %w", cfg.GuildID, err)
	}
	return nil
}

func (f *File) Close() error { return nil }

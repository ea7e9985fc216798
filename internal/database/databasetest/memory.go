// Package databasetest provides an in-memory Store that counts calls and can be
// told to fail.
package databasetest

import (
	"context"
	"sync"

	"github.com/TripodGG/aegis-discord-bot/internal/database"
)

// Memory is a Store backed by a map.
type Memory struct {
	mu      sync.Mutex
	records map[string]*database.GuildConfig
	saveErr error
	saves   int
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]*database.GuildConfig)}
}

// Put seeds a record without counting it as a save.
func (m *Memory) Put(cfg *database.GuildConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[cfg.GuildID] = cfg.Clone()
}

// FailSaves makes every following save return err (nil restores success).
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves returns how many times SaveGuildConfig was called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) GetGuildConfig(_ context.Context, guildID string) (*database.GuildConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.records[guildID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return cfg.Clone(), nil
}

func (m *Memory) SaveGuildConfig(_ context.Context, cfg *database.GuildConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[cfg.GuildID] = cfg.Clone()
	return nil
}

func (m *Memory) Close() error { return nil }

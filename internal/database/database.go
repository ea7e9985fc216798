package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/TripodGG/aegis-discord-bot/pkg/util"
)

// SQLite is the default Store, one row per guild.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dbPath.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

// createTables creates all necessary database tables
func (s *SQLite) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS guild_config (
		guild_id TEXT PRIMARY KEY,
		allowed_role_ids TEXT NOT NULL DEFAULT '',
		excluded_role_ids TEXT NOT NULL DEFAULT '',
		escalation_role_id TEXT,
		war_channel_id TEXT,
		audit_channel_id TEXT NOT NULL,
		updated_by TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL DEFAULT 0
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// GetGuildConfig retrieves guild configuration
func (s *SQLite) GetGuildConfig(ctx context.Context, guildID string) (*GuildConfig, error) {
	var (
		cfg               GuildConfig
		allowed, excluded string
		escalation, war   sql.NullString
		updatedAt         int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT guild_id, allowed_role_ids, excluded_role_ids, escalation_role_id, war_channel_id,
		        audit_channel_id, updated_by, updated_at
		 FROM guild_config WHERE guild_id = ?`,
		guildID,
	).Scan(&cfg.GuildID, &allowed, &excluded, &escalation, &war, &cfg.AuditChannelID, &cfg.UpdatedBy, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load guild config %s: %w", guildID, err)
	}

	cfg.AllowedRoleIDs = parseIDList(allowed)
	cfg.ExcludedRoleIDs = parseIDList(excluded)
	cfg.EscalationRoleID = slotFromNull(escalation)
	cfg.WarChannelID = slotFromNull(war)
	cfg.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	cfg.normalize()
	return &cfg, nil
}

// SaveGuildConfig creates or replaces guild configuration
func (s *SQLite) SaveGuildConfig(ctx context.Context, cfg *GuildConfig) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO guild_config (guild_id, allowed_role_ids, excluded_role_ids, escalation_role_id,
		                                      war_channel_id, audit_channel_id, updated_by, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.GuildID, serializeIDList(cfg.AllowedRoleIDs), serializeIDList(cfg.ExcludedRoleIDs),
		slotToNull(cfg.EscalationRoleID), slotToNull(cfg.WarChannelID),
		cfg.AuditChannelID, cfg.UpdatedBy, cfg.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save guild config %s: %w", cfg.GuildID, err)
	}
	return nil
}

// parseIDList parses a comma-separated id list, dropping malformed entries
func parseIDList(s string) []string {
	ids := []string{}
	if s == "" {
		return ids
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return append(ids, util.FilterSnowflakes(parts)...)
}

// serializeIDList joins ids into a comma-separated string
func serializeIDList(ids []string) string {
	return strings.Join(ids, ",")
}

func slotFromNull(v sql.NullString) Slot {
	if !v.Valid {
		return Slot{}
	}
	return Pick(v.String)
}

func slotToNull(s Slot) sql.NullString {
	return sql.NullString{String: s.ID, Valid: s.Chosen}
}

package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"
)

// Slot is an optional single identifier with three states: never chosen (zero
// value), explicitly none (Chosen with an empty ID), and set.
type Slot struct {
	ID     string
	Chosen bool
}

// None is an explicitly empty slot.
func None() Slot { return Slot{Chosen: true} }

// Pick is a slot holding id. An empty id yields None.
func Pick(id string) Slot { return Slot{ID: id, Chosen: true} }

// Value returns the id and whether one is set.
func (s Slot) Value() (string, bool) {
	return s.ID, s.ID != ""
}

// IsNone reports whether the slot was explicitly cleared.
func (s Slot) IsNone() bool {
	return s.Chosen && s.ID == ""
}

// MarshalJSON encodes an unchosen slot as null and a chosen one as its id.
func (s Slot) MarshalJSON() ([]byte, error) {
	if !s.Chosen {
		return []byte("null"), nil
	}
	return json.Marshal(s.ID)
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Slot{}
		return nil
	}
	var id snowflake
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*s = Pick(string(id))
	return nil
}

// snowflake decodes an id written either as a string or as a bare integer,
// the form older config files use.
type snowflake string

func (f *snowflake) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] != '"' {
		if _, err := strconv.ParseUint(string(data), 10, 64); err != nil {
			return fmt.Errorf("invalid id %s", data)
		}
		*f = snowflake(data)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*f = snowflake(str)
	return nil
}

func snowflakes(in []snowflake) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, id := range in {
		out[i] = string(id)
	}
	return out
}

// GuildConfig is the committed access configuration of one guild.
type GuildConfig struct {
	GuildID          string    `json:"guild_id"`
	AllowedRoleIDs   []string  `json:"allowed_role_ids"`
	ExcludedRoleIDs  []string  `json:"excluded_role_ids"`
	EscalationRoleID Slot      `json:"admiral_role_id"`
	WarChannelID     Slot      `json:"war_channel_id"`
	AuditChannelID   string    `json:"log_channel_id"`
	UpdatedBy        string    `json:"updated_by"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// UnmarshalJSON also reads the older layout: integer ids, no guild_id and
// updated_at as unix seconds.
func (c *GuildConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		GuildID          snowflake       `json:"guild_id"`
		AllowedRoleIDs   []snowflake     `json:"allowed_role_ids"`
		ExcludedRoleIDs  []snowflake     `json:"excluded_role_ids"`
		EscalationRoleID Slot            `json:"admiral_role_id"`
		WarChannelID     Slot            `json:"war_channel_id"`
		AuditChannelID   *snowflake      `json:"log_channel_id"`
		UpdatedBy        *snowflake      `json:"updated_by"`
		UpdatedAt        json.RawMessage `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := GuildConfig{
		GuildID:          string(raw.GuildID),
		AllowedRoleIDs:   snowflakes(raw.AllowedRoleIDs),
		ExcludedRoleIDs:  snowflakes(raw.ExcludedRoleIDs),
		EscalationRoleID: raw.EscalationRoleID,
		WarChannelID:     raw.WarChannelID,
	}
	if raw.AuditChannelID != nil {
		out.AuditChannelID = string(*raw.AuditChannelID)
	}
	if raw.UpdatedBy != nil {
		out.UpdatedBy = string(*raw.UpdatedBy)
	}
	at, err := decodeTime(raw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updated_at: %w", err)
	}
	out.UpdatedAt = at
	*c = out
	return nil
}

func decodeTime(data json.RawMessage) (time.Time, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return time.Time{}, nil
	}
	if data[0] == '"' {
		var t time.Time
		err := json.Unmarshal(data, &t)
		return t, err
	}
	var secs json.Number
	if err := json.Unmarshal(data, &secs); err != nil {
		return time.Time{}, err
	}
	n, err := secs.Int64()
	if err != nil {
		f, ferr := secs.Float64()
		if ferr != nil {
			return time.Time{}, err
		}
		n = int64(f)
	}
	return time.Unix(n, 0).UTC(), nil
}

// Clone returns a deep copy.
func (c *GuildConfig) Clone() *GuildConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.AllowedRoleIDs = slices.Clone(c.AllowedRoleIDs)
	out.ExcludedRoleIDs = slices.Clone(c.ExcludedRoleIDs)
	return &out
}

// normalize makes empty lists non-nil so a stored empty list reads back equal.
func (c *GuildConfig) normalize() {
	if c.AllowedRoleIDs == nil {
		c.AllowedRoleIDs = []string{}
	}
	if c.ExcludedRoleIDs == nil {
		c.ExcludedRoleIDs = []string{}
	}
	c.UpdatedAt = c.UpdatedAt.UTC().Truncate(time.Second)
}

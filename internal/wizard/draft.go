package wizard

import (
	"fmt"
	"slices"
	"time"

	"github.com/TripodGG/aegis-discord-bot/internal/database"
)

// Field is one editable setting of the panel.
type Field int

const (
	FieldAllowedRoles Field = iota
	FieldExcludedRoles
	FieldEscalationRole
	FieldWarChannel
	FieldAuditChannel
)

// Fields lists every field in panel order.
var Fields = []Field{FieldAllowedRoles, FieldExcludedRoles, FieldEscalationRole, FieldWarChannel, FieldAuditChannel}

func (f Field) String() string {
	switch f {
	case FieldAllowedRoles:
		return "allowed"
	case FieldExcludedRoles:
		return "excluded"
	case FieldEscalationRole:
		return "admiral"
	case FieldWarChannel:
		return "war"
	case FieldAuditChannel:
		return "log"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ParseField is the inverse of Field.String.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if f.String() == s {
			return f, true
		}
	}
	return 0, false
}

// Draft is the uncommitted configuration of one session.
type Draft struct {
	AllowedRoleIDs  []string
	ExcludedRoleIDs []string
	EscalationRole  database.Slot
	WarChannel      database.Slot
	AuditChannelID  string
}

// NewDraft copies the committed config, or starts empty when cfg is nil.
func NewDraft(cfg *database.GuildConfig) Draft {
	if cfg == nil {
		return Draft{}
	}
	return Draft{
		AllowedRoleIDs:  slices.Clone(cfg.AllowedRoleIDs),
		ExcludedRoleIDs: slices.Clone(cfg.ExcludedRoleIDs),
		EscalationRole:  cfg.EscalationRoleID,
		WarChannel:      cfg.WarChannelID,
		AuditChannelID:  cfg.AuditChannelID,
	}
}

// apply buffers a picker submission. values must come from valid, the option
// values offered for the field.
func (d *Draft) apply(field Field, values []string, valid map[string]bool) error {
	for _, v := range values {
		if !valid[v] {
			return &ValidationError{Field: field, Message: fmt.Sprintf("%q is not one of the offered choices.", v)}
		}
	}

	switch field {
	case FieldAllowedRoles:
		d.AllowedRoleIDs = dedupe(values)
	case FieldExcludedRoles:
		d.ExcludedRoleIDs = dedupe(values)
	case FieldEscalationRole:
		slot, err := singleChoice(field, values)
		if err != nil {
			return err
		}
		d.EscalationRole = slot
	case FieldWarChannel:
		slot, err := singleChoice(field, values)
		if err != nil {
			return err
		}
		d.WarChannel = slot
	case FieldAuditChannel:
		if len(values) > 1 {
			return &ValidationError{Field: field, Message: "Pick a single log channel."}
		}
		d.AuditChannelID = ""
		if len(values) == 1 {
			d.AuditChannelID = values[0]
		}
	default:
		return fmt.Errorf("unknown field %d", field)
	}
	return nil
}

// singleChoice maps an optional picker submission: nothing picked leaves the
// slot unchosen, the none sentinel clears it.
func singleChoice(field Field, values []string) (database.Slot, error) {
	switch {
	case len(values) == 0:
		return database.Slot{}, nil
	case len(values) > 1:
		return database.Slot{}, &ValidationError{Field: field, Message: "Pick a single option."}
	case values[0] == NoneValue:
		return database.None(), nil
	default:
		return database.Pick(values[0]), nil
	}
}

// Config assembles the record written on save.
func (d Draft) Config(guildID, updatedBy string, at time.Time) *database.GuildConfig {
	allowed := slices.Clone(d.AllowedRoleIDs)
	if allowed == nil {
		allowed = []string{}
	}
	excluded := slices.Clone(d.ExcludedRoleIDs)
	if excluded == nil {
		excluded = []string{}
	}
	return &database.GuildConfig{
		GuildID:          guildID,
		AllowedRoleIDs:   allowed,
		ExcludedRoleIDs:  excluded,
		EscalationRoleID: d.EscalationRole,
		WarChannelID:     d.WarChannel,
		AuditChannelID:   d.AuditChannelID,
		UpdatedBy:        updatedBy,
		UpdatedAt:        at.UTC().Truncate(time.Second),
	}
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

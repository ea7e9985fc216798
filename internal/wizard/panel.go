package wizard

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

const (
	// NoneValue is the option value that explicitly clears an optional field.
	NoneValue = "none"
	// MaxOptions is the most choices one picker can carry.
	MaxOptions = 25

	maxLabel = 95
)

// Option is one selectable choice.
type Option struct {
	Label   string
	Value   string
	Default bool
}

// Picker is the option set of one field.
type Picker struct {
	Field       Field
	Placeholder string
	Options     []Option
	MinValues   int
	MaxValues   int
}

// Panel is every picker of the setup panel, in Fields order.
type Panel struct {
	Pickers []Picker
}

// Picker returns the picker for f.
func (p Panel) Picker(f Field) (Picker, bool) {
	for _, pk := range p.Pickers {
		if pk.Field == f {
			return pk, true
		}
	}
	return Picker{}, false
}

// BuildPanel derives the pickers from live guild state and the draft. Roles are
// listed highest first without the @everyone role; channels keep list order.
// Draft ids that no longer resolve are simply not preselected; ids that do
// resolve are always offered, even when they rank outside the option cap.
func BuildPanel(guildID string, roles []platform.Role, channels []platform.Channel, d Draft) Panel {
	roles = sortedRoles(guildID, roles)
	channels = sortedChannels(channels)

	allowed := roleOptions(roles, d.AllowedRoleIDs, MaxOptions)
	excluded := roleOptions(roles, d.ExcludedRoleIDs, MaxOptions)

	escalation := []Option{{Label: "None", Value: NoneValue, Default: d.EscalationRole.IsNone()}}
	escalation = append(escalation, roleOptions(roles, []string{d.EscalationRole.ID}, MaxOptions-1)...)

	war := []Option{{Label: "None", Value: NoneValue, Default: d.WarChannel.IsNone()}}
	war = append(war, channelOptions(channels, d.WarChannel.ID, MaxOptions-1)...)

	audit := channelOptions(channels, d.AuditChannelID, MaxOptions)

	return Panel{Pickers: []Picker{
		{Field: FieldAllowedRoles, Placeholder: "Allowed Roles (who can use commands)", Options: allowed, MinValues: 0, MaxValues: len(allowed)},
		{Field: FieldExcludedRoles, Placeholder: "Excluded Roles (block these)", Options: excluded, MinValues: 0, MaxValues: len(excluded)},
		{Field: FieldEscalationRole, Placeholder: "Admiral Role (optional, pinged on /declare)", Options: escalation, MinValues: 0, MaxValues: 1},
		{Field: FieldWarChannel, Placeholder: "War Declaration Channel (optional)", Options: war, MinValues: 0, MaxValues: 1},
		{Field: FieldAuditChannel, Placeholder: "Log Channel (required, recommend private)", Options: audit, MinValues: 1, MaxValues: 1},
	}}
}

// validValues indexes the option values of every picker.
func (p Panel) validValues() map[Field]map[string]bool {
	out := make(map[Field]map[string]bool, len(p.Pickers))
	for _, pk := range p.Pickers {
		vals := make(map[string]bool, len(pk.Options))
		for _, o := range pk.Options {
			vals[o.Value] = true
		}
		out[pk.Field] = vals
	}
	return out
}

func sortedRoles(guildID string, roles []platform.Role) []platform.Role {
	out := make([]platform.Role, 0, len(roles))
	for _, r := range roles {
		if r.ID == guildID {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b platform.Role) int {
		return cmp.Compare(b.Position, a.Position)
	})
	return out
}

func sortedChannels(channels []platform.Channel) []platform.Channel {
	out := slices.Clone(channels)
	slices.SortStableFunc(out, func(a, b platform.Channel) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return out
}

func roleOptions(roles []platform.Role, selected []string, limit int) []Option {
	shown := window(roles, func(r platform.Role) string { return r.ID }, selected, limit)
	opts := make([]Option, 0, len(shown))
	for _, r := range shown {
		opts = append(opts, Option{
			Label:   truncate(r.Name),
			Value:   r.ID,
			Default: slices.Contains(selected, r.ID),
		})
	}
	return opts
}

func channelOptions(channels []platform.Channel, selected string, limit int) []Option {
	shown := window(channels, func(c platform.Channel) string { return c.ID }, []string{selected}, limit)
	opts := make([]Option, 0, len(shown))
	for _, c := range shown {
		opts = append(opts, Option{
			Label:   truncate("#" + c.Name),
			Value:   c.ID,
			Default: selected != "" && c.ID == selected,
		})
	}
	return opts
}

// window keeps at most limit items in their original order. Items whose id is
// selected claim a place first so a committed choice is always offered.
func window[T any](items []T, id func(T) string, selected []string, limit int) []T {
	keep := make(map[string]bool, limit)
	for _, it := range items {
		if len(keep) == limit {
			break
		}
		if k := id(it); k != "" && slices.Contains(selected, k) {
			keep[k] = true
		}
	}
	for _, it := range items {
		if len(keep) == limit {
			break
		}
		keep[id(it)] = true
	}
	out := make([]T, 0, len(keep))
	for _, it := range items {
		if keep[id(it)] {
			out = append(out, it)
		}
	}
	return out
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxLabel {
		return s
	}
	r := []rune(s)
	return string(r[:maxLabel])
}

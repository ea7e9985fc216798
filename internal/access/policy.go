// Package access decides whether a member may invoke a privileged command.
package access

import (
	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

// Reason explains a denial.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotConfigured
	ReasonMissingRole
	ReasonExcluded
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "allowed"
	case ReasonNotConfigured:
		return "not configured"
	case ReasonMissingRole:
		return "missing required role"
	case ReasonExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// Message is the text shown privately to a denied member.
func (r Reason) Message() string {
	switch r {
	case ReasonNotConfigured:
		return "No allowed roles are configured yet. Ask an admin to run `/setup`."
	case ReasonMissingRole:
		return "You don't have a required role to use this command."
	case ReasonExcluded:
		return "Your role is excluded from using this command."
	default:
		return ""
	}
}

// CanInvoke applies the allow/deny rules in order: nothing allowed, no allowed
// role held, any excluded role held. A nil cfg is treated as not configured.
func CanInvoke(member platform.Member, cfg *database.GuildConfig) (bool, Reason) {
	if cfg == nil || len(cfg.AllowedRoleIDs) == 0 {
		return false, ReasonNotConfigured
	}
	if !member.HasAnyRole(cfg.AllowedRoleIDs) {
		return false, ReasonMissingRole
	}
	if member.HasAnyRole(cfg.ExcludedRoleIDs) {
		return false, ReasonExcluded
	}
	return true, ReasonNone
}

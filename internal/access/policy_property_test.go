package access

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

func roleIDs() *rapid.Generator[[]string] {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) string {
		return fmt.Sprintf("R%d", rapid.IntRange(1, 12).Draw(t, "role"))
	}), 0, 8)
}

func TestProperty_EmptyAllowedDeniesEveryone(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		member := platform.Member{
			UserID:        "u",
			RoleIDs:       roleIDs().Draw(rt, "memberRoles"),
			Administrator: rapid.Bool().Draw(rt, "admin"),
		}
		cfg := &database.GuildConfig{ExcludedRoleIDs: roleIDs().Draw(rt, "excluded")}

		ok, reason := CanInvoke(member, cfg)
		if ok || reason != ReasonNotConfigured {
			rt.Fatalf("expected not configured, got ok=%v reason=%v", ok, reason)
		}
	})
}

func TestProperty_ExclusionWins(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		shared := fmt.Sprintf("R%d", rapid.IntRange(1, 12).Draw(rt, "shared"))
		cfg := &database.GuildConfig{
			AllowedRoleIDs:  append(roleIDs().Draw(rt, "allowed"), shared),
			ExcludedRoleIDs: append(roleIDs().Draw(rt, "excluded"), shared),
		}
		member := platform.Member{UserID: "u", RoleIDs: append(roleIDs().Draw(rt, "memberRoles"), shared)}

		ok, reason := CanInvoke(member, cfg)
		if ok || reason != ReasonExcluded {
			rt.Fatalf("expected excluded, got ok=%v reason=%v", ok, reason)
		}
	})
}

func TestProperty_AllowedIffHoldsAllowedAndNoExcluded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := &database.GuildConfig{
			AllowedRoleIDs:  roleIDs().Draw(rt, "allowed"),
			ExcludedRoleIDs: roleIDs().Draw(rt, "excluded"),
		}
		member := platform.Member{UserID: "u", RoleIDs: roleIDs().Draw(rt, "memberRoles")}

		want := len(cfg.AllowedRoleIDs) > 0 &&
			member.HasAnyRole(cfg.AllowedRoleIDs) &&
			!member.HasAnyRole(cfg.ExcludedRoleIDs)

		ok, _ := CanInvoke(member, cfg)
		if ok != want {
			rt.Fatalf("CanInvoke=%v, want %v", ok, want)
		}
	})
}

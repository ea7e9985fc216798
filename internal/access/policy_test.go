package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

func TestCanInvoke(t *testing.T) {
	cfg := &database.GuildConfig{
		AllowedRoleIDs:  []string{"R1"},
		ExcludedRoleIDs: []string{"R2"},
	}

	tests := []struct {
		name   string
		roles  []string
		cfg    *database.GuildConfig
		ok     bool
		reason Reason
	}{
		{"no config", []string{"R1"}, nil, false, ReasonNotConfigured},
		{"empty allowed", []string{"R1"}, &database.GuildConfig{ExcludedRoleIDs: []string{"R1"}}, false, ReasonNotConfigured},
		{"no roles", nil, cfg, false, ReasonMissingRole},
		{"other role", []string{"R9"}, cfg, false, ReasonMissingRole},
		{"excluded only", []string{"R2"}, cfg, false, ReasonMissingRole},
		{"allowed and excluded", []string{"R1", "R2"}, cfg, false, ReasonExcluded},
		{"allowed", []string{"R9", "R1"}, cfg, true, ReasonNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := CanInvoke(platform.Member{UserID: "u", RoleIDs: tt.roles}, tt.cfg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestAdministratorGetsNoBypass(t *testing.T) {
	ok, reason := CanInvoke(platform.Member{UserID: "u", Administrator: true}, &database.GuildConfig{AllowedRoleIDs: []string{"R1"}})
	assert.False(t, ok)
	assert.Equal(t, ReasonMissingRole, reason)
}

func TestReasonText(t *testing.T) {
	assert.Equal(t, "excluded", ReasonExcluded.String())
	assert.Contains(t, ReasonNotConfigured.Message(), "/setup")
	assert.Empty(t, ReasonNone.Message())
}

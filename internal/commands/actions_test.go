package commands

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/TripodGG/aegis-discord-bot/internal/access"
	"github.com/TripodGG/aegis-discord-bot/internal/flow"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

func TestRefusal(t *testing.T) {
	tests := []struct {
		err  error
		want string
		ok   bool
	}{
		{&flow.DeniedError{Reason: access.ReasonExcluded}, access.ReasonExcluded.Message(), true},
		{flow.ErrNotConfigured, "No configuration saved yet. Ask an admin to run `/setup`.", true},
		{fmt.Errorf("%w: bots cannot be reported", flow.ErrInvalidTarget), "❌ Invalid target: bots cannot be reported.", true},
		{flow.ErrExpired, "⏱️ This form has expired. Run the command again.", true},
		{errors.New("boom"), "", false},
	}
	for _, tt := range tests {
		got, ok := refusal(tt.err)
		assert.Equal(t, tt.ok, ok, tt.err.Error())
		assert.Equal(t, tt.want, got)
	}
}

func TestPostedMessage(t *testing.T) {
	out := flow.Outcome{
		Receipts: []platform.Receipt{
			{GuildID: "1", ChannelID: "2", MessageID: "3"},
			{GuildID: "1", ChannelID: "4", MessageID: "5"},
		},
		Warnings: []string{"Could not post in <#6>."},
	}
	assert.Equal(t,
		"Posted in <#2> (jump: https://discord.com/channels/1/2/3) and <#4> (jump: https://discord.com/channels/1/4/5).\n⚠️ Could not post in <#6>.",
		postedMessage(out))
}

func TestResolvedUser(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "offender", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
			{Name: "target_role", Type: discordgo.ApplicationCommandOptionRole, Value: "43"},
		},
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
			Users: map[string]*discordgo.User{"42": {ID: "42", Bot: true}},
		},
	}
	m := resolvedUser(data, "offender")
	assert.Equal(t, "42", m.UserID)
	assert.True(t, m.Bot)
	assert.Equal(t, "43", optionID(data, "target_role"))
	assert.Empty(t, optionID(data, "missing"))
}

func TestMemberFrom(t *testing.T) {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		GuildID: "1",
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: "9"},
			Roles:       []string{"5"},
			Permissions: discordgo.PermissionAdministrator | discordgo.PermissionSendMessages,
		},
	}}
	m, ok := memberFrom(nil, i)
	assert.True(t, ok)
	assert.Equal(t, platform.Member{UserID: "9", RoleIDs: []string{"5"}, Administrator: true}, m)

	_, ok = memberFrom(nil, &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "9"}}})
	assert.False(t, ok)
}

func TestCommandDefinitions(t *testing.T) {
	names := map[string]*discordgo.ApplicationCommand{}
	for _, c := range GetAllCommands() {
		names[c.Name] = c
	}
	assert.Len(t, names, 4)
	assert.Equal(t, int64(discordgo.PermissionAdministrator), *names["setup"].DefaultMemberPermissions)
	assert.Len(t, names["roe"].Options, 2)
	assert.True(t, names["declare"].Options[0].Required)
}

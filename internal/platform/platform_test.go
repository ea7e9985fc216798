package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemberHasAnyRole(t *testing.T) {
	m := Member{UserID: "1", RoleIDs: []string{"10", "20"}}

	assert.True(t, m.HasAnyRole([]string{"30", "20"}))
	assert.False(t, m.HasAnyRole([]string{"30"}))
	assert.False(t, m.HasAnyRole(nil))
	assert.False(t, Member{}.HasAnyRole([]string{"10"}))
}

func TestMentionFormatting(t *testing.T) {
	assert.Equal(t, "<@&5>", RoleMention("5"))
	assert.Equal(t, "<@5>", UserMention("5"))
	assert.Equal(t, "<#5>", ChannelMention("5"))
	assert.Equal(t, "<t:1700000000:F>", Timestamp(time.Unix(1700000000, 0), "F"))
}

func TestReceiptJumpURL(t *testing.T) {
	r := Receipt{GuildID: "1", ChannelID: "2", MessageID: "3"}
	assert.Equal(t, "https://discord.com/channels/1/2/3", r.JumpURL())
}

func TestFindRoleAndChannel(t *testing.T) {
	roles := []Role{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}
	r, ok := FindRole(roles, "2")
	assert.True(t, ok)
	assert.Equal(t, "b", r.Name)
	_, ok = FindRole(roles, "")
	assert.False(t, ok)

	_, ok = FindChannel([]Channel{{ID: "9"}}, "8")
	assert.False(t, ok)
}

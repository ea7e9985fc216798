package database

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotStates(t *testing.T) {
	var unset Slot
	_, ok := unset.Value()
	assert.False(t, ok)
	assert.False(t, unset.IsNone())

	assert.True(t, None().IsNone())
	assert.True(t, Pick("").IsNone())

	id, ok := Pick("7").Value()
	assert.True(t, ok)
	assert.Equal(t, "7", id)
}

func TestSlotJSON(t *testing.T) {
	for _, s := range []Slot{{}, None(), Pick("42")} {
		data, err := json.Marshal(s)
		require.NoError(t, err)

		var back Slot
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, s, back, string(data))
	}

	var legacy Slot
	require.NoError(t, json.Unmarshal([]byte(`1234567890123456789`), &legacy))
	assert.Equal(t, Pick("1234567890123456789"), legacy)
	assert.Error(t, json.Unmarshal([]byte(`-17`), new(Slot)))
	assert.Error(t, json.Unmarshal([]byte(`true`), new(Slot)))
}

func TestCloneIsDeep(t *testing.T) {
	c := fullConfig()
	d := c.Clone()
	d.AllowedRoleIDs[0] = "changed"
	assert.NotEqual(t, c.AllowedRoleIDs[0], d.AllowedRoleIDs[0])

	var nilCfg *GuildConfig
	assert.Nil(t, nilCfg.Clone())
}

package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TripodGG/aegis-discord-bot/internal/config"
	"github.com/TripodGG/aegis-discord-bot/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Bot.Token = "test-token"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "aegis.db")
	cfg.Logging.Level = "error"
	return cfg
}

func TestInitializeWiresComponents(t *testing.T) {
	prev := logging.SetGlobalLogger(nil)
	t.Cleanup(func() { logging.SetGlobalLogger(prev) })

	b := New(testConfig(t))
	require.NoError(t, b.Initialize(context.Background()))

	c := b.Components
	require.NotNil(t, c)
	assert.NotNil(t, c.Store)
	assert.NotNil(t, c.Session)
	assert.NotNil(t, c.Wizards)
	assert.NotNil(t, c.Flows)
	assert.NotNil(t, c.Handler)

	require.NoError(t, b.Shutdown())
}

func TestInitializeRejectsMissingToken(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bot.Token = ""
	err := New(cfg).Initialize(context.Background())
	assert.ErrorIs(t, err, config.ErrMissingToken)
}

func TestStartRequiresInitialize(t *testing.T) {
	assert.Error(t, New(testConfig(t)).Start())
}

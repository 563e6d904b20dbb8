package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "auctions:changes", cfg.ChangeStream)
	assert.Equal(t, "auctions:dlq", cfg.DeadLetterStream)
	assert.Equal(t, 3, cfg.EventMaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.SweepInterval)
	assert.Equal(t, time.Hour, cfg.DefaultAuctionDuration)
	assert.Equal(t, uint16(8085), cfg.HttpServerPort)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("AUCTION_CHANGE_STREAM", "test:changes")
	t.Setenv("EVENT_MAX_ATTEMPTS", "5")
	t.Setenv("SWEEP_INTERVAL", "2s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test:changes", cfg.ChangeStream)
	assert.Equal(t, 5, cfg.EventMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.SweepInterval)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("EVENT_MAX_ATTEMPTS", "0")
	_, err := LoadConfig()
	assert.Error(t, err)
}

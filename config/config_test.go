package config

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "intentlane", cfg.DomainName)
	assert.Equal(t, "1", cfg.DomainVersion)
	assert.Equal(t, uint64(1), cfg.NetworkID)
	assert.Equal(t, big.NewInt(1), cfg.MinimumBond)
	assert.Equal(t, 10*time.Millisecond, cfg.DispatchTimeUnit)
	assert.Equal(t, 100, cfg.BenchmarkIntents)
	assert.Equal(t, 5, cfg.BenchmarkSolvers)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NETWORK_ID", "31337")
	t.Setenv("MINIMUM_BOND", "250")
	t.Setenv("DISPATCH_TIME_UNIT_MS", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, uint64(31337), cfg.NetworkID)
	assert.Equal(t, big.NewInt(250), cfg.MinimumBond)
	assert.Equal(t, time.Millisecond, cfg.DispatchTimeUnit)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	t.Setenv("NETWORK_ID", "not-a-number")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigInvalidBond(t *testing.T) {
	t.Setenv("MINIMUM_BOND", "0")

	_, err := LoadConfig()
	assert.Error(t, err)
}

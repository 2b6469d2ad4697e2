package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// check settings object is initialised
func TestInitialiseSettings(t *testing.T) {
	tSettings := NewSettings()

	require.NotNil(t, tSettings.ChainCfgParams)
	assert.Equal(t, uint8(1), tSettings.ChainCfgParams.CoinbaseVersion)
	assert.NotEmpty(t, tSettings.Validator.ScriptInterpreter)
	assert.Positive(t, tSettings.Validator.SigCheckConcurrency)
	assert.NotEmpty(t, tSettings.UtxoStore.BadgerDir)
}

func TestHelpersDefaults(t *testing.T) {
	assert.Equal(t, "fallback", getString("settings_test_missing_key", "fallback"))
	assert.Equal(t, 42, getInt("settings_test_missing_key", 42))
	assert.True(t, getBool("settings_test_missing_key", true))
	assert.InDelta(t, 0.5, getFloat64("settings_test_missing_key", 0.5), 1e-9)
}

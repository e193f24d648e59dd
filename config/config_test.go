package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/urcl-vm/urcl-vm/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.EqualValues(t, 8, cfg.Execution.DefaultBits)
	assert.True(t, cfg.Display.ColorOutput)
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.DefaultConfig()
	cfg.Execution.MaxInstructions = 42
	cfg.Execution.DefaultBits = 16
	cfg.Trace.Enabled = true

	require.NoError(t, cfg.SaveTo(path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.EqualValues(t, 42, loaded.Execution.MaxInstructions)
	assert.EqualValues(t, 16, loaded.Execution.DefaultBits)
	assert.True(t, loaded.Trace.Enabled)
}

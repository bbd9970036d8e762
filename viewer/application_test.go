package viewer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loupe3d/loupe/viewer/core"
)

func TestLoadApplicationConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "Loupe", config.Name)
	assert.Equal(t, uint32(1280), config.StartWidth)
	assert.Equal(t, float32(45.0), config.FieldOfView)
	assert.True(t, config.WatchFiles)
}

func TestLoadApplicationConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loupe.toml")
	content := `
name = "Inspector"
start_width = 1920
log_level = "debug"
environment = "venice-sunset"

[presets.office]
url = "https://example.com/office.hdr"
label = "Office"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadApplicationConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Inspector", config.Name)
	assert.Equal(t, uint32(1920), config.StartWidth)
	// Untouched keys keep their defaults.
	assert.Equal(t, uint32(720), config.StartHeight)
	assert.Equal(t, "venice-sunset", config.Environment)
	assert.Equal(t, core.DebugLevel, config.ParsedLogLevel())

	presets := config.SessionPresets()
	require.Contains(t, presets, "office")
	assert.Equal(t, "Office", presets["office"].Label)
}

func TestLoadApplicationConfigRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = [unclosed"), 0o644))

	_, err := LoadApplicationConfig(path)
	assert.Error(t, err)
}

func TestParsedLogLevelFallsBackToInfo(t *testing.T) {
	config := DefaultApplicationConfig()
	config.LogLevel = "chatty"

	assert.Equal(t, core.InfoLevel, config.ParsedLogLevel())
}

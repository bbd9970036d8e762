package viewer

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/loupe3d/loupe/viewer/core"
	"github.com/loupe3d/loupe/viewer/systems"
)

// PresetConfig declares an environment preset in the config file.
type PresetConfig struct {
	URL   string `toml:"url"`
	Label string `toml:"label"`
}

type ApplicationConfig struct {
	// The application name used in windowing and log output.
	Name string `toml:"name"`
	// Window starting position, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting size.
	StartWidth  uint32 `toml:"start_width"`
	StartHeight uint32 `toml:"start_height"`
	LogLevel    string `toml:"log_level"`

	// FieldOfView is the camera's vertical FOV in degrees.
	FieldOfView      float32 `toml:"field_of_view"`
	FramingMargin    float32 `toml:"framing_margin"`
	MinOrbitDistance float32 `toml:"min_orbit_distance"`
	MaxOrbitDistance float32 `toml:"max_orbit_distance"`

	// Environment is a preset key applied at startup. Empty means none.
	Environment string                  `toml:"environment"`
	Presets     map[string]PresetConfig `toml:"presets"`

	// WatchFiles reloads the current model when its backing file changes.
	WatchFiles bool `toml:"watch_files"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:             "Loupe",
		StartPosX:        100,
		StartPosY:        100,
		StartWidth:       1280,
		StartHeight:      720,
		LogLevel:         "info",
		FieldOfView:      45.0,
		FramingMargin:    systems.DefaultFramingMargin,
		MinOrbitDistance: 0.1,
		MaxOrbitDistance: 100.0,
		WatchFiles:       true,
	}
}

// LoadApplicationConfig reads a TOML config file on top of the defaults.
// A missing file is not an error; the defaults apply.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config '%s': %w", path, err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config '%s': %w", path, err)
	}
	return config, nil
}

func (ac *ApplicationConfig) ParsedLogLevel() core.LogLevel {
	level, err := log.ParseLevel(ac.LogLevel)
	if err != nil {
		return core.InfoLevel
	}
	return level
}

// SessionPresets converts the config preset table to the session form.
func (ac *ApplicationConfig) SessionPresets() map[string]systems.EnvironmentPreset {
	if len(ac.Presets) == 0 {
		return nil
	}
	presets := make(map[string]systems.EnvironmentPreset, len(ac.Presets))
	for key, preset := range ac.Presets {
		presets[key] = systems.EnvironmentPreset{URL: preset.URL, Label: preset.Label}
	}
	return presets
}

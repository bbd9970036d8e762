package systems

import (
	"context"
	"fmt"

	"github.com/loupe3d/loupe/viewer/core"
	"github.com/loupe3d/loupe/viewer/graphics"
	"github.com/loupe3d/loupe/viewer/scene"
)

// EnvironmentPreset is a curated, remotely hosted environment map.
type EnvironmentPreset struct {
	URL   string
	Label string
}

// DefaultEnvironmentPresets returns the built-in preset table. Config can
// add to or shadow these.
func DefaultEnvironmentPresets() map[string]EnvironmentPreset {
	return map[string]EnvironmentPreset{
		"venice-sunset": {
			URL:   "https://storage.googleapis.com/donmccurdy-static/venice_sunset_1k.hdr",
			Label: "Venice Sunset",
		},
		"footprint-court": {
			URL:   "https://storage.googleapis.com/donmccurdy-static/footprint_court_2k.hdr",
			Label: "Footprint Court",
		},
	}
}

type EnvironmentSystemConfig struct {
	Presets map[string]EnvironmentPreset
}

type environmentCompletion struct {
	generation uint64
	source     graphics.Source
	env        *scene.EnvironmentMap
	err        error
}

// EnvironmentSystem owns the current environment map. Replacement is
// apply-then-dispose: the previous map is released only after the new one
// has been handed to the device, so a failed apply leaves the old
// environment intact.
type EnvironmentSystem struct {
	config   *EnvironmentSystemConfig
	device   graphics.Device
	loader   graphics.EnvironmentLoader
	disposer *DisposerSystem
	model    *ModelSystem

	current     *scene.EnvironmentMap
	background  bool
	generation  uint64
	completions chan *environmentCompletion
}

func NewEnvironmentSystem(config *EnvironmentSystemConfig, device graphics.Device,
	loader graphics.EnvironmentLoader, disposer *DisposerSystem, model *ModelSystem) (*EnvironmentSystem, error) {
	if device == nil || loader == nil || disposer == nil {
		return nil, fmt.Errorf("func NewEnvironmentSystem - device, loader and disposer must not be nil")
	}
	if config == nil {
		config = &EnvironmentSystemConfig{}
	}
	presets := DefaultEnvironmentPresets()
	for key, preset := range config.Presets {
		presets[key] = preset
	}
	config.Presets = presets
	return &EnvironmentSystem{
		config:      config,
		device:      device,
		loader:      loader,
		disposer:    disposer,
		model:       model,
		background:  true,
		completions: make(chan *environmentCompletion, 4),
	}, nil
}

func (es *EnvironmentSystem) Shutdown() error {
	if es.current != nil {
		es.disposer.DisposeEnvironment(es.current)
		es.current = nil
	}
	return nil
}

func (es *EnvironmentSystem) Current() *scene.EnvironmentMap { return es.current }
func (es *EnvironmentSystem) BackgroundEnabled() bool        { return es.background }

// Presets lists the available preset keys.
func (es *EnvironmentSystem) Presets() map[string]EnvironmentPreset { return es.config.Presets }

// Load requests an asynchronous environment replacement.
func (es *EnvironmentSystem) Load(source graphics.Source) {
	es.generation++
	generation := es.generation
	core.LogInfo("loading environment '%s'", source.Name)

	go func() {
		env, err := es.loader.Load(context.Background(), source)
		es.completions <- &environmentCompletion{
			generation: generation,
			source:     source,
			env:        env,
			err:        err,
		}
	}()
}

// LoadPreset resolves a preset key and loads it. Unknown keys are logged
// and ignored; the current environment is untouched.
func (es *EnvironmentSystem) LoadPreset(key string) {
	preset, ok := es.config.Presets[key]
	if !ok {
		core.LogWarn("unknown environment preset '%s'", key)
		return
	}
	es.Load(graphics.Source{URL: preset.URL, Name: preset.Label})
}

// SetBackgroundEnabled toggles whether the environment is drawn as the
// visible background. Lighting contribution is unaffected.
func (es *EnvironmentSystem) SetBackgroundEnabled(enabled bool) {
	es.background = enabled
	if es.current == nil {
		return
	}
	if err := es.device.ApplyEnvironment(es.current, es.background); err != nil {
		core.LogError("failed to re-apply environment '%s': %s", es.current.Name, err)
	}
}

// Pump drains finished loads without blocking.
func (es *EnvironmentSystem) Pump() {
	for {
		select {
		case completion := <-es.completions:
			es.finish(completion)
		default:
			return
		}
	}
}

func (es *EnvironmentSystem) finish(completion *environmentCompletion) {
	if completion.generation != es.generation {
		core.LogDebug("discarding superseded environment '%s'", completion.source.Name)
		if completion.env != nil {
			es.disposer.DisposeEnvironment(completion.env)
		}
		return
	}

	if completion.err != nil {
		message := fmt.Sprintf("failed to load environment '%s': %s", completion.source.Name, completion.err)
		core.LogError(message)
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_USER_MESSAGE, Data: message})
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_ENVIRONMENT_LOAD_FAILED, Data: completion.source.Name})
		return
	}

	env := completion.env
	env.Mapping = scene.MappingEquirectangular
	if err := es.device.ApplyEnvironment(env, es.background); err != nil {
		message := fmt.Sprintf("failed to apply environment '%s': %s", completion.source.Name, err)
		core.LogError(message)
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_USER_MESSAGE, Data: message})
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_ENVIRONMENT_LOAD_FAILED, Data: completion.source.Name})
		es.disposer.DisposeEnvironment(env)
		return
	}

	previous := es.current
	es.current = env
	es.retargetMaterials(env)
	if previous != nil {
		es.disposer.DisposeEnvironment(previous)
	}

	core.LogInfo("environment '%s' applied", completion.source.Name)
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_ENVIRONMENT_LOADED, Data: completion.source.Name})
}

// retargetMaterials points every material of the current model at the new
// environment so reflections track the swap.
func (es *EnvironmentSystem) retargetMaterials(env *scene.EnvironmentMap) {
	if es.model == nil || es.model.Current() == nil {
		return
	}
	for _, mesh := range scene.Meshes(es.model.Current()) {
		for _, material := range mesh.Materials {
			material.Environment = env
		}
	}
}

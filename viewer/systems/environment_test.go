package systems_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loupe3d/loupe/viewer/graphics"
	"github.com/loupe3d/loupe/viewer/scene"
)

func TestEnvironmentLoadApplies(t *testing.T) {
	rig := newSessionRig(t)

	env := rig.loadEnvironmentAndWait(t, "studio")

	assert.Same(t, env, rig.device.Environment())
	assert.True(t, rig.device.BackgroundEnabled())
	assert.Equal(t, scene.MappingEquirectangular, env.Mapping)
}

func TestEnvironmentReplaceDisposesPrevious(t *testing.T) {
	rig := newSessionRig(t)

	first := rig.loadEnvironmentAndWait(t, "dawn")
	second := rig.loadEnvironmentAndWait(t, "dusk")

	assert.Same(t, second, rig.device.Environment())
	assert.True(t, first.Texture.Released())
	assert.False(t, second.Texture.Released())
	assert.Len(t, rig.device.DestroyedTextures(), 1)
}

func TestEnvironmentApplyFailureKeepsPrevious(t *testing.T) {
	rig := newSessionRig(t)

	current := rig.loadEnvironmentAndWait(t, "dawn")

	rig.device.FailNextEnvironment = true
	rig.session.LoadEnvironment(graphics.Source{Path: "broken.hdr", Name: "broken"})
	rig.pumpUntil(t, func() bool {
		broken := rig.envLoader.Built("broken")
		return broken != nil && broken.Texture.Released()
	})

	assert.Same(t, current, rig.session.Environment().Current())
	assert.Same(t, current, rig.device.Environment())
	assert.False(t, current.Texture.Released())
}

func TestEnvironmentLoadFailureKeepsPrevious(t *testing.T) {
	rig := newSessionRig(t)

	current := rig.loadEnvironmentAndWait(t, "dawn")

	rig.envLoader.Fail("missing")
	rig.session.LoadEnvironment(graphics.Source{Path: "missing.hdr", Name: "missing"})

	// The failure leaves no trace; give the goroutine time to finish.
	time.Sleep(20 * time.Millisecond)
	rig.session.Pump()

	assert.Same(t, current, rig.session.Environment().Current())
	assert.False(t, current.Texture.Released())
}

func TestUnknownPresetIsIgnored(t *testing.T) {
	rig := newSessionRig(t)

	rig.session.LoadEnvironmentPreset("no-such-preset")

	time.Sleep(20 * time.Millisecond)
	rig.session.Pump()

	assert.Nil(t, rig.session.Environment().Current())
	assert.Nil(t, rig.device.Environment())
}

func TestPresetTableContainsDefaults(t *testing.T) {
	rig := newSessionRig(t)

	presets := rig.session.Environment().Presets()
	require.Contains(t, presets, "venice-sunset")
	require.Contains(t, presets, "footprint-court")
	assert.NotEmpty(t, presets["venice-sunset"].URL)
}

func TestBackgroundToggleKeepsLighting(t *testing.T) {
	rig := newSessionRig(t)

	env := rig.loadEnvironmentAndWait(t, "studio")

	rig.session.SetBackgroundFromEnvironment(false)

	assert.False(t, rig.device.BackgroundEnabled())
	assert.Same(t, env, rig.device.Environment())
	assert.Same(t, env, rig.session.Environment().Current())

	rig.session.SetBackgroundFromEnvironment(true)
	assert.True(t, rig.device.BackgroundEnabled())
}

func TestEnvironmentRetargetsModelMaterials(t *testing.T) {
	rig := newSessionRig(t)

	model := rig.loadAndWait(t, "duck")
	env := rig.loadEnvironmentAndWait(t, "studio")

	for _, mesh := range scene.Meshes(model) {
		for _, material := range mesh.Materials {
			assert.Same(t, env, material.Environment)
		}
	}
}

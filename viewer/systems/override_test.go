package systems_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loupe3d/loupe/viewer/graphics/headless"
	"github.com/loupe3d/loupe/viewer/math"
	"github.com/loupe3d/loupe/viewer/scene"
	"github.com/loupe3d/loupe/viewer/systems"
)

func newTestOverride(t *testing.T) (*systems.OverrideSystem, *headless.Device) {
	t.Helper()
	device := headless.New()
	disposer, err := systems.NewDisposerSystem(device)
	require.NoError(t, err)
	override, err := systems.NewOverrideSystem(nil, disposer)
	require.NoError(t, err)
	return override, device
}

func twoMeshModel() (*scene.Group, []*scene.Material) {
	box := math.NewExtents3D(math.NewVec3(-1, -1, -1), math.NewVec3(1, 1, 1))
	a := &scene.Material{Name: "a_material"}
	b := &scene.Material{Name: "b_material"}
	root := scene.NewGroup("root")
	meshA := scene.NewMesh("a", &scene.Geometry{Name: "a_geo", LocalExtents: box}, a)
	meshB := scene.NewMesh("b", &scene.Geometry{Name: "b_geo", LocalExtents: box}, b)
	meshA.CastShadow = true
	meshA.ReceiveShadow = true
	meshB.CastShadow = true
	meshB.ReceiveShadow = true
	root.AddChild(meshA)
	root.AddChild(meshB)
	return root, []*scene.Material{a, b}
}

func TestOverrideEnableSwapsMaterials(t *testing.T) {
	override, _ := newTestOverride(t)
	model, originals := twoMeshModel()

	override.Enable(model)

	assert.True(t, override.Enabled())
	assert.Equal(t, 2, override.BindingCount())
	for _, mesh := range scene.Meshes(model) {
		require.Len(t, mesh.Materials, 1)
		preview := mesh.Materials[0]
		assert.True(t, preview.Transparent)
		assert.NotZero(t, preview.Fresnel)
		assert.False(t, mesh.CastShadow)
		assert.False(t, mesh.ReceiveShadow)
	}
	for _, original := range originals {
		assert.False(t, original.Released())
	}
}

func TestOverrideEnableIdempotent(t *testing.T) {
	override, _ := newTestOverride(t)
	model, _ := twoMeshModel()

	override.Enable(model)
	firstPreview := scene.Meshes(model)[0].Materials[0]

	override.Enable(model)

	assert.Equal(t, 2, override.BindingCount())
	assert.Same(t, firstPreview, scene.Meshes(model)[0].Materials[0])
}

func TestOverrideDisableRestoresOriginals(t *testing.T) {
	override, device := newTestOverride(t)
	model, originals := twoMeshModel()

	override.Enable(model)
	previews := []*scene.Material{
		scene.Meshes(model)[0].Materials[0],
		scene.Meshes(model)[1].Materials[0],
	}

	override.Disable(model)

	assert.False(t, override.Enabled())
	assert.Zero(t, override.BindingCount())
	for i, mesh := range scene.Meshes(model) {
		require.Len(t, mesh.Materials, 1)
		assert.Same(t, originals[i], mesh.Materials[0])
		assert.True(t, mesh.CastShadow)
		assert.True(t, mesh.ReceiveShadow)
	}
	assert.Len(t, device.DestroyedMaterials(), 2)
	for _, preview := range previews {
		assert.True(t, preview.Released())
	}
}

func TestOverrideDisableWithoutEnable(t *testing.T) {
	override, device := newTestOverride(t)
	model, _ := twoMeshModel()

	override.Disable(model)

	assert.False(t, override.Enabled())
	assert.Empty(t, device.DestroyedMaterials())
}

func TestOverrideMeshAddedWhileActiveKeepsMaterials(t *testing.T) {
	override, _ := newTestOverride(t)
	model, _ := twoMeshModel()

	override.Enable(model)

	late := &scene.Material{Name: "late_material"}
	lateMesh := scene.NewMesh("late", &scene.Geometry{Name: "late_geo"}, late)
	model.AddChild(lateMesh)

	override.Disable(model)

	require.Len(t, lateMesh.Materials, 1)
	assert.Same(t, late, lateMesh.Materials[0])
	assert.False(t, late.Released())
}

package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loupe3d/loupe/viewer/math"
	"github.com/loupe3d/loupe/viewer/scene"
)

func unitBoxMesh(name string) *scene.Mesh {
	return scene.NewMesh(name, &scene.Geometry{
		Name: name + "_geo",
		LocalExtents: math.NewExtents3D(
			math.NewVec3(-1, -1, -1),
			math.NewVec3(1, 1, 1),
		),
	})
}

func TestMeshesCollectsInVisitOrder(t *testing.T) {
	root := scene.NewGroup("root")
	inner := scene.NewGroup("inner")
	root.AddChild(unitBoxMesh("a"))
	inner.AddChild(unitBoxMesh("b"))
	root.AddChild(inner)

	meshes := scene.Meshes(root)
	assert.Len(t, meshes, 2)
	assert.Equal(t, "a", meshes[0].Name())
	assert.Equal(t, "b", meshes[1].Name())
}

func TestWalkPrunesOnFalse(t *testing.T) {
	root := scene.NewGroup("root")
	inner := scene.NewGroup("inner")
	inner.AddChild(unitBoxMesh("hidden"))
	root.AddChild(inner)

	var visited []string
	scene.Walk(root, func(n scene.Node) bool {
		visited = append(visited, n.Name())
		return n.Name() != "inner"
	})

	assert.Equal(t, []string{"root", "inner"}, visited)
}

func TestWorldExtentsAccumulatesTransforms(t *testing.T) {
	root := scene.NewGroup("root")
	root.Transform().Position = math.NewVec3(1, 0, 0)
	root.Transform().Scale = math.NewVec3(2, 2, 2)
	root.AddChild(unitBoxMesh("box"))

	extents := scene.WorldExtents(root)

	assert.True(t, extents.Min.Compare(math.NewVec3(-1, -2, -2), 1e-5))
	assert.True(t, extents.Max.Compare(math.NewVec3(3, 2, 2), 1e-5))
}

func TestWorldExtentsTracksTransformEdits(t *testing.T) {
	root := scene.NewGroup("root")
	root.AddChild(unitBoxMesh("box"))

	before := scene.WorldExtents(root)
	root.Transform().Position = math.NewVec3(10, 0, 0)
	after := scene.WorldExtents(root)

	assert.True(t, before.Center().Compare(math.NewVec3Zero(), 1e-5))
	assert.True(t, after.Center().Compare(math.NewVec3(10, 0, 0), 1e-5))
}

func TestWorldExtentsEmptyForResourcelessTree(t *testing.T) {
	root := scene.NewGroup("root")
	root.AddChild(scene.NewLight("light", scene.LightAmbient, math.NewVec3One(), 1))
	root.AddChild(scene.NewMesh("no_geometry", nil))

	assert.True(t, scene.WorldExtents(root).IsEmpty())
}

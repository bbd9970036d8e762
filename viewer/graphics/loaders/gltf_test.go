package loaders_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loupe3d/loupe/viewer/graphics"
	"github.com/loupe3d/loupe/viewer/graphics/loaders"
	"github.com/loupe3d/loupe/viewer/math"
	"github.com/loupe3d/loupe/viewer/scene"
)

// One triangle on the XY plane, positions embedded as a data URI.
const triangleGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"name": "tri", "mesh": 0, "translation": [2, 0, 0]}],
  "meshes": [{"name": "triangle", "primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [{
    "bufferView": 0,
    "componentType": 5126,
    "count": 3,
    "type": "VEC3",
    "min": [0, 0, 0],
    "max": [1, 1, 0]
  }],
  "bufferViews": [{"buffer": 0, "byteLength": 36}],
  "buffers": [{
    "byteLength": 36,
    "uri": "data:application/octet-stream;base64,AAAAAAAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAgD8AAAAA"
  }]
}`

func writeGLTF(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGLTFLoadBuildsSubtree(t *testing.T) {
	path := writeGLTF(t, "triangle.gltf", triangleGLTF)

	loader := loaders.NewGLTFLoader()
	root, err := loader.Load(context.Background(), graphics.Source{Path: path, Name: "triangle"})
	require.NoError(t, err)

	meshes := scene.Meshes(root)
	require.Len(t, meshes, 1)
	mesh := meshes[0]

	assert.Equal(t, uint32(3), mesh.Geometry.VertexCount)
	assert.True(t, mesh.Geometry.LocalExtents.Min.Compare(math.NewVec3Zero(), 1e-6))
	assert.True(t, mesh.Geometry.LocalExtents.Max.Compare(math.NewVec3(1, 1, 0), 1e-6))

	// Node TRS carries through to the transform.
	assert.True(t, mesh.Transform().Position.Compare(math.NewVec3(2, 0, 0), 1e-6))
	assert.True(t, mesh.Transform().Scale.Compare(math.NewVec3One(), 1e-6))

	// No material in the document: the default stands in.
	require.Len(t, mesh.Materials, 1)
	assert.Equal(t, float32(1.0), mesh.Materials[0].Opacity)
}

func TestGLTFLoadWorldExtentsIncludeNodeTransform(t *testing.T) {
	path := writeGLTF(t, "triangle.gltf", triangleGLTF)

	loader := loaders.NewGLTFLoader()
	root, err := loader.Load(context.Background(), graphics.Source{Path: path, Name: "triangle"})
	require.NoError(t, err)

	extents := scene.WorldExtents(root)
	assert.InDelta(t, 2.0, extents.Min.X, 1e-5)
	assert.InDelta(t, 3.0, extents.Max.X, 1e-5)
}

func TestGLTFLoadRejectsMeshlessDocument(t *testing.T) {
	const empty = `{"asset": {"version": "2.0"}, "scene": 0, "scenes": [{"nodes": []}]}`
	path := writeGLTF(t, "empty.gltf", empty)

	loader := loaders.NewGLTFLoader()
	_, err := loader.Load(context.Background(), graphics.Source{Path: path, Name: "empty"})
	assert.ErrorContains(t, err, "no meshes")
}

func TestGLTFLoadRejectsGarbage(t *testing.T) {
	path := writeGLTF(t, "broken.gltf", "not json at all")

	loader := loaders.NewGLTFLoader()
	_, err := loader.Load(context.Background(), graphics.Source{Path: path, Name: "broken"})
	assert.Error(t, err)
}

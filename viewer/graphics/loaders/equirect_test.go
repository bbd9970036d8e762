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
	"github.com/loupe3d/loupe/viewer/scene"
)

func writeHDR(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestEquirectLoadParsesHeader(t *testing.T) {
	content := []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 512 +X 1024\npayload")
	path := writeHDR(t, "studio.hdr", content)

	loader := loaders.NewEquirectLoader()
	env, err := loader.Load(context.Background(), graphics.Source{Path: path, Name: "studio"})
	require.NoError(t, err)

	assert.Equal(t, "studio", env.Name)
	assert.Equal(t, scene.MappingEquirectangular, env.Mapping)
	assert.Equal(t, uint32(1024), env.Texture.Width)
	assert.Equal(t, uint32(512), env.Texture.Height)
	assert.NotEmpty(t, env.Texture.Pixels)
}

func TestEquirectLoadAcceptsRGBEMagic(t *testing.T) {
	content := []byte("#?RGBE\n\n-Y 2 +X 4\nxxxx")
	path := writeHDR(t, "tiny.hdr", content)

	loader := loaders.NewEquirectLoader()
	env, err := loader.Load(context.Background(), graphics.Source{Path: path, Name: "tiny"})
	require.NoError(t, err)
	assert.Equal(t, uint32(4), env.Texture.Width)
}

func TestEquirectLoadRejectsWrongMagic(t *testing.T) {
	path := writeHDR(t, "fake.hdr", []byte("PNG not really"))

	loader := loaders.NewEquirectLoader()
	_, err := loader.Load(context.Background(), graphics.Source{Path: path, Name: "fake"})
	assert.ErrorContains(t, err, "not a radiance file")
}

func TestEquirectLoadRejectsTruncatedHeader(t *testing.T) {
	path := writeHDR(t, "cut.hdr", []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n"))

	loader := loaders.NewEquirectLoader()
	_, err := loader.Load(context.Background(), graphics.Source{Path: path, Name: "cut"})
	assert.Error(t, err)
}

func TestEquirectLoadMissingFile(t *testing.T) {
	loader := loaders.NewEquirectLoader()
	_, err := loader.Load(context.Background(), graphics.Source{Path: "/no/such/file.hdr", Name: "missing"})
	assert.Error(t, err)
}

package loaders

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/loupe3d/loupe/viewer/assets"
	"github.com/loupe3d/loupe/viewer/core"
	"github.com/loupe3d/loupe/viewer/graphics"
	"github.com/loupe3d/loupe/viewer/scene"
)

// EquirectLoader loads Radiance (.hdr) equirectangular maps. Only the
// header is inspected here; RGBE payload decode is the device binding's
// job, so the pixel data stays opaque.
type EquirectLoader struct{}

func NewEquirectLoader() *EquirectLoader {
	return &EquirectLoader{}
}

func (l *EquirectLoader) Extensions() []string {
	return assets.EnvironmentExtensions
}

func (l *EquirectLoader) Load(ctx context.Context, src graphics.Source) (*scene.EnvironmentMap, error) {
	path := src.Path
	if src.Remote() {
		staged, cleanup, err := assets.StageRemote(ctx, src.URL)
		if err != nil {
			return nil, fmt.Errorf("staging '%s': %w", src.URL, err)
		}
		defer cleanup()
		path = staged
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, height, err := parseRadianceHeader(data)
	if err != nil {
		return nil, fmt.Errorf("reading '%s': %w", src.Name, err)
	}

	core.LogDebug("loaded environment '%s' (%dx%d, %d bytes)", src.Name, width, height, len(data))

	return &scene.EnvironmentMap{
		Name:    src.Name,
		Mapping: scene.MappingEquirectangular,
		Texture: &scene.Texture{
			Name:   src.Name,
			Width:  width,
			Height: height,
			Pixels: data,
		},
	}, nil
}

// parseRadianceHeader validates the magic and extracts the resolution
// line ("-Y <h> +X <w>").
func parseRadianceHeader(data []byte) (uint32, uint32, error) {
	if !bytes.HasPrefix(data, []byte("#?RADIANCE")) && !bytes.HasPrefix(data, []byte("#?RGBE")) {
		return 0, 0, fmt.Errorf("not a radiance file")
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	inHeader := true
	for scanner.Scan() {
		line := scanner.Text()
		if inHeader {
			if line == "" {
				inHeader = false
			}
			continue
		}
		var height, width uint32
		if n, _ := fmt.Sscanf(line, "-Y %d +X %d", &height, &width); n == 2 {
			return width, height, nil
		}
		return 0, 0, fmt.Errorf("malformed resolution line %q", line)
	}
	return 0, 0, fmt.Errorf("truncated radiance header")
}

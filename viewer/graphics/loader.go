package graphics

import (
	"context"

	"github.com/loupe3d/loupe/viewer/scene"
)

// Source identifies an asset to load: a local file path or a remote URL.
// Name is the user-facing label used in messages.
type Source struct {
	Path string
	URL  string
	Name string
}

// Remote reports whether the source must be fetched over the network.
func (s Source) Remote() bool {
	return s.URL != ""
}

// MeshLoader parses a mesh asset into a scene subtree. Implementations are
// synchronous; the lifecycle systems run them on a goroutine and apply the
// result on the main loop.
type MeshLoader interface {
	Load(ctx context.Context, src Source) (scene.Node, error)
	Extensions() []string
}

// EnvironmentLoader loads an equirectangular environment map.
type EnvironmentLoader interface {
	Load(ctx context.Context, src Source) (*scene.EnvironmentMap, error)
	Extensions() []string
}

package systems

import (
	"fmt"

	"github.com/loupe3d/loupe/viewer/graphics"
	"github.com/loupe3d/loupe/viewer/scene"
)

// DisposerSystem releases the GPU-side resources owned by discarded scene
// subtrees. Callers must detach a subtree from the device before handing
// it over; nothing stops an attached subtree's resources from being
// referenced by an in-flight frame.
type DisposerSystem struct {
	device graphics.Device

	subtreesDisposed uint64
}

func NewDisposerSystem(device graphics.Device) (*DisposerSystem, error) {
	if device == nil {
		return nil, fmt.Errorf("func NewDisposerSystem - device must not be nil")
	}
	return &DisposerSystem{device: device}, nil
}

func (ds *DisposerSystem) Shutdown() error {
	return nil
}

// DisposeSubtree releases every geometry, material and texture in the
// subtree exactly once. Malformed nodes (nil geometry, empty material
// lists) are skipped, not errors.
func (ds *DisposerSystem) DisposeSubtree(root scene.Node) {
	if root == nil {
		return
	}
	scene.Walk(root, func(n scene.Node) bool {
		mesh, ok := n.(*scene.Mesh)
		if !ok {
			return true
		}
		if mesh.Geometry != nil && mesh.Geometry.Release() {
			ds.device.DestroyGeometry(mesh.Geometry)
		}
		for _, material := range mesh.Materials {
			ds.DisposeMaterial(material)
		}
		return true
	})
	ds.subtreesDisposed++
}

// DisposeMaterial releases a material and the textures it references.
// Shared references are destroyed only on their first disposal.
func (ds *DisposerSystem) DisposeMaterial(material *scene.Material) {
	if material == nil {
		return
	}
	for _, texture := range material.Textures() {
		if texture.Release() {
			ds.device.DestroyTexture(texture)
		}
	}
	if material.Release() {
		ds.device.DestroyMaterial(material)
	}
}

// DisposeEnvironment releases the texture behind an environment map.
func (ds *DisposerSystem) DisposeEnvironment(env *scene.EnvironmentMap) {
	if env == nil || env.Texture == nil {
		return
	}
	if env.Texture.Release() {
		ds.device.DestroyTexture(env.Texture)
	}
}

// SubtreesDisposed reports how many subtrees have been handed over.
func (ds *DisposerSystem) SubtreesDisposed() uint64 {
	return ds.subtreesDisposed
}

package systems

import (
	"fmt"

	"github.com/loupe3d/loupe/viewer/scene"
)

type OverrideSystemConfig struct {
	// Color is the base color of the translucent preview material.
	Color   [4]float32
	Opacity float32
	Fresnel float32
}

// OverrideSystem swaps every mesh's materials for a single shared-look
// translucent preview, remembering the originals so they can be put back.
// Bindings are keyed by mesh instance id; a mesh added to the scene while
// the override is active keeps its own materials.
type OverrideSystem struct {
	config   *OverrideSystemConfig
	disposer *DisposerSystem

	enabled   bool
	originals map[string][]*scene.Material
	previews  map[string]*scene.Material
}

func NewOverrideSystem(config *OverrideSystemConfig, disposer *DisposerSystem) (*OverrideSystem, error) {
	if disposer == nil {
		return nil, fmt.Errorf("func NewOverrideSystem - disposer must not be nil")
	}
	if config == nil {
		config = &OverrideSystemConfig{}
	}
	if config.Color == ([4]float32{}) {
		config.Color = [4]float32{0.25, 0.6, 0.95, 1.0}
	}
	if config.Opacity == 0 {
		config.Opacity = 0.4
	}
	if config.Fresnel == 0 {
		config.Fresnel = 2.0
	}
	return &OverrideSystem{
		config:    config,
		disposer:  disposer,
		originals: make(map[string][]*scene.Material),
		previews:  make(map[string]*scene.Material),
	}, nil
}

func (os *OverrideSystem) Shutdown() error {
	for _, preview := range os.previews {
		os.disposer.DisposeMaterial(preview)
	}
	os.originals = make(map[string][]*scene.Material)
	os.previews = make(map[string]*scene.Material)
	os.enabled = false
	return nil
}

func (os *OverrideSystem) Enabled() bool { return os.enabled }

// BindingCount reports how many meshes currently carry a preview material.
func (os *OverrideSystem) BindingCount() int { return len(os.originals) }

// Enable replaces the materials of every mesh under model with a fresh
// preview material and turns shadows off. Calling it while already
// enabled is a no-op; the saved originals are never re-captured.
func (os *OverrideSystem) Enable(model scene.Node) {
	if os.enabled || model == nil {
		return
	}
	for _, mesh := range scene.Meshes(model) {
		id := mesh.InstanceID()
		if _, ok := os.originals[id]; ok {
			continue
		}
		preview := os.newPreviewMaterial(mesh.Name())
		os.originals[id] = mesh.Materials
		os.previews[id] = preview
		mesh.Materials = []*scene.Material{preview}
		mesh.CastShadow = false
		mesh.ReceiveShadow = false
	}
	os.enabled = true
}

// Disable puts the original materials back, re-enables shadows and
// disposes every preview material. Safe to call when not enabled.
func (os *OverrideSystem) Disable(model scene.Node) {
	if !os.enabled {
		return
	}
	if model != nil {
		for _, mesh := range scene.Meshes(model) {
			id := mesh.InstanceID()
			originals, ok := os.originals[id]
			if !ok {
				continue
			}
			mesh.Materials = originals
			mesh.CastShadow = true
			mesh.ReceiveShadow = true
			os.disposer.DisposeMaterial(os.previews[id])
			delete(os.originals, id)
			delete(os.previews, id)
		}
	}
	// Previews bound to meshes that are no longer in the tree still hold
	// device resources.
	for id, preview := range os.previews {
		os.disposer.DisposeMaterial(preview)
		delete(os.originals, id)
		delete(os.previews, id)
	}
	os.enabled = false
}

func (os *OverrideSystem) newPreviewMaterial(meshName string) *scene.Material {
	return &scene.Material{
		Name:        meshName + "_preview",
		BaseColor:   os.config.Color,
		Opacity:     os.config.Opacity,
		Transparent: true,
		DoubleSided: true,
		Fresnel:     os.config.Fresnel,
	}
}

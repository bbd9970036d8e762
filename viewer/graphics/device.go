package graphics

import (
	"github.com/loupe3d/loupe/viewer/scene"
)

// Device is the contract consumed from the external graphics engine. Loupe
// never implements rendering itself; it drives attach/detach, environment
// application and resource destruction through this interface and leaves
// shading and presentation to the binding.
type Device interface {
	Initialize(appName string, width, height uint32) error
	Shutdown() error
	Resized(width, height uint16) error

	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error

	// Attach adds a subtree to the live scene graph. Detach removes it;
	// callers must detach before disposing the subtree's resources.
	Attach(node scene.Node)
	Detach(node scene.Node)

	// ApplyEnvironment sets env as the image-based lighting source and,
	// when background is true, as the visible backdrop. A nil env clears
	// both. Returns an error without changing state if the map cannot be
	// applied.
	ApplyEnvironment(env *scene.EnvironmentMap, background bool) error

	SetExposure(exposure float32)
	SetGridVisible(visible bool)
	SetAxesVisible(visible bool)

	DestroyGeometry(geometry *scene.Geometry)
	DestroyMaterial(material *scene.Material)
	DestroyTexture(texture *scene.Texture)
}

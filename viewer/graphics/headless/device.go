// Package headless provides a Device that records every call instead of
// drawing. It backs the test suite and lets the viewer run on machines
// without a GPU binding.
package headless

import (
	"fmt"

	"github.com/loupe3d/loupe/viewer/core"
	"github.com/loupe3d/loupe/viewer/scene"
)

type Device struct {
	attached map[scene.Node]struct{}

	destroyedGeometries []*scene.Geometry
	destroyedMaterials  []*scene.Material
	destroyedTextures   []*scene.Texture

	environment *scene.EnvironmentMap
	background  bool
	exposure    float32
	gridVisible bool
	axesVisible bool

	// FailNextEnvironment makes the next ApplyEnvironment call fail,
	// used to exercise the load-failure paths.
	FailNextEnvironment bool
}

func New() *Device {
	return &Device{
		attached: make(map[scene.Node]struct{}),
		exposure: 1.0,
	}
}

func (d *Device) Initialize(appName string, width, height uint32) error {
	core.LogInfo("headless device initialized for '%s' (%dx%d)", appName, width, height)
	return nil
}

func (d *Device) Shutdown() error { return nil }

func (d *Device) Resized(width, height uint16) error { return nil }

func (d *Device) BeginFrame(deltaTime float64) error { return nil }
func (d *Device) EndFrame(deltaTime float64) error   { return nil }

func (d *Device) Attach(node scene.Node) {
	d.attached[node] = struct{}{}
}

func (d *Device) Detach(node scene.Node) {
	delete(d.attached, node)
}

func (d *Device) ApplyEnvironment(env *scene.EnvironmentMap, background bool) error {
	if d.FailNextEnvironment {
		d.FailNextEnvironment = false
		return fmt.Errorf("environment apply rejected by device")
	}
	d.environment = env
	d.background = background
	return nil
}

func (d *Device) SetExposure(exposure float32) { d.exposure = exposure }
func (d *Device) SetGridVisible(visible bool)  { d.gridVisible = visible }
func (d *Device) SetAxesVisible(visible bool)  { d.axesVisible = visible }

func (d *Device) DestroyGeometry(geometry *scene.Geometry) {
	d.destroyedGeometries = append(d.destroyedGeometries, geometry)
}

func (d *Device) DestroyMaterial(material *scene.Material) {
	d.destroyedMaterials = append(d.destroyedMaterials, material)
}

func (d *Device) DestroyTexture(texture *scene.Texture) {
	d.destroyedTextures = append(d.destroyedTextures, texture)
}

// Inspection helpers.

func (d *Device) AttachedCount() int { return len(d.attached) }

func (d *Device) IsAttached(node scene.Node) bool {
	_, ok := d.attached[node]
	return ok
}

func (d *Device) AttachedNodes() []scene.Node {
	nodes := make([]scene.Node, 0, len(d.attached))
	for node := range d.attached {
		nodes = append(nodes, node)
	}
	return nodes
}

func (d *Device) DestroyedGeometries() []*scene.Geometry { return d.destroyedGeometries }
func (d *Device) DestroyedMaterials() []*scene.Material  { return d.destroyedMaterials }
func (d *Device) DestroyedTextures() []*scene.Texture    { return d.destroyedTextures }

func (d *Device) Environment() *scene.EnvironmentMap { return d.environment }
func (d *Device) BackgroundEnabled() bool            { return d.background }
func (d *Device) Exposure() float32                  { return d.exposure }
func (d *Device) GridVisible() bool                  { return d.gridVisible }
func (d *Device) AxesVisible() bool                  { return d.axesVisible }

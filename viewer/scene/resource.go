package scene

import "github.com/loupe3d/loupe/viewer/math"

// Disposable is implemented only by resource handles that own GPU-side
// state. Node kinds themselves are not disposable; their resources are.
type Disposable interface {
	Released() bool
}

// Texture is an opaque handle to image data uploaded (or uploadable) to
// the device.
type Texture struct {
	Name          string
	Width, Height uint32
	// Pixels holds the payload until the device takes ownership. Dropped
	// on release.
	Pixels []uint8

	released bool
}

// Release marks the texture released. Returns false if it already was,
// which callers use to guarantee exactly-once destruction.
func (t *Texture) Release() bool {
	if t.released {
		return false
	}
	t.released = true
	t.Pixels = nil
	return true
}

func (t *Texture) Released() bool { return t.released }

// Geometry is a handle to vertex/index buffers owned by the device.
type Geometry struct {
	Name        string
	VertexCount uint32
	IndexCount  uint32
	// LocalExtents is the model-space bounding box of the vertex data.
	// World extents are derived on demand so they track transform edits.
	LocalExtents math.Extents3D

	released bool
}

func (g *Geometry) Release() bool {
	if g.released {
		return false
	}
	g.released = true
	return true
}

func (g *Geometry) Released() bool { return g.released }

type Material struct {
	Name        string
	BaseColor   [4]float32
	Opacity     float32
	Transparent bool
	DoubleSided bool
	Wireframe   bool
	// Fresnel is the strength of the view-dependent rim term; zero for
	// plain surfaces, non-zero on the override preview material.
	Fresnel float32

	BaseColorTexture *Texture
	Environment      *EnvironmentMap

	released bool
}

func (m *Material) Release() bool {
	if m.released {
		return false
	}
	m.released = true
	return true
}

func (m *Material) Released() bool { return m.released }

// Textures enumerates the texture references held by the material.
func (m *Material) Textures() []*Texture {
	if m.BaseColorTexture == nil {
		return nil
	}
	return []*Texture{m.BaseColorTexture}
}

type MappingMode uint8

const (
	MappingEquirectangular MappingMode = iota
)

// EnvironmentMap is an opaque handle to an equirectangular texture used as
// both the lighting environment and, optionally, the visible background.
type EnvironmentMap struct {
	Name    string
	Mapping MappingMode
	Texture *Texture
}

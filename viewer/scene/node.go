package scene

import (
	"github.com/loupe3d/loupe/viewer/core"
	"github.com/loupe3d/loupe/viewer/math"
)

// Kind distinguishes node variants explicitly instead of relying on
// capability sniffing.
type Kind uint8

const (
	KindGroup Kind = iota
	KindMesh
	KindLight
)

// Node is a handle to an element of the scene graph. The graph is a tree;
// a node is exclusively owned by its parent, and a whole subtree is
// exclusively owned by whichever lifecycle manager last accepted it.
type Node interface {
	Kind() Kind
	Name() string
	Transform() *math.Transform
	Children() []Node
}

type Group struct {
	name      string
	transform *math.Transform
	children  []Node
}

func NewGroup(name string) *Group {
	return &Group{
		name:      name,
		transform: math.TransformCreate(),
	}
}

func (g *Group) Kind() Kind                 { return KindGroup }
func (g *Group) Name() string               { return g.name }
func (g *Group) Transform() *math.Transform { return g.transform }
func (g *Group) Children() []Node           { return g.children }

func (g *Group) AddChild(n Node) {
	g.children = append(g.children, n)
}

// Mesh is a drawable node. It owns its geometry and one or more materials;
// either may be nil/empty for malformed assets, which disposal must
// tolerate.
type Mesh struct {
	name       string
	instanceID string
	transform  *math.Transform
	children   []Node

	Geometry      *Geometry
	Materials     []*Material
	CastShadow    bool
	ReceiveShadow bool
}

func NewMesh(name string, geometry *Geometry, materials ...*Material) *Mesh {
	return &Mesh{
		name:       name,
		instanceID: core.NewInstanceID(),
		transform:  math.TransformCreate(),
		Geometry:   geometry,
		Materials:  materials,
	}
}

func (m *Mesh) Kind() Kind                 { return KindMesh }
func (m *Mesh) Name() string               { return m.name }
func (m *Mesh) Transform() *math.Transform { return m.transform }
func (m *Mesh) Children() []Node           { return m.children }

func (m *Mesh) AddChild(n Node) {
	m.children = append(m.children, n)
}

// InstanceID is stable for the lifetime of the mesh and unique across
// loads. Override bookkeeping keys on it.
func (m *Mesh) InstanceID() string { return m.instanceID }

type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightDirectional
)

type Light struct {
	name      string
	transform *math.Transform
	light     LightKind

	Color     math.Vec3
	Intensity float32
}

func NewLight(name string, kind LightKind, color math.Vec3, intensity float32) *Light {
	return &Light{
		name:      name,
		transform: math.TransformCreate(),
		light:     kind,
		Color:     color,
		Intensity: intensity,
	}
}

func (l *Light) Kind() Kind                 { return KindLight }
func (l *Light) LightKind() LightKind       { return l.light }
func (l *Light) Name() string               { return l.name }
func (l *Light) Transform() *math.Transform { return l.transform }
func (l *Light) Children() []Node           { return nil }

package scene

import "github.com/loupe3d/loupe/viewer/math"

// Walk visits n and its descendants depth-first, pre-order. Returning
// false from visit skips that node's children.
func Walk(n Node, visit func(Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, visit)
	}
}

// Meshes collects every mesh in the subtree in visit order.
func Meshes(n Node) []*Mesh {
	var meshes []*Mesh
	Walk(n, func(node Node) bool {
		if m, ok := node.(*Mesh); ok {
			meshes = append(meshes, m)
		}
		return true
	})
	return meshes
}

// WorldExtents computes the world-space AABB of the subtree from its
// current transforms. Never cached: normalization and framing both need
// the box to reflect the latest edits.
func WorldExtents(n Node) math.Extents3D {
	return worldExtents(n, math.NewMat4Identity())
}

func worldExtents(n Node, parent math.Mat4) math.Extents3D {
	out := math.NewExtents3DEmpty()
	if n == nil {
		return out
	}
	world := parent.Mul(n.Transform().Matrix())
	if m, ok := n.(*Mesh); ok && m.Geometry != nil && !m.Geometry.LocalExtents.IsEmpty() {
		out = out.Union(m.Geometry.LocalExtents.Transformed(world))
	}
	for _, child := range n.Children() {
		out = out.Union(worldExtents(child, world))
	}
	return out
}

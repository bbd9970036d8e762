package math

import "github.com/chewxy/math32"

// NewExtents3DEmpty returns an inverted box so that any Union produces a
// valid result.
func NewExtents3DEmpty() Extents3D {
	inf := math32.Inf(1)
	return Extents3D{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

func NewExtents3D(min, max Vec3) Extents3D {
	return Extents3D{Min: min, Max: max}
}

// IsEmpty reports whether the box never had a point added.
func (e Extents3D) IsEmpty() bool {
	return e.Min.X > e.Max.X || e.Min.Y > e.Max.Y || e.Min.Z > e.Max.Z
}

func (e Extents3D) UnionPoint(p Vec3) Extents3D {
	return Extents3D{
		Min: Vec3{math32.Min(e.Min.X, p.X), math32.Min(e.Min.Y, p.Y), math32.Min(e.Min.Z, p.Z)},
		Max: Vec3{math32.Max(e.Max.X, p.X), math32.Max(e.Max.Y, p.Y), math32.Max(e.Max.Z, p.Z)},
	}
}

func (e Extents3D) Union(o Extents3D) Extents3D {
	if o.IsEmpty() {
		return e
	}
	if e.IsEmpty() {
		return o
	}
	return e.UnionPoint(o.Min).UnionPoint(o.Max)
}

func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}

func (e Extents3D) Size() Vec3 {
	return e.Max.Sub(e.Min)
}

// Transformed returns the axis-aligned box of the eight transformed
// corners. The result is conservative for rotations.
func (e Extents3D) Transformed(m Mat4) Extents3D {
	if e.IsEmpty() {
		return e
	}
	out := NewExtents3DEmpty()
	for i := 0; i < 8; i++ {
		corner := Vec3{e.Min.X, e.Min.Y, e.Min.Z}
		if i&1 != 0 {
			corner.X = e.Max.X
		}
		if i&2 != 0 {
			corner.Y = e.Max.Y
		}
		if i&4 != 0 {
			corner.Z = e.Max.Z
		}
		out = out.UnionPoint(m.TransformPoint(corner))
	}
	return out
}

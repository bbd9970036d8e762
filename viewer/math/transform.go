package math

func TransformCreate() *Transform {
	return &Transform{
		Position: NewVec3Zero(),
		Rotation: NewVec3Zero(),
		Scale:    NewVec3One(),
	}
}

func TransformFromPosition(position Vec3) *Transform {
	t := TransformCreate()
	t.Position = position
	return t
}

func TransformFromPositionRotationScale(position, rotation, scale Vec3) *Transform {
	return &Transform{
		Position: position,
		Rotation: rotation,
		Scale:    scale,
	}
}

// Matrix composes the local matrix as translation * rotation * scale.
func (t *Transform) Matrix() Mat4 {
	translation := NewMat4Translation(t.Position)
	rotation := NewMat4EulerXYZ(t.Rotation.X, t.Rotation.Y, t.Rotation.Z)
	scale := NewMat4Scale(t.Scale)
	return translation.Mul(rotation).Mul(scale)
}

// Snapshot returns a value copy, used for the initial-transform bookmark.
func (t *Transform) Snapshot() Transform {
	return *t
}

// Restore overwrites the transform with a previously taken snapshot.
func (t *Transform) Restore(snapshot Transform) {
	t.Position = snapshot.Position
	t.Rotation = snapshot.Rotation
	t.Scale = snapshot.Scale
}

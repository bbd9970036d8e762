package controls

import "github.com/loupe3d/loupe/viewer/math"

// Camera is the viewpoint state the device binding renders from. The
// orbit controller and the framer are the only writers.
type Camera struct {
	Position math.Vec3
	// FieldOfView is the vertical FOV in radians.
	FieldOfView float32
}

func NewCamera(fieldOfView float32) *Camera {
	return &Camera{
		FieldOfView: fieldOfView,
	}
}

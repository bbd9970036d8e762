package controls

import (
	"github.com/chewxy/math32"

	"github.com/loupe3d/loupe/viewer/math"
)

const (
	orbitRotateSpeed float32 = 0.005
	orbitDollySpeed  float32 = 0.1
	// pitchLimit keeps the camera off the poles.
	pitchLimit float32 = math.K_PI/2 - 0.01
)

// OrbitController maps drag/scroll input onto a spherical orbit around a
// target point. It is suspended while the gizmo is dragging.
type OrbitController struct {
	MinDistance float32
	MaxDistance float32

	camera   *Camera
	target   math.Vec3
	yaw      float32
	pitch    float32
	distance float32
	enabled  bool
}

func NewOrbitController(camera *Camera, minDistance, maxDistance float32) *OrbitController {
	return &OrbitController{
		MinDistance: minDistance,
		MaxDistance: maxDistance,
		camera:      camera,
		distance:    minDistance,
		enabled:     true,
	}
}

func (oc *OrbitController) Target() math.Vec3 { return oc.target }

func (oc *OrbitController) SetTarget(target math.Vec3) {
	oc.target = target
}

// SetFromPosition derives yaw/pitch/distance so the orbit passes through
// the given camera position while looking at target. The framer hands off
// through this.
func (oc *OrbitController) SetFromPosition(position, target math.Vec3) {
	oc.target = target
	offset := position.Sub(target)
	length := offset.Length()
	if length < math.K_FLOAT_EPSILON {
		// Degenerate handoff: keep the current orientation, back off to
		// the minimum distance.
		oc.distance = oc.MinDistance
		oc.apply()
		return
	}
	oc.distance = math.Clamp(length, oc.MinDistance, oc.MaxDistance)
	if oc.distance == 0 {
		oc.distance = oc.MinDistance
	}
	oc.yaw = math32.Atan2(offset.X, offset.Z)
	oc.pitch = math.Clamp(math32.Asin(offset.Y/length), -pitchLimit, pitchLimit)
	oc.apply()
}

// Rotate orbits by screen-space deltas.
func (oc *OrbitController) Rotate(dx, dy float32) {
	if !oc.enabled {
		return
	}
	oc.yaw -= dx * orbitRotateSpeed
	oc.pitch = math.Clamp(oc.pitch+dy*orbitRotateSpeed, -pitchLimit, pitchLimit)
}

// Dolly moves toward (positive delta) or away from the target.
func (oc *OrbitController) Dolly(delta float32) {
	if !oc.enabled {
		return
	}
	oc.distance = math.Clamp(oc.distance*(1.0-delta*orbitDollySpeed), oc.MinDistance, oc.MaxDistance)
}

func (oc *OrbitController) SetEnabled(enabled bool) { oc.enabled = enabled }
func (oc *OrbitController) Enabled() bool           { return oc.enabled }

func (oc *OrbitController) Distance() float32 { return oc.distance }

// Update recomputes the camera position from the orbit state. Called once
// per frame.
func (oc *OrbitController) Update(deltaTime float64) {
	oc.apply()
}

func (oc *OrbitController) apply() {
	cosPitch := math32.Cos(oc.pitch)
	offset := math.NewVec3(
		math32.Sin(oc.yaw)*cosPitch,
		math32.Sin(oc.pitch),
		math32.Cos(oc.yaw)*cosPitch,
	).MulScalar(oc.distance)
	oc.camera.Position = oc.target.Add(offset)
}

package systems

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/loupe3d/loupe/viewer/math"
)

const (
	// DefaultFramingMargin leaves breathing room around the fitted box.
	DefaultFramingMargin float32 = 1.2
	// DefaultMinFramingDistance keeps the camera off the target for
	// degenerate (point-sized) objects.
	DefaultMinFramingDistance float32 = 0.5
)

// DefaultViewDirection is a fixed oblique offset so a freshly framed model
// is never viewed dead-on along +Z.
var DefaultViewDirection = math.NewVec3(0.4, 0.25, 0.9)

type FramerConfig struct {
	// FieldOfView is the camera's vertical FOV in radians.
	FieldOfView float32
	Margin      float32
	MinDistance float32
	// ViewDirection is scaled by the fitted distance, not normalized.
	ViewDirection math.Vec3
}

// Framer computes a camera position and look-at target that keep an
// arbitrary AABB fully visible.
type Framer struct {
	config *FramerConfig
}

func NewFramer(config *FramerConfig) (*Framer, error) {
	if config == nil || config.FieldOfView <= 0 {
		return nil, fmt.Errorf("func NewFramer - config.FieldOfView must be > 0")
	}
	if config.Margin == 0 {
		config.Margin = DefaultFramingMargin
	}
	if config.MinDistance == 0 {
		config.MinDistance = DefaultMinFramingDistance
	}
	if config.ViewDirection == math.NewVec3Zero() {
		config.ViewDirection = DefaultViewDirection
	}
	return &Framer{config: config}, nil
}

// Frame returns the camera position and target for the given world-space
// extents. The target is always the box center; the distance scales
// linearly with the largest dimension and never collapses to zero.
func (f *Framer) Frame(extents math.Extents3D) (position, target math.Vec3) {
	if extents.IsEmpty() {
		return f.config.ViewDirection.MulScalar(f.config.MinDistance), math.NewVec3Zero()
	}

	center := extents.Center()
	maxDim := extents.Size().MaxComponent()
	if maxDim < math.K_FLOAT_EPSILON {
		maxDim = math.K_FLOAT_EPSILON
	}

	distance := maxDim / (2.0 * math32.Tan(f.config.FieldOfView/2.0)) * f.config.Margin
	if distance < f.config.MinDistance {
		distance = f.config.MinDistance
	}

	return center.Add(f.config.ViewDirection.MulScalar(distance)), center
}

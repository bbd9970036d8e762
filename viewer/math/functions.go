package math

import (
	"github.com/chewxy/math32"
)

const K_FLOAT_EPSILON float32 = 1.192092896e-07

const K_PI float32 = math32.Pi

func DegToRad(degrees float32) float32 {
	return degrees * (K_PI / 180.0)
}

func RadToDeg(radians float32) float32 {
	return radians * (180.0 / K_PI)
}

func Clamp(value, min, max float32) float32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func FloatEqual(a, b, tolerance float32) bool {
	return math32.Abs(a-b) <= tolerance
}

// EulerFromQuaternion converts a unit quaternion (x, y, z, w) to Euler
// angles in radians, XYZ order.
func EulerFromQuaternion(x, y, z, w float32) Vec3 {
	sinrCosp := 2.0 * (w*x + y*z)
	cosrCosp := 1.0 - 2.0*(x*x+y*y)

	sinp := Clamp(2.0*(w*y-z*x), -1.0, 1.0)

	sinyCosp := 2.0 * (w*z + x*y)
	cosyCosp := 1.0 - 2.0*(y*y+z*z)

	return Vec3{
		X: math32.Atan2(sinrCosp, cosrCosp),
		Y: math32.Asin(sinp),
		Z: math32.Atan2(sinyCosp, cosyCosp),
	}
}

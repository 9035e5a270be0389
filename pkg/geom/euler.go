package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Euler is a rotation expressed as three angles in degrees, applied
// intrinsically about X, then Y, then Z. This is the single rotation
// convention used across the editor; parts, cabinets and drag deltas
// all share it.
type Euler struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quat returns the rotation as a unit quaternion. The intrinsic
// X-then-Y-then-Z order corresponds to the product Rx * Ry * Rz.
func (e Euler) Quat() mgl64.Quat {
	qx := mgl64.QuatRotate(mgl64.DegToRad(e.X), mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(mgl64.DegToRad(e.Y), mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(mgl64.DegToRad(e.Z), mgl64.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz)
}

// Basis returns the three rotated world-space axis vectors for the
// rotation. They are mutually orthonormal and right-handed.
func (e Euler) Basis() [3]mgl64.Vec3 {
	q := e.Quat()
	return [3]mgl64.Vec3{
		q.Rotate(mgl64.Vec3{1, 0, 0}),
		q.Rotate(mgl64.Vec3{0, 1, 0}),
		q.Rotate(mgl64.Vec3{0, 0, 1}),
	}
}

// IsZero reports whether all three angles are zero.
func (e Euler) IsZero() bool {
	return e.X == 0 && e.Y == 0 && e.Z == 0
}

// EulerFromQuat extracts intrinsic X-then-Y-then-Z angles in degrees
// from a unit quaternion. It is the inverse of Euler.Quat up to angle
// wrapping; near the Y = ±90° gimbal singularity the Z angle is folded
// into X.
func EulerFromQuat(q mgl64.Quat) Euler {
	m := q.Normalize().Mat4()

	// For R = Rx*Ry*Rz: m[0][2] = sin(y) in column-major Mat4 terms.
	sy := m.At(0, 2)
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}

	var x, y, z float64
	y = math.Asin(sy)
	if math.Abs(sy) < 1-Epsilon {
		x = math.Atan2(-m.At(1, 2), m.At(2, 2))
		z = math.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		// Gimbal lock: X and Z rotate about the same world axis.
		x = math.Atan2(m.At(2, 1), m.At(1, 1))
		z = 0
	}

	return Euler{
		X: mgl64.RadToDeg(x),
		Y: mgl64.RadToDeg(y),
		Z: mgl64.RadToDeg(z),
	}
}

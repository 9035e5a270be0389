// Package geom provides the oriented-bounding geometry used by the
// editor: Euler rotations with a fixed application order, oriented
// bounding boxes derived from parts and cabinets, and their faces.
// Everything here is derived data; nothing in this package mutates
// scene state.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used for floating-point comparisons of
// lengths in mm. Scene coordinates are millimeters, so 1e-6 mm is far
// below anything a user can perceive.
const Epsilon = 1e-6

// Axis identifies one of the three coordinate axes, either in an
// object's local frame or in the world frame depending on context.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// Unit returns the unit basis vector for the axis.
func (a Axis) Unit() mgl64.Vec3 {
	var v mgl64.Vec3
	v[int(a)] = 1
	return v
}

// Component returns the axis component of v.
func (a Axis) Component(v mgl64.Vec3) float64 {
	return v[int(a)]
}

// ApproxEqual reports whether two vectors are equal within Epsilon
// per component.
func ApproxEqual(a, b mgl64.Vec3) bool {
	return math.Abs(a.X()-b.X()) < Epsilon &&
		math.Abs(a.Y()-b.Y()) < Epsilon &&
		math.Abs(a.Z()-b.Z()) < Epsilon
}

// WithAxis returns v with the axis component replaced by val.
func WithAxis(v mgl64.Vec3, a Axis, val float64) mgl64.Vec3 {
	v[int(a)] = val
	return v
}

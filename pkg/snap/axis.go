package snap

import (
	"math"

	"github.com/chazu/korpus/pkg/geom"
)

// ResolveAxis maps a drag axis reported in an object's local frame to
// the dominant world axis under the object's rotation. The local unit
// basis vector is rotated and the world axis with the largest absolute
// component wins; ties break by fixed priority X > Y > Z so the result
// never flickers between frames for near-degenerate rotations.
//
// The mapping is total: every rotation resolves to exactly one axis.
// For axis-aligned rotations (multiples of 90°) it is exact; for
// compound rotations it picks the dominant direction.
func ResolveAxis(local geom.Axis, rot geom.Euler) geom.Axis {
	w := rot.Quat().Rotate(local.Unit())

	best := geom.AxisX
	bestMag := math.Abs(w.X())
	if mag := math.Abs(w.Y()); mag > bestMag {
		best = geom.AxisY
		bestMag = mag
	}
	if mag := math.Abs(w.Z()); mag > bestMag {
		best = geom.AxisZ
	}
	return best
}

// ResolvePlane maps two local drag axes to world axes. When both local
// axes resolve to the same world axis (possible only near a 45°
// compound rotation) the second axis falls back to the next axis in
// X, Y, Z order so the pair is always distinct.
func ResolvePlane(localA, localB geom.Axis, rot geom.Euler) (geom.Axis, geom.Axis) {
	a := ResolveAxis(localA, rot)
	b := ResolveAxis(localB, rot)
	if a != b {
		return a, b
	}
	for _, candidate := range []geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
		if candidate != a {
			return a, candidate
		}
	}
	return a, b // unreachable
}

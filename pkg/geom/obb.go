package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OBB is an oriented bounding box: a center, positive half-extents and
// three mutually orthonormal right-handed axes. OBBs are derived on
// demand from parts or cabinets and never persisted.
type OBB struct {
	Center mgl64.Vec3
	Half   mgl64.Vec3
	Axes   [3]mgl64.Vec3
}

// NewOBB builds an OBB from a center point, full dimensions (not half)
// and a rotation.
func NewOBB(center, dims mgl64.Vec3, rot Euler) OBB {
	return OBB{
		Center: center,
		Half:   dims.Mul(0.5),
		Axes:   rot.Basis(),
	}
}

// FromPoints builds the tightest OBB with the given orientation that
// encloses all points. Used for cabinet bounds: the points are the
// member part corners and the orientation is the cabinet's nominal
// rotation.
func FromPoints(points []mgl64.Vec3, rot Euler) OBB {
	axes := rot.Basis()
	if len(points) == 0 {
		return OBB{Axes: axes}
	}

	min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		for i := 0; i < 3; i++ {
			d := p.Dot(axes[i])
			if d < min[i] {
				min[i] = d
			}
			if d > max[i] {
				max[i] = d
			}
		}
	}

	var center mgl64.Vec3
	var half mgl64.Vec3
	for i := 0; i < 3; i++ {
		mid := (min[i] + max[i]) / 2
		center = center.Add(axes[i].Mul(mid))
		half[i] = (max[i] - min[i]) / 2
	}
	return OBB{Center: center, Half: half, Axes: axes}
}

// Offset returns a copy of the OBB translated by d. The receiver is
// unchanged; candidate generation calls this many times per frame to
// evaluate hypothetical placements.
func (b OBB) Offset(d mgl64.Vec3) OBB {
	b.Center = b.Center.Add(d)
	return b
}

// Corners returns the eight corner points of the box.
func (b OBB) Corners() [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	i := 0
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				out[i] = b.Center.
					Add(b.Axes[0].Mul(sx * b.Half.X())).
					Add(b.Axes[1].Mul(sy * b.Half.Y())).
					Add(b.Axes[2].Mul(sz * b.Half.Z()))
				i++
			}
		}
	}
	return out
}

// AABB returns the world-axis-aligned bounds of the box.
func (b OBB) AABB() (min, max mgl64.Vec3) {
	corners := b.Corners()
	min = corners[0]
	max = corners[0]
	for _, c := range corners[1:] {
		for i := 0; i < 3; i++ {
			if c[i] < min[i] {
				min[i] = c[i]
			}
			if c[i] > max[i] {
				max[i] = c[i]
			}
		}
	}
	return min, max
}

// Extent returns the box's projection interval [lo, hi] onto a world
// direction vector.
func (b OBB) Extent(dir mgl64.Vec3) (lo, hi float64) {
	c := b.Center.Dot(dir)
	r := math.Abs(b.Axes[0].Dot(dir))*b.Half.X() +
		math.Abs(b.Axes[1].Dot(dir))*b.Half.Y() +
		math.Abs(b.Axes[2].Dot(dir))*b.Half.Z()
	return c - r, c + r
}

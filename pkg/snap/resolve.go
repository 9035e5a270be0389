package snap

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/chazu/korpus/pkg/geom"
)

// Resolve picks the best candidate for a single axis: highest priority
// tier first, then smallest absolute offset (nearest wins). Corner
// candidates are excluded here; they only participate in planar
// resolution. Reports false when no candidate qualifies, in which case
// the axis stays unsnapped.
//
// Ties on both priority and |offset| resolve to the earliest-generated
// candidate so successive frames with unchanged geometry never flip
// between equal candidates.
func Resolve(cands []Candidate, axis geom.Axis) (float64, Candidate, bool) {
	var eligible []Candidate
	for _, c := range cands {
		if c.Kind == KindWallCorner {
			continue
		}
		if _, ok := c.Offset(axis); ok {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return 0, Candidate{}, false
	}

	best := lo.MinBy(eligible, func(a, b Candidate) bool {
		pa, pb := a.Kind.Priority(), b.Kind.Priority()
		if pa != pb {
			return pa > pb
		}
		oa, _ := a.Offset(axis)
		ob, _ := b.Offset(axis)
		return math.Abs(oa) < math.Abs(ob)
	})
	off, _ := best.Offset(axis)
	return off, best, true
}

// ResolvePlanar resolves a two-axis drag. A combined corner candidate
// satisfying both axes simultaneously wins outright; otherwise each
// axis is resolved independently and unresolved axes keep their raw
// offset (zero correction). The returned vector is the correction to
// add to the candidate pivot; chosen lists the selected candidates for
// indicator feedback.
func ResolvePlanar(cands []Candidate, axisA, axisB geom.Axis) (mgl64.Vec3, []Candidate) {
	var correction mgl64.Vec3

	corners := lo.Filter(cands, func(c Candidate, _ int) bool {
		if c.Kind != KindWallCorner {
			return false
		}
		_, okA := c.Offset(axisA)
		_, okB := c.Offset(axisB)
		return okA && okB
	})
	if len(corners) > 0 {
		best := lo.MinBy(corners, func(a, b Candidate) bool {
			return cornerDistance(a, axisA, axisB) < cornerDistance(b, axisA, axisB)
		})
		offA, _ := best.Offset(axisA)
		offB, _ := best.Offset(axisB)
		correction = geom.WithAxis(correction, axisA, offA)
		correction = geom.WithAxis(correction, axisB, offB)
		return correction, []Candidate{best}
	}

	var chosen []Candidate
	for _, axis := range []geom.Axis{axisA, axisB} {
		if off, c, ok := Resolve(cands, axis); ok {
			correction = geom.WithAxis(correction, axis, off)
			chosen = append(chosen, c)
		}
	}
	return correction, chosen
}

// cornerDistance is the combined planar distance a corner candidate
// would move the pivot.
func cornerDistance(c Candidate, axisA, axisB geom.Axis) float64 {
	a, _ := c.Offset(axisA)
	b, _ := c.Offset(axisB)
	return math.Hypot(a, b)
}

package session

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/korpus/pkg/geom"
)

// Annotation is a live dimension readout drawn during a drag: the
// distance from the moving cabinet to the nearest feature along one
// drag axis, with the two endpoints of the dimension line.
type Annotation struct {
	Start    mgl64.Vec3 `json:"start"`
	End      mgl64.Vec3 `json:"end"`
	Axis     geom.Axis  `json:"axis"`
	Distance float64    `json:"distance"`
}

// measure produces one annotation per active world axis: the gap to
// the nearest cabinet or room surface on either side of the moving
// bounds. Touching or overlapping features produce no annotation.
func (s *Session) measure(moving geom.OBB) []Annotation {
	var out []Annotation
	for _, axis := range s.worldAxes {
		if ann, ok := s.measureAxis(moving, axis); ok {
			out = append(out, ann)
		}
	}
	return out
}

func (s *Session) measureAxis(moving geom.OBB, axis geom.Axis) (Annotation, bool) {
	u := axis.Unit()
	lo, hi := moving.Extent(u)

	bestGap := math.Inf(1)
	var bestFrom, bestTo float64

	consider := func(from, to float64) {
		gap := to - from
		if gap < 0 {
			gap = -gap
		}
		if gap > geom.Epsilon && gap < bestGap {
			bestGap = gap
			bestFrom = from
			bestTo = to
		}
	}

	if s.gen != nil {
		for _, t := range s.gen.Targets() {
			tLo, tHi := t.Box.Extent(u)
			if tLo >= hi {
				consider(hi, tLo)
			} else if tHi <= lo {
				consider(lo, tHi)
			}
		}
	}
	for _, surf := range s.room.Surfaces() {
		if surf.Axis != axis {
			continue
		}
		plane := surf.PlaneCoord()
		if axis.Component(surf.Normal) > 0 && plane <= lo {
			consider(lo, plane)
		} else if axis.Component(surf.Normal) < 0 && plane >= hi {
			consider(hi, plane)
		}
	}

	if math.IsInf(bestGap, 1) {
		return Annotation{}, false
	}

	start := geom.WithAxis(moving.Center, axis, bestFrom)
	end := geom.WithAxis(moving.Center, axis, bestTo)
	return Annotation{Start: start, End: end, Axis: axis, Distance: bestGap}, true
}

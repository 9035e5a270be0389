// Package collide answers the one question the transform engine asks
// after a gesture: does this cabinet now overlap another one. It uses
// a separating-axis test between oriented bounding boxes.
package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/korpus/pkg/geom"
	"github.com/chazu/korpus/pkg/scene"
)

// contactSlack shrinks boxes before testing so flush, snapped contact
// does not register as a collision.
const contactSlack = 0.1 // mm

// Boxes reports whether two oriented boxes overlap. Standard SAT: the
// boxes are disjoint iff some axis among the 6 face normals and 9 edge
// cross products separates their projections.
func Boxes(a, b geom.OBB) bool {
	axes := make([]mgl64.Vec3, 0, 15)
	axes = append(axes, a.Axes[0], a.Axes[1], a.Axes[2], b.Axes[0], b.Axes[1], b.Axes[2])
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cross := a.Axes[i].Cross(b.Axes[j])
			if cross.Len() < geom.Epsilon {
				continue // parallel edges, axis already covered
			}
			axes = append(axes, cross.Normalize())
		}
	}

	for _, axis := range axes {
		aLo, aHi := a.Extent(axis)
		bLo, bHi := b.Extent(axis)
		if aHi < bLo || bHi < aLo {
			return false
		}
	}
	return true
}

// shrink returns the box reduced by contactSlack on every half-extent,
// floored at zero.
func shrink(b geom.OBB) geom.OBB {
	for i := 0; i < 3; i++ {
		b.Half[i] = math.Max(0, b.Half[i]-contactSlack)
	}
	return b
}

// Cabinet reports whether the cabinet's bounds overlap any other
// cabinet in the store. Flush face contact within the slack distance
// is not a collision.
func Cabinet(s *scene.Store, id scene.CabinetID) (bool, error) {
	own, err := s.CabinetOBB(id)
	if err != nil {
		return false, err
	}
	own = shrink(own)

	for _, other := range s.Cabinets() {
		if other.ID == id {
			continue
		}
		box, err := s.CabinetOBB(other.ID)
		if err != nil {
			continue
		}
		if Boxes(own, shrink(box)) {
			return true, nil
		}
	}
	return false, nil
}

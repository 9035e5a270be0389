package snap

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/korpus/pkg/geom"
)

// Kind categorizes a snap candidate.
type Kind int

const (
	// KindFaceContact: a moving face becomes coplanar with, and its
	// projection overlaps, a target face whose normal is anti-parallel.
	KindFaceContact Kind = iota
	// KindCoplanarAlign: two same-facing faces become flush without
	// requiring overlap (cabinet fronts lining up across a gap).
	KindCoplanarAlign
	// KindTJoint: a moving face terminates within the interior span of
	// a target face (perpendicular meeting).
	KindTJoint
	// KindWallSurface: a moving face reaches a room boundary surface.
	KindWallSurface
	// KindWallCorner: the moving bounds reach the intersection of two
	// room boundary surfaces; constrains both horizontal axes at once.
	KindWallCorner
)

func (k Kind) String() string {
	switch k {
	case KindFaceContact:
		return "face-contact"
	case KindCoplanarAlign:
		return "coplanar-align"
	case KindTJoint:
		return "t-joint"
	case KindWallSurface:
		return "wall-surface"
	case KindWallCorner:
		return "wall-corner"
	default:
		return "unknown"
	}
}

// Priority orders candidate tiers: corner beats wall beats the
// object-to-object kinds, which rank contact, alignment, T-joint among
// themselves. Zero means no snap.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityTJoint
	PriorityAlign
	PriorityContact
	PriorityWall
	PriorityCorner
)

// Priority returns the candidate kind's tier.
func (k Kind) Priority() Priority {
	switch k {
	case KindFaceContact:
		return PriorityContact
	case KindCoplanarAlign:
		return PriorityAlign
	case KindTJoint:
		return PriorityTJoint
	case KindWallSurface:
		return PriorityWall
	case KindWallCorner:
		return PriorityCorner
	default:
		return PriorityNone
	}
}

// Candidate is one hypothetical snapped placement, generated fresh on
// every evaluation and discarded if not selected.
type Candidate struct {
	Kind     Kind
	TargetID string // cabinet id, wall name, or "corner"

	// Offsets holds the signed correction per affected axis that would
	// realize the snap. Single-axis candidates have one entry; corner
	// candidates have two.
	Offsets map[geom.Axis]float64

	// Point is the snap indicator location for visual feedback.
	Point mgl64.Vec3
}

// Offset returns the candidate's correction along the axis, if any.
func (c Candidate) Offset(a geom.Axis) (float64, bool) {
	v, ok := c.Offsets[a]
	return v, ok
}

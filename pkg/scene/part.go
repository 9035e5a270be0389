// Package scene holds the editable scene model: parts, cabinets and
// the store that owns them. The store is the single authority for
// part and cabinet state; everything else in the editor reads from it
// and mutates it only through the pose API.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/chazu/korpus/pkg/geom"
)

// PartID identifies a part in the store.
type PartID string

// CabinetID identifies a cabinet in the store.
type CabinetID string

// NewPartID returns a fresh random part id.
func NewPartID() PartID {
	return PartID(uuid.NewString())
}

// NewCabinetID returns a fresh random cabinet id.
func NewCabinetID() CabinetID {
	return CabinetID(uuid.NewString())
}

// MinDimension is the smallest allowed part dimension in mm. Resize
// operations clamp here instead of letting a dimension reach zero.
const MinDimension = 1.0

// MaterialSpec describes the intended material. Advisory only.
type MaterialSpec struct {
	Species   string  `json:"species,omitempty"`   // e.g. "white-oak", "birch-ply"
	Thickness float64 `json:"thickness,omitempty"` // nominal thickness in mm
	Grade     string  `json:"grade,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

// Part is a rectangular component of a cabinet: a side panel, shelf,
// door or similar. Dimensions are full lengths in mm; Rotation uses
// the editor-wide intrinsic X-then-Y-then-Z Euler convention.
type Part struct {
	ID         PartID       `json:"id"`
	Name       string       `json:"name,omitempty"`
	Dimensions mgl64.Vec3   `json:"dimensions"`
	Position   mgl64.Vec3   `json:"position"`
	Rotation   geom.Euler   `json:"rotation"`
	Material   MaterialSpec `json:"material"`
	Grain      geom.Axis    `json:"grain"`

	// Cabinet is a weak back-reference to the owning cabinet. The
	// cabinet's member list, not this field, is authoritative about
	// membership; this is a lookup convenience kept in sync by the
	// store.
	Cabinet CabinetID `json:"cabinet,omitempty"`
}

// OBB returns the part's oriented bounding box.
func (p *Part) OBB() geom.OBB {
	return geom.NewOBB(p.Position, p.Dimensions, p.Rotation)
}

// Pose is the transformable state of a part: what a drag gesture
// changes and what history snapshots capture.
type Pose struct {
	Position mgl64.Vec3 `json:"position"`
	Rotation geom.Euler `json:"rotation"`
}

// Pose returns the part's current pose.
func (p *Part) Pose() Pose {
	return Pose{Position: p.Position, Rotation: p.Rotation}
}

// PoseSet maps part ids to poses. Used for atomic multi-part updates
// and as the opaque payload of history batches.
type PoseSet map[PartID]Pose

// Clone returns a copy of the set.
func (ps PoseSet) Clone() PoseSet {
	out := make(PoseSet, len(ps))
	for id, pose := range ps {
		out[id] = pose
	}
	return out
}

// Equal reports whether two pose sets hold exactly the same poses.
func (ps PoseSet) Equal(other PoseSet) bool {
	if len(ps) != len(other) {
		return false
	}
	for id, pose := range ps {
		if other[id] != pose {
			return false
		}
	}
	return true
}

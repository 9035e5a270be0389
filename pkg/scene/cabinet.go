package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/korpus/pkg/geom"
)

// Cabinet is a rigid group of parts that move as one unit. It owns its
// member parts exclusively for transform purposes and carries a
// nominal world transform of its own logical frame, used to re-derive
// dependent geometry (counter top, support legs) after a commit.
type Cabinet struct {
	ID       CabinetID  `json:"id"`
	Name     string     `json:"name,omitempty"`
	Members  []PartID   `json:"members"` // ordered, exclusively owned
	Position mgl64.Vec3 `json:"position"`
	Rotation geom.Euler `json:"rotation"`

	// Dependent geometry, regenerated after every committed gesture.
	CounterTop   bool    `json:"counter_top,omitempty"`
	TopThickness float64 `json:"top_thickness,omitempty"` // mm, 0 = default
	LegHeight    float64 `json:"leg_height,omitempty"`    // mm, 0 = no legs
	LegRadius    float64 `json:"leg_radius,omitempty"`    // mm, 0 = default
}

// DefaultTopThickness is used when a cabinet has a counter top but no
// explicit thickness.
const DefaultTopThickness = 38.0

// DefaultLegRadius is used when a cabinet has legs but no explicit
// radius.
const DefaultLegRadius = 15.0

// HasMember reports whether the part is in the cabinet's member list.
func (c *Cabinet) HasMember(id PartID) bool {
	for _, m := range c.Members {
		if m == id {
			return true
		}
	}
	return false
}

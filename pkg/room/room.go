// Package room describes the room the scene lives in: its boundary
// surfaces (walls, floor) and the vertical corners where walls meet.
// The transform engine treats these as static snap targets.
package room

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/chazu/korpus/pkg/geom"
)

// Room is an axis-aligned rectangular room. X runs along the width,
// Z along the depth, Y is up. The floor sits at y=0 and the room
// interior spans [0,Width] x [0,Height] x [0,Depth]. All lengths in mm.
type Room struct {
	Width  float64 `yaml:"width" json:"width"`
	Depth  float64 `yaml:"depth" json:"depth"`
	Height float64 `yaml:"height" json:"height"`
}

// Default returns a 4m x 3m room with a 2.5m ceiling.
func Default() Room {
	return Room{Width: 4000, Depth: 3000, Height: 2500}
}

// Load reads a room description from a YAML file. A missing file
// yields the default room; a malformed file is an error.
func Load(path string) (Room, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil
	}
	var r Room
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Room{}, fmt.Errorf("room: parse %s: %w", path, err)
	}
	if r.Width <= 0 || r.Depth <= 0 || r.Height <= 0 {
		return Room{}, fmt.Errorf("room: %s has non-positive dimensions", path)
	}
	return r, nil
}

// Surface is a planar room boundary. The normal points into the room.
type Surface struct {
	Name   string
	Origin mgl64.Vec3 // a point on the plane
	Normal mgl64.Vec3 // inward unit normal
	Axis   geom.Axis  // the world axis the plane constrains
}

// PlaneCoord returns the surface's position along its constrained axis.
func (s Surface) PlaneCoord() float64 {
	return s.Axis.Component(s.Origin)
}

// Corner is a vertical edge where two walls meet. Point sits at floor
// level; a corner constrains both horizontal axes at once.
type Corner struct {
	Point mgl64.Vec3
	Walls [2]string // names of the meeting walls
}

// Surfaces returns the floor and the four walls.
func (r Room) Surfaces() []Surface {
	return []Surface{
		{Name: "floor", Origin: mgl64.Vec3{0, 0, 0}, Normal: mgl64.Vec3{0, 1, 0}, Axis: geom.AxisY},
		{Name: "wall-west", Origin: mgl64.Vec3{0, 0, 0}, Normal: mgl64.Vec3{1, 0, 0}, Axis: geom.AxisX},
		{Name: "wall-east", Origin: mgl64.Vec3{r.Width, 0, 0}, Normal: mgl64.Vec3{-1, 0, 0}, Axis: geom.AxisX},
		{Name: "wall-north", Origin: mgl64.Vec3{0, 0, 0}, Normal: mgl64.Vec3{0, 0, 1}, Axis: geom.AxisZ},
		{Name: "wall-south", Origin: mgl64.Vec3{0, 0, r.Depth}, Normal: mgl64.Vec3{0, 0, -1}, Axis: geom.AxisZ},
	}
}

// Corners returns the four vertical wall corners.
func (r Room) Corners() []Corner {
	return []Corner{
		{Point: mgl64.Vec3{0, 0, 0}, Walls: [2]string{"wall-west", "wall-north"}},
		{Point: mgl64.Vec3{r.Width, 0, 0}, Walls: [2]string{"wall-east", "wall-north"}},
		{Point: mgl64.Vec3{0, 0, r.Depth}, Walls: [2]string{"wall-west", "wall-south"}},
		{Point: mgl64.Vec3{r.Width, 0, r.Depth}, Walls: [2]string{"wall-east", "wall-south"}},
	}
}

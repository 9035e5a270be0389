// Package snap generates and resolves snap candidates for drag
// gestures: face-to-face contact and alignment between cabinets,
// T-joints, and wall/corner snapping against the room boundary. The
// package is pure computation; it never mutates scene state.
package snap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tolerances are the per-category maximum snap distances in mm.
type Tolerances struct {
	Contact float64 `yaml:"contact" json:"contact"`
	Align   float64 `yaml:"align" json:"align"`
	TJoint  float64 `yaml:"t_joint" json:"t_joint"`
	Wall    float64 `yaml:"wall" json:"wall"`
	Corner  float64 `yaml:"corner" json:"corner"`
}

// Kinds toggles individual candidate categories.
type Kinds struct {
	Contact bool `yaml:"contact" json:"contact"`
	Align   bool `yaml:"align" json:"align"`
	TJoint  bool `yaml:"t_joint" json:"t_joint"`
	Wall    bool `yaml:"wall" json:"wall"`
	Corner  bool `yaml:"corner" json:"corner"`
}

// Config is the snap configuration consumed by the generator and
// resolver.
type Config struct {
	Enabled    bool       `yaml:"enabled" json:"enabled"`
	Tolerances Tolerances `yaml:"tolerances" json:"tolerances"`
	Kinds      Kinds      `yaml:"kinds" json:"kinds"`
}

// DefaultConfig returns snapping enabled with all categories on and
// hand-tuned default tolerances.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Tolerances: Tolerances{
			Contact: 12,
			Align:   10,
			TJoint:  10,
			Wall:    15,
			Corner:  20,
		},
		Kinds: Kinds{Contact: true, Align: true, TJoint: true, Wall: true, Corner: true},
	}
}

// LoadConfig reads a snap config from a YAML file. A missing file
// yields the defaults; a malformed file is an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), nil
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("snap: parse %s: %w", path, err)
	}
	return c, nil
}

// tolerance returns the configured tolerance for a candidate kind.
func (c Config) tolerance(k Kind) float64 {
	switch k {
	case KindFaceContact:
		return c.Tolerances.Contact
	case KindCoplanarAlign:
		return c.Tolerances.Align
	case KindTJoint:
		return c.Tolerances.TJoint
	case KindWallSurface:
		return c.Tolerances.Wall
	case KindWallCorner:
		return c.Tolerances.Corner
	default:
		return 0
	}
}

// kindEnabled reports whether a candidate kind is active.
func (c Config) kindEnabled(k Kind) bool {
	if !c.Enabled {
		return false
	}
	switch k {
	case KindFaceContact:
		return c.Kinds.Contact
	case KindCoplanarAlign:
		return c.Kinds.Align
	case KindTJoint:
		return c.Kinds.TJoint
	case KindWallSurface:
		return c.Kinds.Wall
	case KindWallCorner:
		return c.Kinds.Corner
	default:
		return false
	}
}

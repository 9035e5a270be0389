package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/chazu/korpus/pkg/geom"
)

// Store is the flat, queryable collection of parts and cabinets. It is
// the only authority for their state: drag previews never write here,
// only a session commit (or a direct edit outside any gesture) does.
type Store struct {
	parts    map[PartID]*Part
	cabinets map[CabinetID]*Cabinet

	partOrder    []PartID
	cabinetOrder []CabinetID
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		parts:    make(map[PartID]*Part),
		cabinets: make(map[CabinetID]*Cabinet),
	}
}

// AddPart adds a part. An empty id is assigned a fresh one. Dimensions
// must be positive; degenerate geometry is rejected, not clamped, at
// creation time.
func (s *Store) AddPart(p *Part) error {
	if p.ID == "" {
		p.ID = NewPartID()
	}
	if _, exists := s.parts[p.ID]; exists {
		return fmt.Errorf("part %q already exists", p.ID)
	}
	for i := 0; i < 3; i++ {
		if p.Dimensions[i] <= 0 {
			return fmt.Errorf("part %q dimension %s is %.4f, must be positive",
				p.ID, geom.Axis(i), p.Dimensions[i])
		}
	}
	s.parts[p.ID] = p
	s.partOrder = append(s.partOrder, p.ID)
	return nil
}

// AddCabinet adds a cabinet. Every member must exist and must not
// already belong to another cabinet; on success the members' weak
// back-references are set.
func (s *Store) AddCabinet(c *Cabinet) error {
	if c.ID == "" {
		c.ID = NewCabinetID()
	}
	if _, exists := s.cabinets[c.ID]; exists {
		return fmt.Errorf("cabinet %q already exists", c.ID)
	}
	for _, id := range c.Members {
		p, ok := s.parts[id]
		if !ok {
			return fmt.Errorf("cabinet %q member %q not found", c.ID, id)
		}
		if p.Cabinet != "" && p.Cabinet != c.ID {
			return fmt.Errorf("part %q already owned by cabinet %q", id, p.Cabinet)
		}
	}
	for _, id := range c.Members {
		s.parts[id].Cabinet = c.ID
	}
	s.cabinets[c.ID] = c
	s.cabinetOrder = append(s.cabinetOrder, c.ID)
	return nil
}

// Part returns a part by id.
func (s *Store) Part(id PartID) (*Part, error) {
	p, ok := s.parts[id]
	if !ok {
		return nil, fmt.Errorf("part %q not found", id)
	}
	return p, nil
}

// Cabinet returns a cabinet by id.
func (s *Store) Cabinet(id CabinetID) (*Cabinet, error) {
	c, ok := s.cabinets[id]
	if !ok {
		return nil, fmt.Errorf("cabinet %q not found", id)
	}
	return c, nil
}

// CabinetByName returns the first cabinet with the given name, or nil.
func (s *Store) CabinetByName(name string) *Cabinet {
	for _, id := range s.cabinetOrder {
		if c := s.cabinets[id]; c.Name == name {
			return c
		}
	}
	return nil
}

// Parts returns all parts in insertion order.
func (s *Store) Parts() []*Part {
	return lo.Map(s.partOrder, func(id PartID, _ int) *Part {
		return s.parts[id]
	})
}

// Cabinets returns all cabinets in insertion order.
func (s *Store) Cabinets() []*Cabinet {
	return lo.Map(s.cabinetOrder, func(id CabinetID, _ int) *Cabinet {
		return s.cabinets[id]
	})
}

// MemberPoses captures the current poses of a cabinet's members. The
// result is a snapshot: later store mutations do not affect it.
func (s *Store) MemberPoses(id CabinetID) (PoseSet, error) {
	c, err := s.Cabinet(id)
	if err != nil {
		return nil, err
	}
	out := make(PoseSet, len(c.Members))
	for _, pid := range c.Members {
		p, ok := s.parts[pid]
		if !ok {
			return nil, fmt.Errorf("cabinet %q member %q not found", id, pid)
		}
		out[pid] = p.Pose()
	}
	return out, nil
}

// ApplyPose mutates a single part's pose.
func (s *Store) ApplyPose(id PartID, pose Pose) error {
	p, ok := s.parts[id]
	if !ok {
		return fmt.Errorf("part %q not found", id)
	}
	p.Position = pose.Position
	p.Rotation = pose.Rotation
	return nil
}

// ApplyPoses atomically mutates many parts' poses. Every id is checked
// before any write so the store is never left half-updated. A missing
// id here means a session committed poses for parts that were removed
// mid-gesture, which the session machinery prevents; it is a
// programming error, not a user-recoverable condition.
func (s *Store) ApplyPoses(poses PoseSet) {
	for id := range poses {
		if _, ok := s.parts[id]; !ok {
			panic(fmt.Sprintf("scene: ApplyPoses references unknown part %q", id))
		}
	}
	for id, pose := range poses {
		p := s.parts[id]
		p.Position = pose.Position
		p.Rotation = pose.Rotation
	}
}

// ResizePart sets a part's dimensions, clamping each axis to
// MinDimension. It returns the dimensions actually applied.
func (s *Store) ResizePart(id PartID, dims mgl64.Vec3) (mgl64.Vec3, error) {
	p, ok := s.parts[id]
	if !ok {
		return mgl64.Vec3{}, fmt.Errorf("part %q not found", id)
	}
	for i := 0; i < 3; i++ {
		if dims[i] < MinDimension {
			dims[i] = MinDimension
		}
	}
	p.Dimensions = dims
	return dims, nil
}

// CabinetOBB returns the oriented bounds of a cabinet: the tightest
// box with the cabinet's nominal orientation enclosing every member
// part. Members referencing missing parts are skipped.
func (s *Store) CabinetOBB(id CabinetID) (geom.OBB, error) {
	c, err := s.Cabinet(id)
	if err != nil {
		return geom.OBB{}, err
	}
	var points []mgl64.Vec3
	for _, pid := range c.Members {
		p, ok := s.parts[pid]
		if !ok {
			continue
		}
		corners := p.OBB().Corners()
		points = append(points, corners[:]...)
	}
	return geom.FromPoints(points, c.Rotation), nil
}

// CabinetCentroid returns the mean of the member part positions.
func (s *Store) CabinetCentroid(id CabinetID) (mgl64.Vec3, error) {
	c, err := s.Cabinet(id)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	var sum mgl64.Vec3
	n := 0
	for _, pid := range c.Members {
		p, ok := s.parts[pid]
		if !ok {
			continue
		}
		sum = sum.Add(p.Position)
		n++
	}
	if n == 0 {
		return mgl64.Vec3{}, fmt.Errorf("cabinet %q has no members", id)
	}
	return sum.Mul(1 / float64(n)), nil
}

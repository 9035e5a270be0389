package scene

// Snapshot captures the transformable state touched by one gesture:
// the member part poses plus the owning cabinets' nominal transforms.
// History batches store these as opaque payloads.
type Snapshot struct {
	Parts    PoseSet            `json:"parts"`
	Cabinets map[CabinetID]Pose `json:"cabinets,omitempty"`
}

// Clone deep-copies the snapshot.
func (sn Snapshot) Clone() Snapshot {
	out := Snapshot{Parts: sn.Parts.Clone()}
	if sn.Cabinets != nil {
		out.Cabinets = make(map[CabinetID]Pose, len(sn.Cabinets))
		for id, p := range sn.Cabinets {
			out.Cabinets[id] = p
		}
	}
	return out
}

// Equal reports whether two snapshots hold identical poses.
func (sn Snapshot) Equal(other Snapshot) bool {
	if !sn.Parts.Equal(other.Parts) {
		return false
	}
	if len(sn.Cabinets) != len(other.Cabinets) {
		return false
	}
	for id, p := range sn.Cabinets {
		if other.Cabinets[id] != p {
			return false
		}
	}
	return true
}

// ApplySnapshot atomically applies the snapshot: part poses first (all
// ids validated before any write), then cabinet nominal transforms.
// Like ApplyPoses, an unknown id is a programming error.
func (s *Store) ApplySnapshot(sn Snapshot) {
	s.ApplyPoses(sn.Parts)
	for id, pose := range sn.Cabinets {
		c, ok := s.cabinets[id]
		if !ok {
			panic("scene: ApplySnapshot references unknown cabinet " + string(id))
		}
		c.Position = pose.Position
		c.Rotation = pose.Rotation
	}
}

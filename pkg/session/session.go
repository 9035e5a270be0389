// Package session implements the drag state machine: it freezes a
// pivot and initial orientation at gesture start, computes per-frame
// preview transforms for every member of the dragged cabinet, and
// defers all authoritative mutation to commit. At most one session is
// dragging at any time; everything here runs synchronously inside the
// input callbacks.
package session

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/korpus/pkg/collide"
	"github.com/chazu/korpus/pkg/geom"
	"github.com/chazu/korpus/pkg/history"
	"github.com/chazu/korpus/pkg/room"
	"github.com/chazu/korpus/pkg/scene"
	"github.com/chazu/korpus/pkg/snap"
)

// State is the session lifecycle state. Committed and Cancelled are
// transient: both return immediately to Idle.
type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	if s == StateDragging {
		return "dragging"
	}
	return "idle"
}

// GestureKind distinguishes translate from rotate gestures. The frozen
// initial orientation differs: a translate freezes the cabinet's
// current nominal orientation so local axis labels match its tilt; a
// rotate starts from identity.
type GestureKind int

const (
	GestureTranslate GestureKind = iota
	GestureRotate
)

// PivotMode selects how the frozen pivot is derived at gesture start.
type PivotMode int

const (
	// PivotCentroid uses the simple mean of member positions.
	PivotCentroid PivotMode = iota
	// PivotBounds uses the center of the cabinet's geometric bounds.
	PivotBounds
)

// Delta is one incremental drag input event.
type Delta struct {
	// Axes are the local drag axis labels for this event. Nil keeps
	// the axes from the previous event (or gesture start).
	Axes        []geom.Axis
	Translation mgl64.Vec3
	Rotation    geom.Euler
}

// CommitResult reports what a commit did.
type CommitResult struct {
	// NoOp is true when the gesture's net delta was the identity; no
	// mutation happened and no history entry was pushed.
	NoOp bool
	// Collided is true when the moved cabinet overlaps another one
	// after the commit.
	Collided bool
}

// Session is the drag state machine. Zero or one gesture is open at a
// time; the preview map is the only state it writes while dragging.
type Session struct {
	store *scene.Store
	hist  *history.Manager
	cfg   snap.Config
	room  room.Room

	// regen, when set, is invoked after a commit to rebuild geometry
	// that depends on the cabinet (counter top, support legs).
	regen func(scene.CabinetID)

	state   State
	cabinet scene.CabinetID
	kind    GestureKind

	// Frozen at gesture start; immutable for the session's lifetime.
	pivot       mgl64.Vec3
	initOrient  mgl64.Quat
	relOffsets  map[scene.PartID]mgl64.Vec3
	origOrients map[scene.PartID]mgl64.Quat
	dims        map[scene.PartID]mgl64.Vec3
	cabStartPos mgl64.Vec3
	cabStartRot mgl64.Quat
	before      scene.Snapshot

	// Captured once at start: static snap targets for the gesture.
	gen *snap.Generator

	// Live input accumulation.
	localAxes   []geom.Axis
	worldAxes   []geom.Axis
	translation mgl64.Vec3
	orientation mgl64.Quat

	// Outputs refreshed every frame.
	preview     scene.PoseSet
	previewCab  scene.Pose
	indicators  []snap.Candidate
	annotations []Annotation
}

// New creates an idle session bound to a store, history manager, snap
// configuration and room.
func New(store *scene.Store, hist *history.Manager, cfg snap.Config, r room.Room) *Session {
	return &Session{
		store:       store,
		hist:        hist,
		cfg:         cfg,
		room:        r,
		orientation: mgl64.QuatIdent(),
	}
}

// SetRegenHook installs the dependent-geometry regeneration callback
// run after every non-noop commit.
func (s *Session) SetRegenHook(fn func(scene.CabinetID)) {
	s.regen = fn
}

// SetSnapConfig replaces the snap configuration. Takes effect on the
// next gesture; an open gesture keeps the config it started with.
func (s *Session) SetSnapConfig(cfg snap.Config) {
	s.cfg = cfg
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Cabinet returns the id of the cabinet being dragged, or "" when idle.
func (s *Session) Cabinet() scene.CabinetID {
	if s.state != StateDragging {
		return ""
	}
	return s.cabinet
}

// Pivot returns the frozen pivot of the open gesture, or the zero
// vector when idle. While dragging the value never changes between
// Start and the gesture's end even if the cabinet's live center would
// recompute differently.
func (s *Session) Pivot() mgl64.Vec3 { return s.pivot }

// Start opens a gesture on a cabinet. If a gesture is already open it
// is force-cancelled first: a lost pointer-up must never wedge the
// editor, and cancelling is always safe because previews never touch
// authoritative state.
func (s *Session) Start(id scene.CabinetID, kind GestureKind, mode PivotMode, localAxes []geom.Axis) error {
	if s.state == StateDragging {
		s.Cancel()
	}

	cab, err := s.store.Cabinet(id)
	if err != nil {
		return fmt.Errorf("session: start: %w", err)
	}
	if len(cab.Members) == 0 {
		return fmt.Errorf("session: cabinet %q has no members", id)
	}

	var pivot mgl64.Vec3
	switch mode {
	case PivotBounds:
		box, err := s.store.CabinetOBB(id)
		if err != nil {
			return fmt.Errorf("session: start: %w", err)
		}
		pivot = box.Center
	default:
		pivot, err = s.store.CabinetCentroid(id)
		if err != nil {
			return fmt.Errorf("session: start: %w", err)
		}
	}

	initOrient := mgl64.QuatIdent()
	if kind == GestureTranslate {
		initOrient = cab.Rotation.Quat()
	}

	before, err := s.store.MemberPoses(id)
	if err != nil {
		return fmt.Errorf("session: start: %w", err)
	}

	s.cabinet = id
	s.kind = kind
	s.pivot = pivot
	s.initOrient = initOrient
	s.cabStartPos = cab.Position
	s.cabStartRot = cab.Rotation.Quat()
	s.before = scene.Snapshot{
		Parts:    before,
		Cabinets: map[scene.CabinetID]scene.Pose{id: {Position: cab.Position, Rotation: cab.Rotation}},
	}

	s.relOffsets = make(map[scene.PartID]mgl64.Vec3, len(before))
	s.origOrients = make(map[scene.PartID]mgl64.Quat, len(before))
	s.dims = make(map[scene.PartID]mgl64.Vec3, len(before))
	for pid, pose := range before {
		s.relOffsets[pid] = pose.Position.Sub(pivot)
		s.origOrients[pid] = pose.Rotation.Quat()
		p, err := s.store.Part(pid)
		if err != nil {
			return fmt.Errorf("session: start: %w", err)
		}
		s.dims[pid] = p.Dimensions
	}

	s.gen = snap.NewGenerator(s.cfg, s.captureTargets(id), s.room)
	s.setAxes(localAxes, cab.Rotation)

	s.translation = mgl64.Vec3{}
	s.orientation = initOrient
	s.preview = nil
	s.previewCab = scene.Pose{Position: cab.Position, Rotation: cab.Rotation}
	s.indicators = nil
	s.annotations = nil

	if err := s.hist.Begin(history.ActionTransform, string(id), s.before.Clone()); err != nil {
		return fmt.Errorf("session: start: %w", err)
	}
	s.state = StateDragging
	return nil
}

// captureTargets snapshots every other cabinet's bounds as static snap
// targets. Cabinets whose bounds cannot be computed (stale member ids)
// are skipped silently; an empty target set just means no object snaps.
func (s *Session) captureTargets(moving scene.CabinetID) []snap.Target {
	var targets []snap.Target
	for _, c := range s.store.Cabinets() {
		if c.ID == moving {
			continue
		}
		box, err := s.store.CabinetOBB(c.ID)
		if err != nil {
			continue
		}
		targets = append(targets, snap.Target{ID: string(c.ID), Box: box})
	}
	return targets
}

// setAxes stores the local axis labels and resolves them to world axes
// using the cabinet's rotation at gesture start.
func (s *Session) setAxes(localAxes []geom.Axis, rot geom.Euler) {
	s.localAxes = localAxes
	switch len(localAxes) {
	case 0:
		s.worldAxes = nil
	case 1:
		s.worldAxes = []geom.Axis{snap.ResolveAxis(localAxes[0], rot)}
	default:
		a, b := snap.ResolvePlane(localAxes[0], localAxes[1], rot)
		s.worldAxes = []geom.Axis{a, b}
	}
}

// Drag consumes one incremental input delta and recomputes the preview
// map. Authoritative state is untouched: any other observer of the
// store sees pre-gesture values throughout.
func (s *Session) Drag(d Delta) error {
	if s.state != StateDragging {
		return fmt.Errorf("session: drag while %s", s.state)
	}
	if d.Axes != nil {
		s.setAxes(d.Axes, geom.EulerFromQuat(s.cabStartRot))
	}

	s.translation = s.translation.Add(d.Translation)
	if !d.Rotation.IsZero() {
		s.orientation = d.Rotation.Quat().Mul(s.orientation)
	}

	s.refreshPreview()
	return nil
}

// refreshPreview runs the per-frame math: delta rotation against the
// frozen orientation, snap resolution against the candidate pivot, and
// the recombination of every member's frozen relative offset.
func (s *Session) refreshPreview() {
	deltaRot := s.orientation.Mul(s.initOrient.Inverse())

	// Constrain the raw translation to the implicated world axes. No
	// axes means an unconstrained drag; the translation passes through.
	constrained := s.translation
	if len(s.worldAxes) > 0 {
		constrained = mgl64.Vec3{}
		for _, a := range s.worldAxes {
			constrained = geom.WithAxis(constrained, a, a.Component(s.translation))
		}
	}
	candidatePivot := s.pivot.Add(constrained)

	moving := s.movingBounds(deltaRot, candidatePivot)
	correctedPivot, chosen := s.resolveSnap(moving, candidatePivot)

	preview := make(scene.PoseSet, len(s.relOffsets))
	for pid, rel := range s.relOffsets {
		rot := deltaRot.Mul(s.origOrients[pid])
		preview[pid] = scene.Pose{
			Position: deltaRot.Rotate(rel).Add(correctedPivot),
			Rotation: geom.EulerFromQuat(rot),
		}
	}
	s.preview = preview
	s.previewCab = scene.Pose{
		Position: deltaRot.Rotate(s.cabStartPos.Sub(s.pivot)).Add(correctedPivot),
		Rotation: geom.EulerFromQuat(deltaRot.Mul(s.cabStartRot)),
	}
	s.indicators = chosen

	final := moving.Offset(correctedPivot.Sub(candidatePivot))
	s.annotations = s.measure(final)
}

// movingBounds derives the cabinet's hypothetical oriented bounds for
// the given delta rotation and pivot, from the frozen member geometry.
func (s *Session) movingBounds(deltaRot mgl64.Quat, pivot mgl64.Vec3) geom.OBB {
	var points []mgl64.Vec3
	for pid, rel := range s.relOffsets {
		pos := deltaRot.Rotate(rel).Add(pivot)
		rot := geom.EulerFromQuat(deltaRot.Mul(s.origOrients[pid]))
		corners := geom.NewOBB(pos, s.dims[pid], rot).Corners()
		points = append(points, corners[:]...)
	}
	cabRot := geom.EulerFromQuat(deltaRot.Mul(s.cabStartRot))
	return geom.FromPoints(points, cabRot)
}

// resolveSnap runs candidate generation and resolution for the active
// axes, returning the corrected pivot and the chosen candidates.
func (s *Session) resolveSnap(moving geom.OBB, pivot mgl64.Vec3) (mgl64.Vec3, []snap.Candidate) {
	if s.gen == nil || len(s.worldAxes) == 0 {
		return pivot, nil
	}
	cands := s.gen.Generate(moving, s.worldAxes)
	if len(cands) == 0 {
		return pivot, nil
	}

	if len(s.worldAxes) == 1 {
		off, c, ok := snap.Resolve(cands, s.worldAxes[0])
		if !ok {
			return pivot, nil
		}
		return pivot.Add(s.worldAxes[0].Unit().Mul(off)), []snap.Candidate{c}
	}

	correction, chosen := snap.ResolvePlanar(cands, s.worldAxes[0], s.worldAxes[1])
	return pivot.Add(correction), chosen
}

// Preview returns a copy of the live preview map. Before the first
// drag event it mirrors the pre-gesture poses.
func (s *Session) Preview() scene.PoseSet {
	if s.preview == nil {
		return s.before.Parts.Clone()
	}
	return s.preview.Clone()
}

// Indicators returns the currently selected snap candidates for visual
// feedback.
func (s *Session) Indicators() []snap.Candidate {
	return append([]snap.Candidate(nil), s.indicators...)
}

// Annotations returns the live dimension annotations.
func (s *Session) Annotations() []Annotation {
	return append([]Annotation(nil), s.annotations...)
}

// Commit applies the preview to authoritative state as one atomic
// multi-entity update, regenerates dependent geometry, runs a
// collision recheck and closes the history batch. A gesture whose net
// delta is the identity mutates nothing and pushes no history entry.
func (s *Session) Commit() (CommitResult, error) {
	if s.state != StateDragging {
		return CommitResult{}, fmt.Errorf("session: commit while %s", s.state)
	}

	after := s.before.Clone()
	if s.preview != nil {
		after = scene.Snapshot{
			Parts:    s.preview.Clone(),
			Cabinets: map[scene.CabinetID]scene.Pose{s.cabinet: s.previewCab},
		}
	}

	if after.Equal(s.before) {
		s.hist.Abort()
		s.reset()
		return CommitResult{NoOp: true}, nil
	}

	s.store.ApplySnapshot(after)
	if s.regen != nil {
		s.regen(s.cabinet)
	}

	collided, err := collide.Cabinet(s.store, s.cabinet)
	if err != nil {
		// The cabinet was just committed; failure to find it again is
		// a programming error, not a user condition.
		panic(fmt.Sprintf("session: collision recheck: %v", err))
	}

	if err := s.hist.Commit(after.Clone()); err != nil {
		panic(fmt.Sprintf("session: history commit: %v", err))
	}

	s.reset()
	return CommitResult{Collided: collided}, nil
}

// Cancel discards the preview map and closes the gesture with no
// authoritative mutation. Always safe.
func (s *Session) Cancel() {
	if s.state != StateDragging {
		return
	}
	s.hist.Abort()
	s.reset()
}

// reset clears all per-gesture state and returns to Idle.
func (s *Session) reset() {
	s.state = StateIdle
	s.cabinet = ""
	s.preview = nil
	s.indicators = nil
	s.annotations = nil
	s.gen = nil
	s.relOffsets = nil
	s.origOrients = nil
	s.dims = nil
	s.localAxes = nil
	s.worldAxes = nil
	s.pivot = mgl64.Vec3{}
	s.translation = mgl64.Vec3{}
	s.orientation = mgl64.QuatIdent()
}

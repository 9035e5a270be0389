package snap

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/korpus/pkg/geom"
	"github.com/chazu/korpus/pkg/room"
)

// normalEps is the dot-product tolerance for treating two unit vectors
// as parallel or anti-parallel.
const normalEps = 1e-3

// minDenom guards the plane-intersection division: a drag axis nearly
// parallel to a face plane cannot realize that snap.
const minDenom = 1e-3

// Target is a static snap target: another cabinet's oriented bounds.
type Target struct {
	ID  string
	Box geom.OBB
}

// Generator enumerates snap candidates for a moving box against a set
// of static targets and the room boundary. The room surfaces and
// corners are captured once at construction (session start) and reused
// for every frame of the gesture.
type Generator struct {
	cfg      Config
	targets  []Target
	surfaces []room.Surface
	corners  []room.Corner
}

// NewGenerator builds a generator over the given targets and room.
func NewGenerator(cfg Config, targets []Target, r room.Room) *Generator {
	return &Generator{
		cfg:      cfg,
		targets:  targets,
		surfaces: r.Surfaces(),
		corners:  r.Corners(),
	}
}

// Targets returns the static targets captured at construction.
func (g *Generator) Targets() []Target {
	return g.targets
}

// Generate returns every candidate whose correction would bring the
// moving box within tolerance of a target feature along one of the
// implicated axes. The moving box is the hypothetical placement at the
// current raw drag offset; candidates record the residual correction
// from there.
func (g *Generator) Generate(moving geom.OBB, axes []geom.Axis) []Candidate {
	if !g.cfg.Enabled || len(axes) == 0 {
		return nil
	}

	var out []Candidate
	faces := moving.Faces()

	for _, axis := range axes {
		for i := range faces {
			mf := faces[i]
			out = append(out, g.objectCandidates(mf, axis)...)
			out = append(out, g.wallCandidates(mf, axis)...)
		}
	}
	if len(axes) >= 2 {
		out = append(out, g.cornerCandidates(moving, axes)...)
	}
	return out
}

// objectCandidates generates face-contact, coplanar-align and T-joint
// candidates for one moving face along one axis.
func (g *Generator) objectCandidates(mf geom.Face, axis geom.Axis) []Candidate {
	var out []Candidate
	u := axis.Unit()

	for _, t := range g.targets {
		for _, tf := range t.Box.Faces() {
			dot := mf.Normal.Dot(tf.Normal)

			switch {
			case dot < -1+normalEps:
				// Touching orientation: moving face against target face.
				off, ok := planeOffset(mf.Center, tf.Center, tf.Normal, u)
				if !ok {
					continue
				}
				kind, ok := classifyContact(mf.Offset(u.Mul(off)), tf)
				if !ok {
					continue
				}
				if !g.cfg.kindEnabled(kind) || math.Abs(off) > g.cfg.tolerance(kind) {
					continue
				}
				out = append(out, Candidate{
					Kind:     kind,
					TargetID: t.ID,
					Offsets:  map[geom.Axis]float64{axis: off},
					Point:    tf.Center,
				})

			case dot > 1-normalEps:
				// Same-facing: fronts lining up across a gap.
				if !g.cfg.kindEnabled(KindCoplanarAlign) {
					continue
				}
				off, ok := planeOffset(mf.Center, tf.Center, tf.Normal, u)
				if !ok || math.Abs(off) > g.cfg.tolerance(KindCoplanarAlign) {
					continue
				}
				out = append(out, Candidate{
					Kind:     KindCoplanarAlign,
					TargetID: t.ID,
					Offsets:  map[geom.Axis]float64{axis: off},
					Point:    tf.Center,
				})
			}
		}
	}
	return out
}

// wallCandidates generates wall-surface candidates for one moving face
// along one axis.
func (g *Generator) wallCandidates(mf geom.Face, axis geom.Axis) []Candidate {
	if !g.cfg.kindEnabled(KindWallSurface) {
		return nil
	}
	var out []Candidate
	u := axis.Unit()

	for _, s := range g.surfaces {
		// Flush means the face's outward normal opposes the wall's
		// inward normal.
		if mf.Normal.Dot(s.Normal) > -1+normalEps {
			continue
		}
		off, ok := planeOffset(mf.Center, s.Origin, s.Normal, u)
		if !ok || math.Abs(off) > g.cfg.tolerance(KindWallSurface) {
			continue
		}
		onWall := mf.Center.Add(s.Normal.Mul(s.Origin.Sub(mf.Center).Dot(s.Normal)))
		out = append(out, Candidate{
			Kind:     KindWallSurface,
			TargetID: s.Name,
			Offsets:  map[geom.Axis]float64{axis: off},
			Point:    onWall,
		})
	}
	return out
}

// cornerCandidates generates wall-corner candidates that satisfy both
// horizontal axes simultaneously. They only apply to planar drags that
// implicate X and Z.
func (g *Generator) cornerCandidates(moving geom.OBB, axes []geom.Axis) []Candidate {
	if !g.cfg.kindEnabled(KindWallCorner) {
		return nil
	}
	if !containsAxis(axes, geom.AxisX) || !containsAxis(axes, geom.AxisZ) {
		return nil
	}

	tol := g.cfg.tolerance(KindWallCorner)
	min, max := moving.AABB()

	byName := make(map[string]room.Surface, len(g.surfaces))
	for _, s := range g.surfaces {
		byName[s.Name] = s
	}

	var out []Candidate
	for _, c := range g.corners {
		offsets := make(map[geom.Axis]float64, 2)
		ok := true
		for _, wallName := range c.Walls {
			s, found := byName[wallName]
			if !found {
				ok = false
				break
			}
			plane := s.PlaneCoord()
			var off float64
			if s.Axis.Component(s.Normal) > 0 {
				off = plane - s.Axis.Component(min)
			} else {
				off = plane - s.Axis.Component(max)
			}
			if math.Abs(off) > tol {
				ok = false
				break
			}
			offsets[s.Axis] = off
		}
		if !ok || len(offsets) != 2 {
			continue
		}
		out = append(out, Candidate{
			Kind:     KindWallCorner,
			TargetID: "corner",
			Offsets:  offsets,
			Point:    c.Point,
		})
	}
	return out
}

// planeOffset returns the translation along the unit direction u that
// brings point p onto the plane through origin with the given normal.
// Reports false when u is nearly parallel to the plane.
func planeOffset(p, origin, normal, u mgl64.Vec3) (float64, bool) {
	denom := u.Dot(normal)
	if math.Abs(denom) < minDenom {
		return 0, false
	}
	return origin.Sub(p).Dot(normal) / denom, true
}

// classifyContact decides whether a moving face already shifted into
// the target plane makes a T-joint (fully inside the target face's
// interior span) or a face contact (projections overlap). Reports
// false when the faces do not meet at all.
func classifyContact(mf, tf geom.Face) (Kind, bool) {
	e1 := tf.Corners[1].Sub(tf.Corners[0])
	e2 := tf.Corners[3].Sub(tf.Corners[0])
	if e1.Len() < geom.Epsilon || e2.Len() < geom.Epsilon {
		return 0, false
	}
	e1 = e1.Normalize()
	e2 = e2.Normalize()

	contained := true
	for _, dir := range []mgl64.Vec3{e1, e2} {
		mLo, mHi := mf.Span(dir)
		tLo, tHi := tf.Span(dir)
		if mHi <= tLo+geom.Epsilon || mLo >= tHi-geom.Epsilon {
			return 0, false // no overlap on this direction
		}
		// T-joint needs the moving face strictly inside the target
		// interior; a flush shared edge is contact, not a T.
		if mLo <= tLo+geom.Epsilon || mHi >= tHi-geom.Epsilon {
			contained = false
		}
	}
	if contained {
		return KindTJoint, true
	}
	return KindFaceContact, true
}

func containsAxis(axes []geom.Axis, a geom.Axis) bool {
	for _, x := range axes {
		if x == a {
			return true
		}
	}
	return false
}

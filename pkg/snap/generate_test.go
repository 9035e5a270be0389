package snap

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/korpus/pkg/geom"
	"github.com/chazu/korpus/pkg/room"
)

// box builds an axis-aligned OBB from a floor-level footprint.
func box(cx, cy, cz, w, h, d float64) geom.OBB {
	return geom.NewOBB(mgl64.Vec3{cx, cy, cz}, mgl64.Vec3{w, h, d}, geom.Euler{})
}

func kinds(cands []Candidate) map[Kind]int {
	out := make(map[Kind]int)
	for _, c := range cands {
		out[c.Kind]++
	}
	return out
}

func findKind(cands []Candidate, k Kind) (Candidate, bool) {
	for _, c := range cands {
		if c.Kind == k {
			return c, true
		}
	}
	return Candidate{}, false
}

func TestGenerateFaceContact(t *testing.T) {
	// Target occupies x [0,600]; the moving box's left face sits at
	// x=608, an 8mm gap.
	target := Target{ID: "base-1", Box: box(300, 360, 300, 600, 720, 560)}
	moving := box(908, 360, 300, 600, 720, 560)

	g := NewGenerator(DefaultConfig(), []Target{target}, room.Default())
	cands := g.Generate(moving, []geom.Axis{geom.AxisX})

	c, ok := findKind(cands, KindFaceContact)
	if !ok {
		t.Fatalf("no face contact in %v", kinds(cands))
	}
	off, ok := c.Offset(geom.AxisX)
	if !ok {
		t.Fatal("contact candidate has no x offset")
	}
	if math.Abs(off-(-8)) > 1e-9 {
		t.Errorf("offset = %v, want -8 (close the gap)", off)
	}
	if c.TargetID != "base-1" {
		t.Errorf("target id = %q", c.TargetID)
	}
}

func TestGenerateContactBeyondTolerance(t *testing.T) {
	target := Target{ID: "t", Box: box(300, 360, 300, 600, 720, 560)}
	// 20mm gap exceeds the 12mm contact tolerance.
	moving := box(920, 360, 300, 600, 720, 560)

	g := NewGenerator(DefaultConfig(), []Target{target}, room.Default())
	cands := g.Generate(moving, []geom.Axis{geom.AxisX})
	if _, ok := findKind(cands, KindFaceContact); ok {
		t.Errorf("contact candidate generated beyond tolerance: %v", kinds(cands))
	}
}

func TestGenerateCoplanarAlign(t *testing.T) {
	// Two boxes side by side with a gap along X; their front faces
	// (+z) are 6mm from flush.
	target := Target{ID: "t", Box: box(300, 360, 300, 600, 720, 560)}
	moving := box(1200, 360, 306, 600, 720, 560)

	g := NewGenerator(DefaultConfig(), []Target{target}, room.Default())
	cands := g.Generate(moving, []geom.Axis{geom.AxisZ})

	c, ok := findKind(cands, KindCoplanarAlign)
	if !ok {
		t.Fatalf("no align candidate in %v", kinds(cands))
	}
	off, _ := c.Offset(geom.AxisZ)
	if math.Abs(off-(-6)) > 1e-9 {
		t.Errorf("offset = %v, want -6", off)
	}
}

func TestGenerateTJoint(t *testing.T) {
	// A small shelf end approaching the middle of a tall side panel:
	// the moving face projects entirely inside the target face.
	target := Target{ID: "side", Box: box(0, 1000, 0, 18, 2000, 600)}
	moving := box(160, 1000, 0, 300, 300, 300)

	g := NewGenerator(DefaultConfig(), []Target{target}, room.Default())
	cands := g.Generate(moving, []geom.Axis{geom.AxisX})

	c, ok := findKind(cands, KindTJoint)
	if !ok {
		t.Fatalf("no t-joint candidate in %v", kinds(cands))
	}
	off, _ := c.Offset(geom.AxisX)
	// Moving -x face at 10, target +x face at 9.
	if math.Abs(off-(-1)) > 1e-9 {
		t.Errorf("offset = %v, want -1", off)
	}
	// The same geometry must not also be classified as plain contact
	// for this face pair; containment implies t-joint.
	if contact, ok := findKind(cands, KindFaceContact); ok {
		if o, _ := contact.Offset(geom.AxisX); math.Abs(o-off) < 1e-9 && contact.TargetID == c.TargetID {
			t.Error("same face pair produced both t-joint and contact")
		}
	}
}

func TestGenerateNoOverlapNoContact(t *testing.T) {
	// Faces coplanar-ish along X but completely offset in Z; the
	// projections never overlap, so no contact snap exists.
	target := Target{ID: "t", Box: box(300, 360, 300, 600, 720, 560)}
	moving := box(908, 360, 1500, 600, 720, 560)

	g := NewGenerator(DefaultConfig(), []Target{target}, room.Default())
	cands := g.Generate(moving, []geom.Axis{geom.AxisX})
	if _, ok := findKind(cands, KindFaceContact); ok {
		t.Error("contact generated for disjoint face projections")
	}
	if _, ok := findKind(cands, KindTJoint); ok {
		t.Error("t-joint generated for disjoint face projections")
	}
}

func TestGenerateWallSurface(t *testing.T) {
	// The box's -z face sits 10mm from the north wall (z=0).
	moving := box(1000, 360, 290, 600, 720, 560)

	g := NewGenerator(DefaultConfig(), nil, room.Default())
	cands := g.Generate(moving, []geom.Axis{geom.AxisZ})

	c, ok := findKind(cands, KindWallSurface)
	if !ok {
		t.Fatalf("no wall candidate in %v", kinds(cands))
	}
	if c.TargetID != "wall-north" {
		t.Errorf("target = %q, want wall-north", c.TargetID)
	}
	off, _ := c.Offset(geom.AxisZ)
	if math.Abs(off-(-10)) > 1e-9 {
		t.Errorf("offset = %v, want -10", off)
	}
}

func TestGenerateWallCorner(t *testing.T) {
	// Box near the north-west corner: 12mm from the west wall, 15mm
	// from the north wall. Corner tolerance is 20.
	moving := box(312, 360, 295, 600, 720, 560)

	g := NewGenerator(DefaultConfig(), nil, room.Default())
	cands := g.Generate(moving, []geom.Axis{geom.AxisX, geom.AxisZ})

	c, ok := findKind(cands, KindWallCorner)
	if !ok {
		t.Fatalf("no corner candidate in %v", kinds(cands))
	}
	offX, okX := c.Offset(geom.AxisX)
	offZ, okZ := c.Offset(geom.AxisZ)
	if !okX || !okZ {
		t.Fatal("corner candidate missing an axis offset")
	}
	if math.Abs(offX-(-12)) > 1e-9 || math.Abs(offZ-(-15)) > 1e-9 {
		t.Errorf("offsets = %v, %v, want -12, -15", offX, offZ)
	}
}

func TestGenerateCornerNeedsBothAxes(t *testing.T) {
	moving := box(312, 360, 295, 600, 720, 560)
	g := NewGenerator(DefaultConfig(), nil, room.Default())
	for _, axes := range [][]geom.Axis{
		{geom.AxisX},
		{geom.AxisZ},
		{geom.AxisX, geom.AxisY},
	} {
		cands := g.Generate(moving, axes)
		if _, ok := findKind(cands, KindWallCorner); ok {
			t.Errorf("corner candidate generated for axes %v", axes)
		}
	}
}

func TestGenerateRespectsKindToggles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kinds.Wall = false

	moving := box(1000, 360, 290, 600, 720, 560)
	g := NewGenerator(cfg, nil, room.Default())
	cands := g.Generate(moving, []geom.Axis{geom.AxisZ})
	if _, ok := findKind(cands, KindWallSurface); ok {
		t.Error("wall candidate generated with wall kind disabled")
	}
}

func TestGenerateDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	target := Target{ID: "t", Box: box(300, 360, 300, 600, 720, 560)}
	moving := box(908, 360, 300, 600, 720, 560)
	g := NewGenerator(cfg, []Target{target}, room.Default())
	if cands := g.Generate(moving, []geom.Axis{geom.AxisX}); len(cands) != 0 {
		t.Errorf("disabled generator produced %d candidates", len(cands))
	}
}

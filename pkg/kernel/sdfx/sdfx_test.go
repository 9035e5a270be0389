package sdfx

import (
	"math"
	"testing"
)

func TestPanelMesh(t *testing.T) {
	k := New()
	panel := k.Box(18, 720, 560)
	mesh, err := k.ToMesh(panel)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.VertexCount() == 0 {
		t.Fatal("expected non-zero vertex count")
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
}

func TestLegMesh(t *testing.T) {
	k := New()
	leg := k.Cylinder(100, 15, 24)
	mesh, err := k.ToMesh(leg)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
}

func TestBoxCentered(t *testing.T) {
	k := New()
	panel := k.Box(18, 720, 560)
	min, max := panel.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{-9, -360, -280}
	expectMax := [3]float64{9, 360, 280}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestTranslateToPose(t *testing.T) {
	k := New()
	slab := k.Box(600, 38, 560)
	// Counter top placed over a 720mm-tall carcass at x=300, z=280.
	placed := k.Translate(slab, 300, 739, 280)

	min, max := placed.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{0, 720, 0}
	expectMax := [3]float64{600, 758, 560}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestDifference(t *testing.T) {
	k := New()

	panel := k.Box(100, 100, 18)
	panelMesh, err := k.ToMesh(panel)
	if err != nil {
		t.Fatalf("ToMesh(panel) failed: %v", err)
	}

	// Bore a through hole; the drilled panel needs more triangles to
	// describe the hole wall.
	bore := k.Cylinder(30, 8, 32)
	drilled := k.Difference(panel, bore)
	drilledMesh, err := k.ToMesh(drilled)
	if err != nil {
		t.Fatalf("ToMesh(drilled) failed: %v", err)
	}
	if drilledMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	if drilledMesh.TriangleCount() <= panelMesh.TriangleCount() {
		t.Fatalf("drilled panel (%d triangles) should have more triangles than plain panel (%d)",
			drilledMesh.TriangleCount(), panelMesh.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := New()
	a := k.Box(50, 50, 50)
	b := k.Translate(k.Box(50, 50, 50), 30, 0, 0)
	mesh, err := k.ToMesh(k.Union(a, b))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	a := k.Box(100, 100, 100)
	b := k.Translate(k.Box(100, 100, 100), 50, 0, 0)
	mesh, err := k.ToMesh(k.Intersection(a, b))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
}

func TestRotate(t *testing.T) {
	k := New()
	// A 600mm board along X rotated 90 degrees around Z stands up
	// along Y.
	board := k.Box(600, 18, 560)
	rotated := k.Rotate(board, 0, 0, 90)
	min, max := rotated.BoundingBox()

	const tol = 1.0
	if got := max[0] - min[0]; math.Abs(got-18) > tol {
		t.Errorf("rotated X extent = %f, expected ~18", got)
	}
	if got := max[1] - min[1]; math.Abs(got-600) > tol {
		t.Errorf("rotated Y extent = %f, expected ~600", got)
	}
}

func TestRotateOrder(t *testing.T) {
	k := New()
	// A long box along X under X=90, Z=90: the Z rotation applies
	// first in world terms (intrinsic X-then-Y-then-Z), carrying the
	// long axis to Y, after which the X rotation carries Y to Z. The
	// extrinsic order would leave the long axis on Y instead.
	box := k.Box(100, 10, 10)
	rotated := k.Rotate(box, 90, 0, 90)
	min, max := rotated.BoundingBox()

	const tol = 1.0
	if got := max[2] - min[2]; math.Abs(got-100) > tol {
		t.Errorf("rotated Z extent = %f, expected ~100", got)
	}
}

// Package boxkern is a pure-Go kernel.Kernel backend that represents
// solids as explicit triangle soups. Boxes and cylinders are exact
// (up to segment count); boolean difference and intersection are
// approximated by their left operand. It exists for tests and headless
// runs where the sdfx marching-cubes backend is needlessly slow and
// cabinet geometry never requires real booleans.
package boxkern

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/korpus/pkg/geom"
	"github.com/chazu/korpus/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*BoxKernel)(nil)

// triSolid is a triangle soup; every three vertices form one triangle.
type triSolid struct {
	verts []mgl64.Vec3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *triSolid) BoundingBox() (min, max [3]float64) {
	if len(s.verts) == 0 {
		return
	}
	min = [3]float64{s.verts[0].X(), s.verts[0].Y(), s.verts[0].Z()}
	max = min
	for _, v := range s.verts[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return min, max
}

// BoxKernel implements kernel.Kernel with explicit triangle geometry.
type BoxKernel struct{}

// New returns a new BoxKernel.
func New() *BoxKernel {
	return &BoxKernel{}
}

func unwrap(s kernel.Solid) *triSolid {
	return s.(*triSolid)
}

// Box creates a box with the given dimensions, centered at the origin:
// two triangles per face, twelve in total.
func (k *BoxKernel) Box(x, y, z float64) kernel.Solid {
	box := geom.NewOBB(mgl64.Vec3{}, mgl64.Vec3{x, y, z}, geom.Euler{})
	s := &triSolid{verts: make([]mgl64.Vec3, 0, 36)}
	for _, f := range box.Faces() {
		c := f.Corners
		s.verts = append(s.verts, c[0], c[1], c[2], c[0], c[2], c[3])
	}
	return s
}

// Cylinder creates a segment-sided prism approximating a cylinder,
// centered at the origin with its axis along Z.
func (k *BoxKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if segments < 3 {
		segments = 16
	}
	h := height / 2
	s := &triSolid{}
	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(segments)
		a1 := 2 * math.Pi * float64(i+1) / float64(segments)
		p0 := mgl64.Vec3{radius * math.Cos(a0), radius * math.Sin(a0), 0}
		p1 := mgl64.Vec3{radius * math.Cos(a1), radius * math.Sin(a1), 0}

		b0 := mgl64.Vec3{p0.X(), p0.Y(), -h}
		b1 := mgl64.Vec3{p1.X(), p1.Y(), -h}
		t0 := mgl64.Vec3{p0.X(), p0.Y(), h}
		t1 := mgl64.Vec3{p1.X(), p1.Y(), h}

		// Side quad.
		s.verts = append(s.verts, b0, b1, t1, b0, t1, t0)
		// Caps.
		s.verts = append(s.verts, mgl64.Vec3{0, 0, -h}, b1, b0)
		s.verts = append(s.verts, mgl64.Vec3{0, 0, h}, t0, t1)
	}
	return s
}

// Union concatenates the two triangle soups.
func (k *BoxKernel) Union(a, b kernel.Solid) kernel.Solid {
	av, bv := unwrap(a).verts, unwrap(b).verts
	verts := make([]mgl64.Vec3, 0, len(av)+len(bv))
	verts = append(verts, av...)
	verts = append(verts, bv...)
	return &triSolid{verts: verts}
}

// Difference approximates a - b as a. Cabinet geometry never subtracts.
func (k *BoxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return a
}

// Intersection approximates a ∩ b as a.
func (k *BoxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return a
}

// Translate moves a solid by (x, y, z).
func (k *BoxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	d := mgl64.Vec3{x, y, z}
	src := unwrap(s)
	out := &triSolid{verts: make([]mgl64.Vec3, len(src.verts))}
	for i, v := range src.verts {
		out.verts[i] = v.Add(d)
	}
	return out
}

// Rotate rotates a solid by Euler angles in degrees, intrinsic
// X-then-Y-then-Z.
func (k *BoxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	q := geom.Euler{X: x, Y: y, Z: z}.Quat()
	src := unwrap(s)
	out := &triSolid{verts: make([]mgl64.Vec3, len(src.verts))}
	for i, v := range src.verts {
		out.verts[i] = q.Rotate(v)
	}
	return out
}

// ToMesh emits the triangle soup as a flat mesh with per-face normals.
func (k *BoxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	src := unwrap(s)
	n := len(src.verts)
	mesh := &kernel.Mesh{
		Vertices: make([]float32, 0, n*3),
		Normals:  make([]float32, 0, n*3),
		Indices:  make([]uint32, 0, n),
	}
	for i := 0; i+2 < n; i += 3 {
		a, b, c := src.verts[i], src.verts[i+1], src.verts[i+2]
		normal := b.Sub(a).Cross(c.Sub(a))
		if l := normal.Len(); l > geom.Epsilon {
			normal = normal.Mul(1 / l)
		}
		for _, v := range []mgl64.Vec3{a, b, c} {
			mesh.Vertices = append(mesh.Vertices, float32(v.X()), float32(v.Y()), float32(v.Z()))
			mesh.Normals = append(mesh.Normals, float32(normal.X()), float32(normal.Y()), float32(normal.Z()))
			mesh.Indices = append(mesh.Indices, uint32(len(mesh.Indices)))
		}
	}
	return mesh, nil
}

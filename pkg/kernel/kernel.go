// Package kernel defines the abstract solid-modeling kernel interface.
// Implementations (sdfx, boxkern) generate the solids behind cabinet
// parts and their dependent geometry (counter tops, support legs)
// behind this interface, so the rest of the editor never depends on a
// particular backend.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface. All primitives are
// centered at the origin; placement happens via Translate/Rotate so a
// part's position maps directly to its solid's center.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, intrinsic X-then-Y-then-Z

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

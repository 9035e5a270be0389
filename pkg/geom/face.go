package geom

import "github.com/go-gl/mathgl/mgl64"

// FaceIndex identifies one of the six faces of an OBB by its outward
// local direction.
type FaceIndex int

const (
	FacePosX FaceIndex = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// AllFaces lists the six face indices in a stable order.
var AllFaces = [6]FaceIndex{FacePosX, FaceNegX, FacePosY, FaceNegY, FacePosZ, FaceNegZ}

// Axis returns the local axis the face is perpendicular to.
func (f FaceIndex) Axis() Axis {
	return Axis(int(f) / 2)
}

// Sign returns +1 for positive-direction faces and -1 otherwise.
func (f FaceIndex) Sign() float64 {
	if int(f)%2 == 0 {
		return 1
	}
	return -1
}

func (f FaceIndex) String() string {
	names := [6]string{"+x", "-x", "+y", "-y", "+z", "-z"}
	if f < 0 || int(f) >= len(names) {
		return "invalid"
	}
	return names[f]
}

// Face is one side of an OBB: a center point, the outward unit normal
// in world space, and four ordered corner points.
type Face struct {
	Index   FaceIndex
	Center  mgl64.Vec3
	Normal  mgl64.Vec3
	Corners [4]mgl64.Vec3
}

// Face returns the face with the given index. The corners are ordered
// counter-clockwise when viewed from outside along the normal.
func (b OBB) Face(idx FaceIndex) Face {
	axis := int(idx.Axis())
	sign := idx.Sign()
	u := (axis + 1) % 3
	v := (axis + 2) % 3

	normal := b.Axes[axis].Mul(sign)
	center := b.Center.Add(b.Axes[axis].Mul(sign * b.Half[axis]))

	du := b.Axes[u].Mul(b.Half[u])
	dv := b.Axes[v].Mul(b.Half[v])

	f := Face{Index: idx, Center: center, Normal: normal}
	if sign > 0 {
		f.Corners = [4]mgl64.Vec3{
			center.Sub(du).Sub(dv),
			center.Add(du).Sub(dv),
			center.Add(du).Add(dv),
			center.Sub(du).Add(dv),
		}
	} else {
		f.Corners = [4]mgl64.Vec3{
			center.Sub(du).Sub(dv),
			center.Sub(du).Add(dv),
			center.Add(du).Add(dv),
			center.Add(du).Sub(dv),
		}
	}
	return f
}

// Faces returns all six faces of the box.
func (b OBB) Faces() [6]Face {
	var out [6]Face
	for i, idx := range AllFaces {
		out[i] = b.Face(idx)
	}
	return out
}

// Offset returns a copy of the face translated by d.
func (f Face) Offset(d mgl64.Vec3) Face {
	f.Center = f.Center.Add(d)
	for i := range f.Corners {
		f.Corners[i] = f.Corners[i].Add(d)
	}
	return f
}

// Span returns the face's projection interval [lo, hi] onto a world
// direction vector.
func (f Face) Span(dir mgl64.Vec3) (lo, hi float64) {
	lo = f.Corners[0].Dot(dir)
	hi = lo
	for _, c := range f.Corners[1:] {
		d := c.Dot(dir)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}

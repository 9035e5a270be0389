// Package tessellate turns the scene into triangle meshes using a
// geometry kernel: one mesh per part, plus the derived features each
// cabinet carries (counter top slab, support legs). The tessellator is
// read-only and never mutates the scene.
package tessellate

import (
	"fmt"

	"github.com/chazu/korpus/pkg/kernel"
	"github.com/chazu/korpus/pkg/scene"
)

// legInset is how far support legs sit in from the cabinet's corners.
const legInset = 50.0 // mm

// Tessellate produces meshes for every part in the store followed by
// every cabinet's derived features.
func Tessellate(s *scene.Store, k kernel.Kernel) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh

	for _, p := range s.Parts() {
		m, err := PartMesh(p, k)
		if err != nil {
			return nil, fmt.Errorf("tessellate: part %s: %w", p.ID, err)
		}
		meshes = append(meshes, m)
	}

	for _, c := range s.Cabinets() {
		features, err := CabinetFeatures(s, k, c.ID)
		if err != nil {
			return nil, fmt.Errorf("tessellate: cabinet %s: %w", c.ID, err)
		}
		meshes = append(meshes, features...)
	}
	return meshes, nil
}

// PartMesh builds the mesh for one part: a centered box rotated and
// translated to the part's pose.
func PartMesh(p *scene.Part, k kernel.Kernel) (*kernel.Mesh, error) {
	solid := k.Box(p.Dimensions.X(), p.Dimensions.Y(), p.Dimensions.Z())
	solid = k.Rotate(solid, p.Rotation.X, p.Rotation.Y, p.Rotation.Z)
	solid = k.Translate(solid, p.Position.X(), p.Position.Y(), p.Position.Z())

	m, err := k.ToMesh(solid)
	if err != nil {
		return nil, err
	}
	name := p.Name
	if name == "" {
		name = string(p.ID)
	}
	m.PartName = name
	return m, nil
}

// CabinetFeatures regenerates the geometry that depends on a cabinet's
// committed placement: the counter top slab and the support legs.
// Called after every committed gesture so the features follow the
// cabinet.
func CabinetFeatures(s *scene.Store, k kernel.Kernel, id scene.CabinetID) ([]*kernel.Mesh, error) {
	c, err := s.Cabinet(id)
	if err != nil {
		return nil, err
	}
	if !c.CounterTop && c.LegHeight <= 0 {
		return nil, nil
	}

	box, err := s.CabinetOBB(id)
	if err != nil {
		return nil, err
	}
	min, max := box.AABB()
	var meshes []*kernel.Mesh

	if c.CounterTop {
		thickness := c.TopThickness
		if thickness <= 0 {
			thickness = scene.DefaultTopThickness
		}
		slab := k.Box(max.X()-min.X(), thickness, max.Z()-min.Z())
		slab = k.Translate(slab,
			(min.X()+max.X())/2,
			max.Y()+thickness/2,
			(min.Z()+max.Z())/2,
		)
		m, err := k.ToMesh(slab)
		if err != nil {
			return nil, err
		}
		m.PartName = c.Name + "/counter-top"
		meshes = append(meshes, m)
	}

	if c.LegHeight > 0 {
		radius := c.LegRadius
		if radius <= 0 {
			radius = scene.DefaultLegRadius
		}
		inset := legInset
		if w := max.X() - min.X(); inset*2 >= w {
			inset = w / 4
		}
		if d := max.Z() - min.Z(); inset*2 >= d {
			inset = d / 4
		}
		corners := [4][2]float64{
			{min.X() + inset, min.Z() + inset},
			{max.X() - inset, min.Z() + inset},
			{min.X() + inset, max.Z() - inset},
			{max.X() - inset, max.Z() - inset},
		}
		for i, corner := range corners {
			// Cylinders come out along Z; stand them up on Y.
			leg := k.Cylinder(c.LegHeight, radius, 24)
			leg = k.Rotate(leg, 90, 0, 0)
			leg = k.Translate(leg, corner[0], min.Y()-c.LegHeight/2, corner[1])
			m, err := k.ToMesh(leg)
			if err != nil {
				return nil, err
			}
			m.PartName = fmt.Sprintf("%s/leg-%d", c.Name, i)
			meshes = append(meshes, m)
		}
	}
	return meshes, nil
}

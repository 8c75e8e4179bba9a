package gosiefps

import "image/color"

// Triangle is a flat shaded face. The normal is cached and kept in sync with
// the vertices by SetVertices.
type Triangle struct {
	vertices [3]Vector3
	normal   Vector3
	Color    color.RGBA
	// TwoSided triangles skip the backface test. Floors use it.
	TwoSided bool
}

func NewTriangle(a, b, c Vector3, clr color.RGBA) Triangle {
	t := Triangle{Color: clr}
	t.SetVertices(a, b, c)
	return t
}

func NewTwoSidedTriangle(a, b, c Vector3, clr color.RGBA) Triangle {
	t := NewTriangle(a, b, c, clr)
	t.TwoSided = true
	return t
}

func (t *Triangle) SetVertices(a, b, c Vector3) {
	t.vertices = [3]Vector3{a, b, c}
	t.createNormal()
}

func (t *Triangle) createNormal() {
	u := t.vertices[1].Sub(t.vertices[0])
	v := t.vertices[2].Sub(t.vertices[0])
	t.normal = u.Cross(v).Normalize()
}

func (t Triangle) Vertices() [3]Vector3 {
	return t.vertices
}

func (t Triangle) Normal() Vector3 {
	return t.normal
}

// Degenerate reports a triangle whose edges are collinear.
func (t Triangle) Degenerate() bool {
	return t.normal == Zero3
}

// get midpoint of the face
func (t Triangle) Centroid() Vector3 {
	return t.vertices[0].Add(t.vertices[1]).Add(t.vertices[2]).Scale(1.0 / 3.0)
}

// FacesPoint is true when p lies on the side the normal points to.
func (t Triangle) FacesPoint(p Vector3) bool {
	return t.normal.Dot(p.Sub(t.Centroid())) > 0
}

// Transformed returns a copy with every vertex passed through fn.
func (t Triangle) Transformed(fn func(Vector3) Vector3) Triangle {
	out := t
	out.SetVertices(fn(t.vertices[0]), fn(t.vertices[1]), fn(t.vertices[2]))
	return out
}

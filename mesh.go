package gosiefps

import (
	"image/color"
	"math"
)

// Mesh is a set of triangles in model space plus a model transform. The
// transform applies scale, then rotation about x, y and z, then translation.
type Mesh struct {
	triangles []Triangle
	Position  Vector3
	Rotation  Vector3
	Scale     Vector3
}

func NewMesh(triangles []Triangle) *Mesh {
	m := &Mesh{Scale: Vector3{1, 1, 1}}
	for _, t := range triangles {
		if t.Degenerate() {
			continue
		}
		m.triangles = append(m.triangles, t)
	}
	return m
}

// NewCubeMesh builds a cube of edge size centred on the origin.
func NewCubeMesh(size float64, clr color.RGBA) *Mesh {
	h := size / 2
	return NewMesh(boxTriangles(Vector3{-h, -h, -h}, Vector3{h, h, h}, clr))
}

// NewPyramidMesh builds a square based pyramid standing on y = 0.
func NewPyramidMesh(height, baseSize float64, clr color.RGBA) *Mesh {
	h := baseSize / 2
	v := [5]Vector3{
		{-h, 0, -h},
		{h, 0, -h},
		{h, 0, h},
		{-h, 0, h},
		{0, height, 0},
	}
	faces := [6][3]int{
		{0, 1, 2}, {0, 2, 3},
		{0, 4, 1}, {1, 4, 2}, {2, 4, 3}, {3, 4, 0},
	}
	tris := make([]Triangle, 0, len(faces))
	for _, f := range faces {
		tris = append(tris, NewTriangle(v[f[0]], v[f[1]], v[f[2]], clr))
	}
	return NewMesh(tris)
}

// NewSphereMesh builds a UV sphere. Fewer than 3 segments are raised to 3.
func NewSphereMesh(radius float64, segments int, clr color.RGBA) *Mesh {
	if segments < 3 {
		segments = 3
	}
	point := func(i, j int) Vector3 {
		theta := math.Pi * float64(i) / float64(segments)
		phi := 2 * math.Pi * float64(j) / float64(segments)
		return Vector3{
			X: radius * math.Sin(theta) * math.Cos(phi),
			Y: radius * math.Cos(theta),
			Z: radius * math.Sin(theta) * math.Sin(phi),
		}
	}

	var tris []Triangle
	for i := 0; i < segments; i++ {
		for j := 0; j < segments; j++ {
			v1 := point(i, j)
			v2 := point(i+1, j)
			v3 := point(i, j+1)
			v4 := point(i+1, j+1)
			tris = append(tris,
				NewTriangle(v1, v3, v2, clr),
				NewTriangle(v2, v3, v4, clr),
			)
		}
	}
	// pole triangles collapse and are dropped by NewMesh
	return NewMesh(tris)
}

func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

func (m *Mesh) TransformVertex(v Vector3) Vector3 {
	v = Vector3{v.X * m.Scale.X, v.Y * m.Scale.Y, v.Z * m.Scale.Z}
	v = v.Rotate(m.Rotation)
	return v.Add(m.Position)
}

// ModelMatrix is the matrix form of TransformVertex.
func (m *Mesh) ModelMatrix() Matrix4 {
	return Translation(m.Position.X, m.Position.Y, m.Position.Z).
		Mul(Rotation(m.Rotation)).
		Mul(Scaling(m.Scale.X, m.Scale.Y, m.Scale.Z))
}

// WorldTriangles appends the transformed triangles to dst. Triangles that
// collapse under the transform are skipped.
func (m *Mesh) WorldTriangles(dst []Triangle) []Triangle {
	for _, t := range m.triangles {
		wt := t.Transformed(m.TransformVertex)
		if wt.Degenerate() {
			continue
		}
		dst = append(dst, wt)
	}
	return dst
}

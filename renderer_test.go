package gosiefps

import (
	"image/color"
	"testing"
)

// facingTri is a triangle centred on the view axis of a camera at the origin
// with default eye height. It faces the camera.
func facingTri(depth float64, clr color.RGBA) Triangle {
	const eye = 1.7
	return NewTriangle(
		Vector3{-1, eye - 1, depth},
		Vector3{0, eye + 1, depth},
		Vector3{1, eye - 1, depth},
		clr,
	)
}

func depthColor(d int) color.RGBA {
	return color.RGBA{R: uint8(d), A: 255}
}

func newTestRenderer(max int) *Renderer3D {
	r := NewRenderer3D(max, DefaultPalette())
	r.Shade = false
	return r
}

func TestProjectTriangle(t *testing.T) {
	cam := NewCamera(Zero3, 0, 1)
	vp := cam.ViewProjection(2)

	testCases := []struct {
		name string
		tri  Triangle
		ok   bool
	}{
		{"in front", facingTri(5, color.RGBA{}), true},
		{"behind the camera", facingTri(-5, color.RGBA{}), false},
		{"beyond the far plane", facingTri(cam.Far*1.5, color.RGBA{}), false},
		{"closer than the near plane", facingTri(cam.Near/2, color.RGBA{}), false},
		{
			"straddling the camera plane",
			NewTriangle(Vector3{-1, 1, -2}, Vector3{0, 2, 5}, Vector3{1, 1, 5}, color.RGBA{}),
			false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := ProjectTriangle(vp, tc.tri, 200, 100); ok != tc.ok {
				t.Errorf("ProjectTriangle() ok = %v, want %v", ok, tc.ok)
			}
		})
	}

	pts, _ := ProjectTriangle(vp, facingTri(5, color.RGBA{}), 200, 100)
	// the apex sits straight above the view axis
	if !almostEqual(pts[1].X, 100) || pts[1].Y >= 50 {
		t.Errorf("apex projected to %v, want x=100 above the centre", pts[1])
	}
	if pts[0].X >= 100 || pts[2].X <= 100 {
		t.Errorf("base projected to %v and %v, want left and right of centre", pts[0], pts[2])
	}
}

func TestRenderPainterOrder(t *testing.T) {
	cam := NewCamera(Zero3, 0, 1)
	r := newTestRenderer(100)
	sink := &recordingSink{}

	world := []Triangle{
		facingTri(3, depthColor(3)),
		facingTri(9, depthColor(9)),
		facingTri(-4, depthColor(4)),
		facingTri(6, depthColor(6)),
	}
	n := r.Render(cam, world, nil, sink, 200, 100)
	if n != 3 {
		t.Fatalf("Render() = %d triangles, want 3", n)
	}
	// two sky bands come first
	got := sink.colors[2:]
	want := []color.RGBA{depthColor(9), depthColor(6), depthColor(3)}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("draw %d colour = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderBudgetDropsFarthest(t *testing.T) {
	cam := NewCamera(Zero3, 0, 1)
	r := newTestRenderer(3)
	sink := &recordingSink{}

	var world []Triangle
	for d := 2; d < 12; d++ {
		world = append(world, facingTri(float64(d), depthColor(d)))
	}
	if n := r.Render(cam, world, nil, sink, 200, 100); n != 3 {
		t.Fatalf("Render() = %d, want 3", n)
	}
	got := sink.colors[2:]
	want := []color.RGBA{depthColor(4), depthColor(3), depthColor(2)}
	if len(got) != len(want) {
		t.Fatalf("emitted %d triangles, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("draw %d colour = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderCulling(t *testing.T) {
	cam := NewCamera(Zero3, 0, 1)
	r := newTestRenderer(100)

	front := facingTri(5, depthColor(1))
	v := front.Vertices()
	back := NewTriangle(v[0], v[2], v[1], depthColor(2))
	twoSided := NewTwoSidedTriangle(v[0], v[2], v[1], depthColor(3))
	flat := NewTriangle(Vector3{0, 0, 5}, Vector3{1, 1, 5}, Vector3{2, 2, 5}, depthColor(4))

	testCases := []struct {
		name string
		tri  Triangle
		want int
	}{
		{"front facing", front, 1},
		{"back facing", back, 0},
		{"back facing two sided", twoSided, 1},
		{"degenerate", flat, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Render(cam, []Triangle{tc.tri}, nil, &recordingSink{}, 200, 100); got != tc.want {
				t.Errorf("Render() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRenderMesh(t *testing.T) {
	cam := NewCamera(Zero3, 0, 1)
	r := newTestRenderer(100)

	cube := NewCubeMesh(1, depthColor(7))
	cube.Position = Vector3{0, 1.7, 5}
	// head on, only the two triangles of the near face are visible
	if got := r.Render(cam, nil, []*Mesh{cube}, &recordingSink{}, 200, 100); got != 2 {
		t.Errorf("Render() = %d, want 2", got)
	}

	cube.Position = Vector3{0, 1.7, -5}
	if got := r.Render(cam, nil, []*Mesh{cube}, &recordingSink{}, 200, 100); got != 0 {
		t.Errorf("mesh behind the camera rendered %d triangles", got)
	}
}

func TestRenderNoOutput(t *testing.T) {
	r := newTestRenderer(100)
	sink := &recordingSink{}
	if got := r.Render(nil, []Triangle{facingTri(5, depthColor(1))}, nil, sink, 200, 100); got != 0 || len(sink.polygons) != 0 {
		t.Errorf("nil camera drew %d polygons", len(sink.polygons))
	}
	if got := r.Render(NewCamera(Zero3, 0, 1), nil, nil, sink, 0, 100); got != 0 || len(sink.polygons) != 0 {
		t.Errorf("zero width drew %d polygons", len(sink.polygons))
	}
}

func TestClipPolygon(t *testing.T) {
	const w, h = 800.0, 600.0

	testCases := []struct {
		name     string
		input    []Point
		expected []Point
	}{
		{
			name:     "Polygon fully inside",
			input:    []Point{{100, 100}, {200, 100}, {150, 200}},
			expected: []Point{{100, 100}, {200, 100}, {150, 200}},
		},
		{
			name:     "Polygon fully outside",
			input:    []Point{{900, 100}, {1000, 100}, {950, 200}},
			expected: []Point{},
		},
		{
			name:     "Polygon clipping right edge",
			input:    []Point{{700, 100}, {900, 100}, {700, 200}},
			expected: []Point{{700, 100}, {800, 100}, {800, 150}, {700, 200}},
		},
		{
			name:     "Polygon clipping top-left corner",
			input:    []Point{{-100, -100}, {100, -100}, {100, 100}, {-100, 100}},
			expected: []Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}},
		},
		{
			name:     "Empty polygon",
			input:    []Point{},
			expected: []Point{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clipped := clipPolygon(tc.input, w, h)
			if !samePolygon(clipped, tc.expected) {
				t.Errorf("clipPolygon() = %v, want %v", clipped, tc.expected)
			}
		})
	}
}

// samePolygon compares two vertex loops that may start at different vertices.
func samePolygon(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	for shift := range a {
		match := true
		for i := range a {
			p, q := a[(i+shift)%len(a)], b[i]
			if !almostEqual(p.X, q.X) || !almostEqual(p.Y, q.Y) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

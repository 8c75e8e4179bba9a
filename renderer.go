package gosiefps

import (
	"image/color"
	"math"
	"sort"
)

// DefaultMaxTriangles is the triangle budget of one frame when the settings
// do not give one.
const DefaultMaxTriangles = 4000

// Renderer3D draws polygonal worlds with the painter's algorithm: visible
// triangles are sorted by centroid distance and painted farthest first.
// Intersecting triangles at similar depth can be drawn in the wrong order.
type Renderer3D struct {
	MaxTriangles int
	Palette      Palette
	// Shade applies flat lighting on top of the triangle colour.
	Shade bool
	// Sky is drawn over the background when set.
	Sky *Sky

	visible []projectedTriangle
	scratch []Triangle
}

type projectedTriangle struct {
	points   []Point
	color    color.RGBA
	distance float64
}

func NewRenderer3D(maxTriangles int, palette Palette) *Renderer3D {
	if maxTriangles < 1 {
		maxTriangles = DefaultMaxTriangles
	}
	return &Renderer3D{
		MaxTriangles: maxTriangles,
		Palette:      palette,
		Shade:        true,
	}
}

// ProjectTriangle maps the vertices of t to screen pixels. It fails when a
// vertex lies behind the eye or outside the near/far depth range.
func ProjectTriangle(viewProjection Matrix4, t Triangle, width, height float64) ([3]Point, bool) {
	var pts [3]Point
	for i, v := range t.Vertices() {
		clip, w := viewProjection.MulPointW(v)
		if w <= 0 {
			return pts, false
		}
		ndc := clip.Div(w)
		if ndc.Z <= 0 || ndc.Z >= 1 {
			return pts, false
		}
		pts[i] = Point{
			X: (ndc.X + 1) / 2 * width,
			Y: (1 - ndc.Y) / 2 * height,
		}
	}
	return pts, true
}

// Render draws the sky, the world triangles and the meshes into sink and
// returns the number of triangles emitted. Triangles are clipped to the
// screen; one entirely off screen is not emitted.
func (r *Renderer3D) Render(cam *Camera, world []Triangle, meshes []*Mesh, sink DrawSink, width, height int) int {
	if cam == nil || width <= 0 || height <= 0 {
		return 0
	}
	w, h := float64(width), float64(height)
	drawSky(sink, r.Palette, w, h)
	if r.Sky != nil {
		horizon := h/2 + math.Tan(cam.Pitch)/math.Tan(cam.FOVRadians()/2)*h/2
		r.Sky.Draw(sink, cam, w, h, math.Max(0, math.Min(h, horizon)))
	}

	vp := cam.ViewProjection(w / h)
	eye := cam.Eye()

	r.visible = r.visible[:0]
	for _, t := range world {
		r.add(vp, eye, t, w, h)
	}
	for _, m := range meshes {
		r.scratch = m.WorldTriangles(r.scratch[:0])
		for _, t := range r.scratch {
			r.add(vp, eye, t, w, h)
		}
	}

	sort.SliceStable(r.visible, func(i, j int) bool {
		return r.visible[i].distance > r.visible[j].distance
	})

	tris := r.visible
	if len(tris) > r.MaxTriangles {
		// over budget: the farthest are at the front
		tris = tris[len(tris)-r.MaxTriangles:]
	}

	for _, p := range tris {
		sink.DrawFilledPolygon(p.points, p.color)
	}
	return len(tris)
}

func (r *Renderer3D) add(vp Matrix4, eye Vector3, t Triangle, w, h float64) {
	if t.Degenerate() {
		return
	}
	if !t.TwoSided && !t.FacesPoint(eye) {
		return
	}
	pts, ok := ProjectTriangle(vp, t, w, h)
	if !ok {
		return
	}
	clipped := clipPolygon(pts[:], w, h)
	if len(clipped) < 3 {
		return
	}
	clr := t.Color
	if r.Shade {
		clr = ShadeFlat(clr, t.Normal())
	}
	r.visible = append(r.visible, projectedTriangle{
		points:   clipped,
		color:    clr,
		distance: t.Centroid().DistanceTo(eye),
	})
}

type clipEdge int

const (
	clipLeft clipEdge = iota
	clipRight
	clipTop
	clipBottom
)

// clipPolygon cuts a convex screen polygon to the rectangle 0,0 - width,height
// one edge at a time.
func clipPolygon(points []Point, width, height float64) []Point {
	out := points
	for e := clipLeft; e <= clipBottom; e++ {
		if len(out) == 0 {
			break
		}
		in := out
		out = make([]Point, 0, len(in)+2)
		prev := in[len(in)-1]
		for _, cur := range in {
			curIn := insideEdge(e, cur, width, height)
			prevIn := insideEdge(e, prev, width, height)
			if curIn {
				if !prevIn {
					out = append(out, intersectEdge(e, prev, cur, width, height))
				}
				out = append(out, cur)
			} else if prevIn {
				out = append(out, intersectEdge(e, prev, cur, width, height))
			}
			prev = cur
		}
	}
	return out
}

func insideEdge(e clipEdge, p Point, width, height float64) bool {
	switch e {
	case clipLeft:
		return p.X >= 0
	case clipRight:
		return p.X <= width
	case clipTop:
		return p.Y >= 0
	}
	return p.Y <= height
}

// intersectEdge is only called for a segment crossing the edge.
func intersectEdge(e clipEdge, a, b Point, width, height float64) Point {
	switch e {
	case clipLeft, clipRight:
		x := 0.0
		if e == clipRight {
			x = width
		}
		t := (x - a.X) / (b.X - a.X)
		return Point{X: x, Y: a.Y + t*(b.Y-a.Y)}
	}
	y := 0.0
	if e == clipBottom {
		y = height
	}
	t := (y - a.Y) / (b.Y - a.Y)
	return Point{X: a.X + t*(b.X-a.X), Y: y}
}

package gosiefps

import (
	"image/color"
	"math"
)

// AABB is an axis aligned box given by its min and max corners.
type AABB struct {
	Min Vector3
	Max Vector3
}

// Intersects reports a strictly positive overlap on every axis. Touching
// faces do not intersect.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X < b.Max.X && a.Max.X > b.Min.X &&
		a.Min.Y < b.Max.Y && a.Max.Y > b.Min.Y &&
		a.Min.Z < b.Max.Z && a.Max.Z > b.Min.Z
}

// IntersectsXZ ignores height.
func (a AABB) IntersectsXZ(b AABB) bool {
	return a.Min.X < b.Max.X && a.Max.X > b.Min.X &&
		a.Min.Z < b.Max.Z && a.Max.Z > b.Min.Z
}

func (a AABB) Contains(p Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

func (a AABB) Size() Vector3 {
	return a.Max.Sub(a.Min)
}

// SegmentHit runs the slab test for the segment from→to and returns the
// fraction of the segment at which it enters a.
func (a AABB) SegmentHit(from, to Vector3) (float64, bool) {
	d := to.Sub(from)
	slabs := [3][4]float64{
		{from.X, d.X, a.Min.X, a.Max.X},
		{from.Y, d.Y, a.Min.Y, a.Max.Y},
		{from.Z, d.Z, a.Min.Z, a.Max.Z},
	}
	tmin, tmax := 0.0, 1.0
	for _, s := range slabs {
		origin, dir, lo, hi := s[0], s[1], s[2], s[3]
		if dir == 0 {
			if origin < lo || origin > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - origin) / dir
		t2 := (hi - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// StaticBox is a solid block. Origin is the min corner; Width runs along X,
// Depth along Z and Height along Y.
type StaticBox struct {
	Origin Vector3
	Width  float64
	Depth  float64
	Height float64
	Color  color.RGBA
}

func (b StaticBox) Bounds() AABB {
	return AABB{
		Min: b.Origin,
		Max: b.Origin.Add(Vector3{b.Width, b.Height, b.Depth}),
	}
}

// Degenerate boxes have no volume and are ignored by collision and drawing.
func (b StaticBox) Degenerate() bool {
	return b.Width <= 0 || b.Depth <= 0 || b.Height <= 0
}

// Triangles returns the twelve outward facing triangles of the box.
func (b StaticBox) Triangles() []Triangle {
	if b.Degenerate() {
		return nil
	}
	bounds := b.Bounds()
	return boxTriangles(bounds.Min, bounds.Max, b.Color)
}

// Indices into boxCorners, wound so that normals point outward.
var boxFaces = [12][3]int{
	{0, 2, 1}, {0, 3, 2}, // back (-z)
	{4, 5, 6}, {4, 6, 7}, // front (+z)
	{0, 4, 7}, {0, 7, 3}, // left (-x)
	{1, 2, 6}, {1, 6, 5}, // right (+x)
	{3, 7, 6}, {3, 6, 2}, // top (+y)
	{0, 1, 5}, {0, 5, 4}, // bottom (-y)
}

func boxCorners(lo, hi Vector3) [8]Vector3 {
	return [8]Vector3{
		{lo.X, lo.Y, lo.Z},
		{hi.X, lo.Y, lo.Z},
		{hi.X, hi.Y, lo.Z},
		{lo.X, hi.Y, lo.Z},
		{lo.X, lo.Y, hi.Z},
		{hi.X, lo.Y, hi.Z},
		{hi.X, hi.Y, hi.Z},
		{lo.X, hi.Y, hi.Z},
	}
}

func boxTriangles(lo, hi Vector3, clr color.RGBA) []Triangle {
	c := boxCorners(lo, hi)
	tris := make([]Triangle, 0, len(boxFaces))
	for _, f := range boxFaces {
		tris = append(tris, NewTriangle(c[f[0]], c[f[1]], c[f[2]], clr))
	}
	return tris
}

// Solids answers collision queries against static geometry.
type Solids interface {
	// Overlapping appends to dst every solid box intersecting box.
	Overlapping(box AABB, dst []AABB) []AABB
}

// Terrain answers walkability queries on the ground plane.
type Terrain interface {
	Walkable(x, z, radius float64) bool
}

// PolyWorld is the static geometry of a polygonal level. It is immutable once
// built: accessors hand out copies.
type PolyWorld struct {
	boxes     []StaticBox
	triangles []Triangle
	// MaxStep is the tallest box an NPC can walk over.
	MaxStep float64
}

// NewPolyWorld drops degenerate boxes and triangles.
func NewPolyWorld(boxes []StaticBox, triangles []Triangle) *PolyWorld {
	w := &PolyWorld{}
	for _, b := range boxes {
		if b.Degenerate() {
			continue
		}
		w.boxes = append(w.boxes, b)
	}
	for _, t := range triangles {
		if t.Degenerate() {
			continue
		}
		w.triangles = append(w.triangles, t)
	}
	return w
}

func (w *PolyWorld) Boxes() []StaticBox {
	out := make([]StaticBox, len(w.boxes))
	copy(out, w.boxes)
	return out
}

// Triangles returns the loose triangles followed by every box face.
func (w *PolyWorld) Triangles() []Triangle {
	out := make([]Triangle, 0, len(w.triangles)+len(w.boxes)*12)
	out = append(out, w.triangles...)
	for _, b := range w.boxes {
		out = append(out, b.Triangles()...)
	}
	return out
}

func (w *PolyWorld) Overlapping(box AABB, dst []AABB) []AABB {
	for _, b := range w.boxes {
		bounds := b.Bounds()
		if bounds.Intersects(box) {
			dst = append(dst, bounds)
		}
	}
	return dst
}

// Occludes is true when any box cuts the segment from→to.
func (w *PolyWorld) Occludes(from, to Vector3) bool {
	for _, b := range w.boxes {
		if _, ok := b.Bounds().SegmentHit(from, to); ok {
			return true
		}
	}
	return false
}

func (w *PolyWorld) Walkable(x, z, radius float64) bool {
	foot := AABB{
		Min: Vector3{x - radius, 0, z - radius},
		Max: Vector3{x + radius, 0, z + radius},
	}
	for _, b := range w.boxes {
		bounds := b.Bounds()
		if bounds.Max.Y <= w.MaxStep {
			continue
		}
		if bounds.IntersectsXZ(foot) {
			return false
		}
	}
	return true
}

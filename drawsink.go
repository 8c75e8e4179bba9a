package gosiefps

import "image/color"

// Point is a screen position in pixels, y growing downward.
type Point struct {
	X float64
	Y float64
}

// DrawSink receives the draw calls of one frame in painting order.
type DrawSink interface {
	DrawFilledPolygon(points []Point, clr color.RGBA)
	DrawLine(a, b Point, clr color.RGBA, width float64)
}

type DrawKind int

const (
	DrawKindPolygon DrawKind = iota
	DrawKindLine
)

type DrawCall struct {
	Kind   DrawKind
	Points []Point
	Color  color.RGBA
	Width  float64
}

// DrawList records a frame. A frame is built into a fresh list and only
// handed to the presentation layer once complete.
type DrawList struct {
	Calls []DrawCall
}

func NewDrawList() *DrawList {
	return &DrawList{Calls: make([]DrawCall, 0, 256)}
}

// DrawFilledPolygon ignores polygons with fewer than three points.
func (d *DrawList) DrawFilledPolygon(points []Point, clr color.RGBA) {
	if len(points) < 3 {
		return
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	d.Calls = append(d.Calls, DrawCall{Kind: DrawKindPolygon, Points: pts, Color: clr})
}

func (d *DrawList) DrawLine(a, b Point, clr color.RGBA, width float64) {
	d.Calls = append(d.Calls, DrawCall{Kind: DrawKindLine, Points: []Point{a, b}, Color: clr, Width: width})
}

func (d *DrawList) Len() int {
	return len(d.Calls)
}

// Polygons counts the filled polygon calls.
func (d *DrawList) Polygons() int {
	n := 0
	for _, c := range d.Calls {
		if c.Kind == DrawKindPolygon {
			n++
		}
	}
	return n
}

// Translate shifts every call recorded from index from onward.
func (d *DrawList) Translate(from int, dx, dy float64) {
	for i := max(from, 0); i < len(d.Calls); i++ {
		pts := d.Calls[i].Points
		for j := range pts {
			pts[j].X += dx
			pts[j].Y += dy
		}
	}
}

// Replay sends every recorded call to sink in order.
func (d *DrawList) Replay(sink DrawSink) {
	for _, c := range d.Calls {
		switch c.Kind {
		case DrawKindPolygon:
			sink.DrawFilledPolygon(c.Points, c.Color)
		case DrawKindLine:
			sink.DrawLine(c.Points[0], c.Points[1], c.Color, c.Width)
		}
	}
}

func rectPoints(x0, y0, x1, y1 float64) []Point {
	return []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

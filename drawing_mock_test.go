package gosiefps

import "image/color"

// recordingSink is a DrawSink for tests. It keeps what it was sent.
type recordingSink struct {
	polygons [][]Point
	colors   []color.RGBA
	lines    int
}

func (s *recordingSink) DrawFilledPolygon(points []Point, clr color.RGBA) {
	s.polygons = append(s.polygons, points)
	s.colors = append(s.colors, clr)
}

func (s *recordingSink) DrawLine(a, b Point, clr color.RGBA, width float64) {
	s.lines++
}

package ebitenview

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/smasonuk/gosiefps"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	whiteSub   *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)
	whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// ImageSink paints draw calls onto an ebiten image. Filled polygons are
// batched into one DrawTriangles call until a line or Flush breaks the batch,
// so painting order is kept.
type ImageSink struct {
	Screen    *ebiten.Image
	AntiAlias bool

	vertices []ebiten.Vertex
	indices  []uint16

	// batch and stroke do the painting; tests replace them.
	batch  func(vertices []ebiten.Vertex, indices []uint16)
	stroke func(a, b gosiefps.Point, clr color.RGBA, width float64)
}

func NewImageSink(screen *ebiten.Image) *ImageSink {
	s := &ImageSink{
		Screen:   screen,
		vertices: make([]ebiten.Vertex, 0, 4096),
		indices:  make([]uint16, 0, 6144),
	}
	s.batch = func(vertices []ebiten.Vertex, indices []uint16) {
		op := &ebiten.DrawTrianglesOptions{AntiAlias: s.AntiAlias}
		s.Screen.DrawTriangles(vertices, indices, whiteSub, op)
	}
	s.stroke = func(a, b gosiefps.Point, clr color.RGBA, width float64) {
		vector.StrokeLine(s.Screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), clr, s.AntiAlias)
	}
	return s
}

// DrawFilledPolygon fans a convex polygon into triangles.
func (s *ImageSink) DrawFilledPolygon(points []gosiefps.Point, clr color.RGBA) {
	if len(points) < 3 {
		return
	}
	if len(s.vertices)+len(points) > math.MaxUint16 {
		s.Flush()
	}

	cr := float32(clr.R) / 255.0
	cg := float32(clr.G) / 255.0
	cb := float32(clr.B) / 255.0
	ca := float32(clr.A) / 255.0

	base := uint16(len(s.vertices))
	for _, p := range points {
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	for i := 2; i < len(points); i++ {
		s.indices = append(s.indices, base, base+uint16(i-1), base+uint16(i))
	}
}

func (s *ImageSink) DrawLine(a, b gosiefps.Point, clr color.RGBA, width float64) {
	s.Flush()
	s.stroke(a, b, clr, width)
}

// Flush draws the pending polygon batch.
func (s *ImageSink) Flush() {
	if len(s.indices) == 0 {
		s.vertices = s.vertices[:0]
		return
	}
	s.batch(s.vertices, s.indices)
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}

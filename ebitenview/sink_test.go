package ebitenview

import (
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/smasonuk/gosiefps"
)

type batchRecord struct {
	vertices int
	indices  []uint16
}

// recordingImageSink swaps the painting out for a log of batches and lines.
func recordingImageSink() (*ImageSink, *[]batchRecord, *int) {
	s := NewImageSink(nil)
	var batches []batchRecord
	lines := 0
	s.batch = func(vertices []ebiten.Vertex, indices []uint16) {
		batches = append(batches, batchRecord{vertices: len(vertices), indices: slices.Clone(indices)})
	}
	s.stroke = func(a, b gosiefps.Point, clr color.RGBA, width float64) {
		lines++
	}
	return s, &batches, &lines
}

func TestImageSinkFansPolygons(t *testing.T) {
	s, batches, _ := recordingImageSink()
	red := color.RGBA{R: 255, A: 255}

	s.DrawFilledPolygon([]gosiefps.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, red)
	s.DrawFilledPolygon([]gosiefps.Point{{0, 0}, {5, 0}, {5, 5}}, red)
	s.DrawFilledPolygon([]gosiefps.Point{{0, 0}, {5, 0}}, red)
	if len(*batches) != 0 {
		t.Fatalf("painted %d batches before a flush", len(*batches))
	}

	s.Flush()
	if len(*batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(*batches))
	}
	b := (*batches)[0]
	want := []uint16{0, 1, 2, 0, 2, 3, 4, 5, 6}
	if b.vertices != 7 || !slices.Equal(b.indices, want) {
		t.Errorf("batch = %d vertices %v, want 7 and %v", b.vertices, b.indices, want)
	}
	if len(s.vertices) != 0 || len(s.indices) != 0 {
		t.Errorf("flush left %d vertices %d indices", len(s.vertices), len(s.indices))
	}

	s.Flush()
	if len(*batches) != 1 {
		t.Error("an empty flush painted a batch")
	}
}

func TestImageSinkLineBreaksBatch(t *testing.T) {
	s, batches, lines := recordingImageSink()
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	square := []gosiefps.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	s.DrawFilledPolygon(square, white)
	s.DrawLine(gosiefps.Point{X: 0, Y: 0}, gosiefps.Point{X: 5, Y: 5}, white, 2)
	s.DrawFilledPolygon(square, white)
	s.Flush()

	if *lines != 1 || len(*batches) != 2 {
		t.Fatalf("lines %d batches %d, want 1 and 2", *lines, len(*batches))
	}
	// the polygon after the line starts a fresh batch at vertex 0
	if got := (*batches)[1].indices; !slices.Equal(got, []uint16{0, 1, 2, 0, 2, 3}) {
		t.Errorf("second batch indices = %v", got)
	}
}

func TestImageSinkSplitsLargeBatches(t *testing.T) {
	s, batches, _ := recordingImageSink()
	square := []gosiefps.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	n := math.MaxUint16/len(square) + 1
	for i := 0; i < n; i++ {
		s.DrawFilledPolygon(square, color.RGBA{A: 255})
	}
	s.Flush()

	if len(*batches) != 2 {
		t.Fatalf("batches = %d, want the overflow split in two", len(*batches))
	}
	total := 0
	for _, b := range *batches {
		if b.vertices > math.MaxUint16 {
			t.Errorf("batch of %d vertices overflows the index type", b.vertices)
		}
		total += b.vertices
	}
	if total != n*len(square) {
		t.Errorf("painted %d vertices, want %d", total, n*len(square))
	}
}

package gosiefps

import (
	"errors"
	"fmt"
	"math"
)

// Cell is a grid cell value: 0 is empty, anything above is a solid material.
type Cell int

const (
	Empty Cell = 0
	// BoundaryCell is what every out of range index reads as.
	BoundaryCell Cell = -1
)

// gridWallHeight is the collision height of a grid wall in cells.
const gridWallHeight = 16

var (
	ErrEmptyGrid      = errors.New("grid has no cells")
	ErrTickInProgress = errors.New("geometry is locked while a tick is running")
)

func (c Cell) Solid() bool {
	return c != Empty
}

// GridWorld is a 2D occupancy grid. Grid x maps to world X and grid y maps to
// world Z, each cell spanning CellSize world units.
type GridWorld struct {
	cells    [][]Cell
	width    int
	height   int
	cellSize float64
	locked   bool
}

// NewGridWorld copies rows, indexed rows[y][x]. Ragged rows are padded with
// solid cells. Negative values are stored as material 1.
func NewGridWorld(rows [][]int, cellSize float64) (*GridWorld, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyGrid
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if width == 0 {
		return nil, ErrEmptyGrid
	}
	if cellSize <= 0 || math.IsNaN(cellSize) {
		return nil, fmt.Errorf("invalid cell size %v", cellSize)
	}

	g := &GridWorld{
		cells:    make([][]Cell, len(rows)),
		width:    width,
		height:   len(rows),
		cellSize: cellSize,
	}
	for y, r := range rows {
		g.cells[y] = make([]Cell, width)
		for x := 0; x < width; x++ {
			v := 1
			if x < len(r) {
				v = r[x]
			}
			if v < 0 {
				v = 1
			}
			g.cells[y][x] = Cell(v)
		}
	}
	return g, nil
}

func (g *GridWorld) Width() int {
	return g.width
}

func (g *GridWorld) Height() int {
	return g.height
}

func (g *GridWorld) CellSize() float64 {
	return g.cellSize
}

// At returns BoundaryCell outside the grid.
func (g *GridWorld) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return BoundaryCell
	}
	return g.cells[y][x]
}

func (g *GridWorld) Solid(x, y int) bool {
	return g.At(x, y).Solid()
}

// Set edits one cell. It fails while the grid is locked by a running tick or
// when the index is out of range.
func (g *GridWorld) Set(x, y int, c Cell) error {
	if g.locked {
		return ErrTickInProgress
	}
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return fmt.Errorf("cell %d,%d outside %dx%d grid", x, y, g.width, g.height)
	}
	if c < 0 {
		c = 1
	}
	g.cells[y][x] = c
	return nil
}

func (g *GridWorld) lock()   { g.locked = true }
func (g *GridWorld) unlock() { g.locked = false }

// CellAt converts a world position on the ground plane to cell indices.
func (g *GridWorld) CellAt(x, z float64) (int, int) {
	return int(math.Floor(x / g.cellSize)), int(math.Floor(z / g.cellSize))
}

// CellCenter returns the world position of the middle of a cell.
func (g *GridWorld) CellCenter(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * g.cellSize, (float64(cy) + 0.5) * g.cellSize
}

func (g *GridWorld) cellBounds(cx, cy int) AABB {
	return AABB{
		Min: Vector3{float64(cx) * g.cellSize, 0, float64(cy) * g.cellSize},
		Max: Vector3{float64(cx+1) * g.cellSize, gridWallHeight * g.cellSize, float64(cy+1) * g.cellSize},
	}
}

// Overlapping reports the solid cells under box, including boundary cells
// outside the grid.
func (g *GridWorld) Overlapping(box AABB, dst []AABB) []AABB {
	x0, y0 := g.CellAt(box.Min.X, box.Min.Z)
	x1, y1 := g.CellAt(box.Max.X, box.Max.Z)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if !g.Solid(cx, cy) {
				continue
			}
			b := g.cellBounds(cx, cy)
			if b.Intersects(box) {
				dst = append(dst, b)
			}
		}
	}
	return dst
}

// Walkable is true when the square of half width radius around x,z touches no
// solid cell.
func (g *GridWorld) Walkable(x, z, radius float64) bool {
	if radius <= 0 {
		return !g.Solid(g.CellAt(x, z))
	}
	foot := AABB{
		Min: Vector3{x - radius, 0, z - radius},
		Max: Vector3{x + radius, 1, z + radius},
	}
	x0, y0 := g.CellAt(foot.Min.X, foot.Min.Z)
	x1, y1 := g.CellAt(foot.Max.X, foot.Max.Z)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if g.Solid(cx, cy) && g.cellBounds(cx, cy).IntersectsXZ(foot) {
				return false
			}
		}
	}
	return true
}

// EmptyCells lists every empty cell in row order.
func (g *GridWorld) EmptyCells() [][2]int {
	var out [][2]int
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if !g.cells[y][x].Solid() {
				out = append(out, [2]int{x, y})
			}
		}
	}
	return out
}

package gosiefps

import (
	"image/color"
	"math"
	"sort"
)

// MaxRaySteps bounds a single cast no matter what the grid looks like.
const MaxRaySteps = 4096

// WallEpsilon keeps the wall height finite at zero distance.
const WallEpsilon = 1e-4

type Axis int

const (
	// AxisX means the ray crossed a vertical grid line (an x side).
	AxisX Axis = iota
	AxisY
)

// RayHit is the result of a cast. Distances are in world units along the ray.
type RayHit struct {
	Distance float64
	Cell     Cell
	Axis     Axis
	CellX    int
	CellY    int
	// Hit is false when the ray ran out of distance or steps in open space.
	Hit bool
}

// CastRay walks the grid from x, y (world units) along angle using DDA. A ray
// leaving the grid reports a boundary hit at maxDistance; a ray that travels
// maxDistance without hitting reports a miss at maxDistance.
func CastRay(g *GridWorld, x, y, angle, maxDistance float64) RayHit {
	if maxDistance <= 0 || math.IsNaN(maxDistance) {
		return RayHit{}
	}
	miss := RayHit{Distance: maxDistance, Cell: Empty}
	if g == nil || math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(angle) {
		return miss
	}

	cs := g.cellSize
	posX, posY := x/cs, y/cs
	mapX, mapY := int(math.Floor(posX)), int(math.Floor(posY))

	if mapX < 0 || mapY < 0 || mapX >= g.width || mapY >= g.height {
		return RayHit{Distance: maxDistance, Cell: BoundaryCell, CellX: mapX, CellY: mapY, Hit: true}
	}
	if c := g.At(mapX, mapY); c.Solid() {
		return RayHit{Distance: 0, Cell: c, CellX: mapX, CellY: mapY, Hit: true}
	}

	dirX, dirY := math.Cos(angle), math.Sin(angle)

	var deltaDistX, deltaDistY float64
	if dirX == 0 {
		deltaDistX = 1e30
	} else {
		deltaDistX = math.Abs(1 / dirX)
	}
	if dirY == 0 {
		deltaDistY = 1e30
	} else {
		deltaDistY = math.Abs(1 / dirY)
	}

	var stepX, stepY int
	var sideDistX, sideDistY float64
	if dirX < 0 {
		stepX = -1
		sideDistX = (posX - float64(mapX)) * deltaDistX
	} else {
		stepX = 1
		sideDistX = (float64(mapX) + 1.0 - posX) * deltaDistX
	}
	if dirY < 0 {
		stepY = -1
		sideDistY = (posY - float64(mapY)) * deltaDistY
	} else {
		stepY = 1
		sideDistY = (float64(mapY) + 1.0 - posY) * deltaDistY
	}

	maxCells := maxDistance / cs
	for step := 0; step < MaxRaySteps; step++ {
		var dist float64
		var axis Axis
		if sideDistX < sideDistY {
			dist = sideDistX
			sideDistX += deltaDistX
			mapX += stepX
			axis = AxisX
		} else {
			dist = sideDistY
			sideDistY += deltaDistY
			mapY += stepY
			axis = AxisY
		}

		if dist > maxCells {
			return miss
		}
		if mapX < 0 || mapY < 0 || mapX >= g.width || mapY >= g.height {
			return RayHit{Distance: maxDistance, Cell: BoundaryCell, Axis: axis, CellX: mapX, CellY: mapY, Hit: true}
		}
		if c := g.cells[mapY][mapX]; c.Solid() {
			return RayHit{Distance: dist * cs, Cell: c, Axis: axis, CellX: mapX, CellY: mapY, Hit: true}
		}
	}
	return miss
}

// CorrectFishEye projects a ray distance onto the view direction.
func CorrectFishEye(distance, rayAngle, viewAngle float64) float64 {
	return distance * math.Cos(rayAngle-viewAngle)
}

// WallHeight converts a corrected distance, measured in cells, to a column
// height in pixels.
func WallHeight(corrected, screenH float64) float64 {
	if corrected < 0 {
		corrected = 0
	}
	return math.Min(screenH, screenH/(corrected+WallEpsilon))
}

// Sprite is a billboard drawn by the ray caster, typically an NPC.
type Sprite struct {
	Position Vector3
	Radius   float64
	Height   float64
	Color    color.RGBA
}

// RayCaster renders grid worlds column by column.
type RayCaster struct {
	Columns     int
	MaxDistance float64
	Palette     Palette
	// Sky is drawn over the sky band when set.
	Sky *Sky

	depth []float64
}

func NewRayCaster(columns int, maxDistance float64, palette Palette) *RayCaster {
	if columns < 1 {
		columns = 1
	}
	return &RayCaster{
		Columns:     columns,
		MaxDistance: maxDistance,
		Palette:     palette,
	}
}

// Depths exposes the corrected wall distance of every column from the last
// render. Columns with no wall hold +Inf.
func (r *RayCaster) Depths() []float64 {
	return r.depth
}

// ColumnAngle is the ray angle of column i. Column 0 is the left edge of the
// screen.
func (r *RayCaster) ColumnAngle(view, fov float64, i int) float64 {
	n := float64(r.Columns)
	return view + fov/2 - (float64(i)+0.5)*fov/n
}

func (r *RayCaster) Render(g *GridWorld, cam *Camera, sprites []Sprite, sink DrawSink, width, height int) {
	if g == nil || cam == nil || width <= 0 || height <= 0 {
		return
	}
	w, h := float64(width), float64(height)
	horizon := h/2 + math.Tan(cam.Pitch)*h/2
	horizon = math.Max(0, math.Min(h, horizon))

	sink.DrawFilledPolygon(rectPoints(0, 0, w, horizon), r.Palette.Sky)
	sink.DrawFilledPolygon(rectPoints(0, horizon, w, h), r.Palette.Floor)
	if r.Sky != nil {
		r.Sky.Draw(sink, cam, w, h, horizon)
	}

	if len(r.depth) != r.Columns {
		r.depth = make([]float64, r.Columns)
	}

	view := cam.GridAngle()
	fov := cam.FOVRadians()
	cs := g.CellSize()
	colW := w / float64(r.Columns)

	for i := 0; i < r.Columns; i++ {
		r.depth[i] = math.Inf(1)
		angle := r.ColumnAngle(view, fov, i)
		hit := CastRay(g, cam.Position.X, cam.Position.Z, angle, r.MaxDistance)
		if !hit.Hit {
			continue
		}
		corrected := CorrectFishEye(hit.Distance, angle, view)
		r.depth[i] = corrected

		lineH := WallHeight(corrected/cs, h)
		clr := r.Palette.Material(hit.Cell)
		if hit.Axis == AxisY {
			clr = darken(clr, 0.7)
		}
		clr = fog(clr, corrected/r.MaxDistance)

		x0 := float64(i) * colW
		sink.DrawFilledPolygon(rectPoints(x0, horizon-lineH/2, x0+colW, horizon+lineH/2), clr)
	}

	r.drawSprites(cam, sprites, sink, w, h, horizon, cs, view, fov, colW)
}

func (r *RayCaster) drawSprites(cam *Camera, sprites []Sprite, sink DrawSink, w, h, horizon, cs, view, fov, colW float64) {
	type placed struct {
		sprite Sprite
		depth  float64
		rel    float64
	}
	visible := make([]placed, 0, len(sprites))
	for _, s := range sprites {
		dx := s.Position.X - cam.Position.X
		dz := s.Position.Z - cam.Position.Z
		dist := math.Hypot(dx, dz)
		if dist == 0 || dist > r.MaxDistance {
			continue
		}
		rel := AngleDiff(view, math.Atan2(dz, dx))
		if math.Abs(rel) > fov/2+math.Atan2(s.Radius, dist) {
			continue
		}
		depth := dist * math.Cos(rel)
		if depth <= 0 {
			continue
		}
		visible = append(visible, placed{sprite: s, depth: depth, rel: rel})
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].depth > visible[j].depth
	})

	for _, p := range visible {
		scale := WallHeight(p.depth/cs, h)
		bottom := horizon + scale/2
		top := bottom - scale*p.sprite.Height/cs
		halfW := scale * p.sprite.Radius / cs
		centerX := (fov/2 - p.rel) / fov * w

		first := int(math.Floor((centerX - halfW) / colW))
		last := int(math.Ceil((centerX+halfW)/colW)) - 1
		first = clamp(first, 0, r.Columns-1)
		last = clamp(last, 0, r.Columns-1)

		clr := fog(p.sprite.Color, p.depth/r.MaxDistance)
		runStart := -1
		flush := func(end int) {
			if runStart < 0 {
				return
			}
			x0 := math.Max(float64(runStart)*colW, centerX-halfW)
			x1 := math.Min(float64(end+1)*colW, centerX+halfW)
			if x1 > x0 {
				sink.DrawFilledPolygon(rectPoints(x0, top, x1, bottom), clr)
			}
			runStart = -1
		}
		for i := first; i <= last; i++ {
			if r.depth[i] > p.depth {
				if runStart < 0 {
					runStart = i
				}
				continue
			}
			flush(i - 1)
		}
		flush(last)
	}
}

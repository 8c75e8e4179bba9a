package gosiefps

import (
	"fmt"
	"math/rand"

	"github.com/aquilax/go-perlin"
)

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinIters = 3
	// wallThreshold is the noise level above which a grid cell becomes wall.
	wallThreshold = 0.18
)

// GenerateGridLevel builds a walled grid with noise carved interior walls.
// Cells not reachable from the spawn are filled in, so every NPC can reach
// the player.
func GenerateGridLevel(width, height int, seed int64, npcCount int) *Level {
	if width < 3 {
		width = 3
	}
	if height < 3 {
		height = 3
	}
	rng := rand.New(rand.NewSource(seed))
	noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinIters, seed)

	grid := make([][]int, height)
	for y := range grid {
		grid[y] = make([]int, width)
		for x := range grid[y] {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				grid[y][x] = 1 + (x+y)%3
				continue
			}
			n := noise.Noise2D(float64(x)/6, float64(y)/6)
			if n > wallThreshold {
				grid[y][x] = 1 + int((n-wallThreshold)*10)%5
			}
		}
	}

	sx, sy := width/2, height/2
	for y := sy - 1; y <= sy+1; y++ {
		for x := sx - 1; x <= sx+1; x++ {
			if x > 0 && y > 0 && x < width-1 && y < height-1 {
				grid[y][x] = 0
			}
		}
	}
	reachable := fillUnreachable(grid, sx, sy)

	cs := ClassicCellSize
	l := &Level{
		Name:     fmt.Sprintf("grid-%d", seed),
		Kind:     GridLevel,
		CellSize: cs,
		Grid:     grid,
		Spawn: SpawnSpec{
			Position: [3]float64{(float64(sx) + 0.5) * cs, 0, (float64(sy) + 0.5) * cs},
		},
	}

	// keep NPCs off the spawn block
	var spots [][2]int
	for _, c := range reachable {
		if abs(c[0]-sx) > 2 || abs(c[1]-sy) > 2 {
			spots = append(spots, c)
		}
	}
	rng.Shuffle(len(spots), func(i, j int) { spots[i], spots[j] = spots[j], spots[i] })

	explorerKinds := []ExplorerKind{Wander, Patrol, Follow, Flee}
	for i := 0; i < npcCount && i < len(spots); i++ {
		pos := [3]float64{(float64(spots[i][0]) + 0.5) * cs, 0, (float64(spots[i][1]) + 0.5) * cs}
		if i%2 == 0 {
			l.NPCs = append(l.NPCs, NPCSpec{
				Family:   "explorer",
				Kind:     explorerKinds[(i/2)%len(explorerKinds)].String(),
				Position: pos,
				Dialogue: true,
			})
			continue
		}
		kind := Demon
		if (i/2)%2 == 1 {
			kind = Zombie
		}
		l.NPCs = append(l.NPCs, NPCSpec{Family: "combat", Kind: kind.String(), Position: pos})
	}
	return l
}

// fillUnreachable walls off every empty cell the flood from x, y does not
// reach and returns the reached cells.
func fillUnreachable(grid [][]int, x, y int) [][2]int {
	h := len(grid)
	w := len(grid[0])
	seen := make([][]bool, h)
	for i := range seen {
		seen[i] = make([]bool, w)
	}

	var reached [][2]int
	stack := [][2]int{{x, y}}
	seen[y][x] = true
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reached = append(reached, c)
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := c[0]+d[0], c[1]+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h || seen[ny][nx] || grid[ny][nx] != 0 {
				continue
			}
			seen[ny][nx] = true
			stack = append(stack, [2]int{nx, ny})
		}
	}

	for cy := range grid {
		for cx := range grid[cy] {
			if grid[cy][cx] == 0 && !seen[cy][cx] {
				grid[cy][cx] = 1
			}
		}
	}
	return reached
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// GeneratePolygonLevel builds the arena: a checkered floor, a perimeter wall
// laid in four cell segments, noise sized columns and platforms, and
// alternating demons and zombies.
func GeneratePolygonLevel(cells int, seed int64, npcCount int) *Level {
	if cells < 12 {
		cells = 12
	}
	rng := rand.New(rand.NewSource(seed))
	noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinIters, seed)

	cs := metresPerCell
	half := float64(cells) * cs / 2
	l := &Level{
		Name:     fmt.Sprintf("arena-%d", seed),
		Kind:     PolygonLevel,
		CellSize: cs,
		Spawn:    SpawnSpec{Position: [3]float64{0, 0, 0}},
	}

	for x := 0; x < cells; x++ {
		for z := 0; z < cells; z++ {
			x0, z0 := -half+float64(x)*cs, -half+float64(z)*cs
			x1, z1 := x0+cs, z0+cs
			clr := "#b3b3b3"
			if (x+z)%2 != 0 {
				clr = "#808080"
			}
			l.Triangles = append(l.Triangles,
				TriangleSpec{Vertices: [3][3]float64{{x0, 0, z0}, {x0, 0, z1}, {x1, 0, z1}}, Color: clr, TwoSided: true},
				TriangleSpec{Vertices: [3][3]float64{{x0, 0, z0}, {x1, 0, z1}, {x1, 0, z0}}, Color: clr, TwoSided: true},
			)
		}
	}

	const wallHeight = 3.0
	const wallThickness = 0.4
	seg := 4 * cs
	for i := 0; i < cells; i += 4 {
		start := -half + float64(i)*cs
		length := seg
		if start+length > half {
			length = half - start
		}
		l.Boxes = append(l.Boxes,
			BoxSpec{Min: [3]float64{start, 0, -half - wallThickness}, Size: [3]float64{length, wallHeight, wallThickness}, Color: "#666666"},
			BoxSpec{Min: [3]float64{start, 0, half}, Size: [3]float64{length, wallHeight, wallThickness}, Color: "#666666"},
			BoxSpec{Min: [3]float64{-half - wallThickness, 0, start}, Size: [3]float64{wallThickness, wallHeight, length}, Color: "#666666"},
			BoxSpec{Min: [3]float64{half, 0, start}, Size: [3]float64{wallThickness, wallHeight, length}, Color: "#666666"},
		)
	}

	inner := half - 5
	place := func() (float64, float64) {
		for {
			x := (rng.Float64()*2 - 1) * inner
			z := (rng.Float64()*2 - 1) * inner
			if x*x+z*z > 16 {
				return x, z
			}
		}
	}
	// noise is in [-1, 1]; map it to [0, 1]
	unit := func(x, z float64) float64 {
		return clampf(noise.Noise2D(x/10, z/10)+0.5, 0, 1)
	}

	for i := 0; i < 20; i++ {
		x, z := place()
		height := lerp(2, 5, unit(x, z))
		size := 2 * lerp(0.3, 0.8, rng.Float64())
		l.Boxes = append(l.Boxes, BoxSpec{
			Min:   [3]float64{x - size/2, 0, z - size/2},
			Size:  [3]float64{size, height, size},
			Color: "#999999",
		})
	}
	for i := 0; i < 10; i++ {
		x, z := place()
		height := lerp(1, 3, unit(z, x))
		size := lerp(2, 5, rng.Float64())
		l.Boxes = append(l.Boxes, BoxSpec{
			Min:   [3]float64{x - size/2, 0, z - size/2},
			Size:  [3]float64{size, height, size},
			Color: "#cc9966",
		})
	}

	free := func(x, z float64) bool {
		for _, b := range l.Boxes {
			if x > b.Min[0]-1 && x < b.Min[0]+b.Size[0]+1 && z > b.Min[2]-1 && z < b.Min[2]+b.Size[2]+1 {
				return false
			}
		}
		return true
	}
	for i := 0; i < npcCount; i++ {
		x, z := place()
		for tries := 0; tries < 100 && !free(x, z); tries++ {
			x, z = place()
		}
		kind := Demon
		if i%2 == 1 {
			kind = Zombie
		}
		l.NPCs = append(l.NPCs, NPCSpec{Family: "combat", Kind: kind.String(), Position: [3]float64{x, 0, z}})
	}
	return l
}

package gosiefps

import (
	"image/color"
	"math"
	"math/rand"
	"sort"
)

const (
	CloudCount = 20
	SunRays    = 12

	// Clouds drift along X and wrap inside +-skyExtent sky units.
	skyExtent      = 100.0
	cloudPuffs     = 3
	ellipseSegment = 12
)

var (
	sunColor    = color.RGBA{R: 255, G: 255, B: 204, A: 204}
	sunRayColor = color.RGBA{R: 255, G: 255, B: 128, A: 255}
	cloudColor  = color.RGBA{R: 255, G: 255, B: 255, A: 179}
)

// Cloud is a cluster of puffs. Position and Size are sky units; Speed is
// sky units per second along +X.
type Cloud struct {
	X, Y, Z float64
	Size    float64
	Speed   float64
	// Puffs are the offsets of the ellipses, in multiples of Size.
	Puffs [cloudPuffs]Point
}

// Sky is the backdrop of a level: a sun and a layer of drifting clouds.
// It owns its random source so drifting does not disturb gameplay.
type Sky struct {
	Clouds []Cloud
	// Meter converts world positions to sky units for parallax.
	Meter float64

	rng *rand.Rand
}

func NewSky(seed int64, meter float64) *Sky {
	if meter <= 0 {
		meter = 1
	}
	s := &Sky{
		Clouds: make([]Cloud, CloudCount),
		Meter:  meter,
		rng:    rand.New(rand.NewSource(seed)),
	}
	for i := range s.Clouds {
		c := &s.Clouds[i]
		c.X = s.uniform(-skyExtent, skyExtent)
		s.scatter(c)
		c.Size = s.uniform(5, 15)
		c.Speed = s.uniform(0.1, 0.5)
		for j := range c.Puffs {
			c.Puffs[j] = Point{X: s.uniform(-1, 1), Y: s.uniform(-0.5, 0.5)}
		}
	}
	s.sortClouds()
	return s
}

func (s *Sky) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *Sky) scatter(c *Cloud) {
	c.Y = s.uniform(20, 50)
	c.Z = s.uniform(-skyExtent, skyExtent)
}

// sortClouds keeps far clouds first so near ones paint over them.
func (s *Sky) sortClouds() {
	sort.SliceStable(s.Clouds, func(i, j int) bool {
		return s.Clouds[i].Z > s.Clouds[j].Z
	})
}

// Update drifts the clouds. One leaving past +X comes back at -X at a new
// height and depth.
func (s *Sky) Update(dt float64) {
	wrapped := false
	for i := range s.Clouds {
		c := &s.Clouds[i]
		c.X += c.Speed * dt
		if c.X > skyExtent {
			c.X = -skyExtent
			s.scatter(c)
			wrapped = true
		}
	}
	if wrapped {
		s.sortClouds()
	}
}

// Draw paints the sun and the clouds above horizon. Anything off screen or
// below the horizon is skipped.
func (s *Sky) Draw(sink DrawSink, cam *Camera, w, h, horizon float64) {
	if cam == nil || w <= 0 || h <= 0 {
		return
	}

	r := h / 20
	sun := Point{X: 0.8 * w, Y: horizon - 0.3*h}
	if sun.Y+2*r > 0 && sun.Y+r < horizon {
		sink.DrawFilledPolygon(ellipse(sun, r, r), sunColor)
		for i := 0; i < SunRays; i++ {
			a := 2 * math.Pi * float64(i) / SunRays
			dir := Point{X: math.Cos(a), Y: math.Sin(a)}
			sink.DrawLine(
				Point{sun.X + dir.X*r*1.1, sun.Y + dir.Y*r*1.1},
				Point{sun.X + dir.X*r*1.5, sun.Y + dir.Y*r*1.5},
				sunRayColor, 3)
		}
	}

	camX := cam.Position.X / s.Meter
	camY := cam.Position.Y / s.Meter
	unit := w / (4 * skyExtent)
	for _, c := range s.Clouds {
		cx := w/2 + (c.X-camX)*unit
		cy := horizon - (c.Y-camY)*unit
		rx, ry := c.Size*unit, c.Size*unit/2
		if cx+2*rx < 0 || cx-2*rx > w || cy+ry < 0 || cy+ry > horizon {
			continue
		}
		for _, p := range c.Puffs {
			center := Point{X: cx + p.X*rx, Y: cy + p.Y*ry}
			sink.DrawFilledPolygon(ellipse(center, rx, ry), cloudColor)
		}
	}
}

func ellipse(c Point, rx, ry float64) []Point {
	pts := make([]Point, ellipseSegment)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / ellipseSegment
		pts[i] = Point{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)}
	}
	return pts
}

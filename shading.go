package gosiefps

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Palette holds the colours a level is drawn with.
type Palette struct {
	SkyTop    color.RGBA
	Sky       color.RGBA
	Floor     color.RGBA
	Materials []color.RGBA
	Boundary  color.RGBA
}

func DefaultPalette() Palette {
	return Palette{
		SkyTop: color.RGBA{R: 128, G: 179, B: 255, A: 255},
		Sky:    color.RGBA{R: 26, G: 51, B: 102, A: 255},
		Floor:  colornames.Dimgray,
		Materials: []color.RGBA{
			colornames.Firebrick,
			colornames.Steelblue,
			colornames.Olivedrab,
			colornames.Goldenrod,
			colornames.Slategray,
			colornames.Sienna,
		},
		Boundary: colornames.Darkslategray,
	}
}

// Material maps a cell value to its colour. Unknown materials cycle through
// the table.
func (p Palette) Material(c Cell) color.RGBA {
	if c == BoundaryCell || len(p.Materials) == 0 {
		return p.Boundary
	}
	return p.Materials[(int(c)-1)%len(p.Materials)]
}

func darken(c color.RGBA, factor float64) color.RGBA {
	factor = clampf(factor, 0, 1)
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// fog fades toward black as t goes from 0 to 1, never below 30%.
func fog(c color.RGBA, t float64) color.RGBA {
	return darken(c, 1-0.7*clampf(t, 0, 1))
}

// lightDir points from the surfaces toward the light.
var lightDir = Vector3{0.3, 1, -0.5}.Normalize()

// ShadeFlat lights a face with a fixed directional light on top of an
// ambient floor.
func ShadeFlat(base color.RGBA, normal Vector3) color.RGBA {
	// The minimum brightness for any surface.
	const ambientLight = 0.65
	const directLightAmount = 1.0 - ambientLight

	diffuseFactor := normal.Dot(lightDir)
	if diffuseFactor < 0 {
		diffuseFactor = 0
	}
	finalBrightness := ambientLight + diffuseFactor*directLightAmount

	// A brightness of 1.0 means no colour change, 0.0 subtracts 240.
	c := 240 - int(finalBrightness*240)

	min := 7
	r1 := clamp(int(base.R)-c, min, 255)
	g1 := clamp(int(base.G)-c, min, 255)
	b1 := clamp(int(base.B)-c, min, 255)
	return color.RGBA{R: uint8(r1), G: uint8(g1), B: uint8(b1), A: base.A}
}

// drawSky paints the two band background.
func drawSky(sink DrawSink, p Palette, w, h float64) {
	sink.DrawFilledPolygon(rectPoints(0, 0, w, h/2), p.SkyTop)
	sink.DrawFilledPolygon(rectPoints(0, h/2, w, h), p.Sky)
}

package gosiefps

import "math"

// Vector2 lives on the ground plane. X maps to world X and Y maps to world Z.
type Vector2 struct {
	X float64
	Y float64
}

func NewVectorFromAngle(angle float64) Vector2 {
	return Vector2{
		X: math.Cos(angle),
		Y: math.Sin(angle),
	}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2) Mult(scalar float64) Vector2 {
	return Vector2{
		X: v.X * scalar,
		Y: v.Y * scalar,
	}
}

func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Angle is the heading of v, 0 along +X and pi/2 along +Y.
func (v Vector2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

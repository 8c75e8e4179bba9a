package gosiefps

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3 is an immutable 3D vector. Every operation returns a new value.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

var (
	Zero3   = Vector3{}
	WorldUp = Vector3{0, 1, 0}
)

func vec3FromMgl(v mgl64.Vec3) Vector3 {
	return Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func (v Vector3) mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Div divides by s. Division by zero yields the zero vector.
func (v Vector3) Div(s float64) Vector3 {
	if s == 0 {
		return Zero3
	}
	return Vector3{v.X / s, v.Y / s, v.Z / s}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.mgl().Dot(o.mgl())
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return vec3FromMgl(v.mgl().Cross(o.mgl()))
}

func (v Vector3) Length() float64 {
	return v.mgl().Len()
}

func (v Vector3) LengthSq() float64 {
	return v.mgl().LenSqr()
}

// Normalize returns the unit vector in the direction of v, or the zero vector
// when v has zero length.
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return Zero3
	}
	return Vector3{v.X / length, v.Y / length, v.Z / length}
}

func (v Vector3) DistanceTo(other Vector3) float64 {
	return v.Sub(other).Length()
}

// HorizontalDistanceTo ignores the Y axis.
func (v Vector3) HorizontalDistanceTo(other Vector3) float64 {
	return math.Hypot(v.X-other.X, v.Z-other.Z)
}

func (v Vector3) RotateX(angle float64) Vector3 {
	return vec3FromMgl(mgl64.Rotate3DX(angle).Mul3x1(v.mgl()))
}

func (v Vector3) RotateY(angle float64) Vector3 {
	return vec3FromMgl(mgl64.Rotate3DY(angle).Mul3x1(v.mgl()))
}

func (v Vector3) RotateZ(angle float64) Vector3 {
	return vec3FromMgl(mgl64.Rotate3DZ(angle).Mul3x1(v.mgl()))
}

// Rotate applies the euler angles in r around x, then y, then z.
func (v Vector3) Rotate(r Vector3) Vector3 {
	return v.RotateX(r.X).RotateY(r.Y).RotateZ(r.Z)
}

// XZ drops the vertical component.
func (v Vector3) XZ() Vector2 {
	return Vector2{X: v.X, Y: v.Z}
}

func (v Vector3) ApproxEqual(o Vector3, threshold float64) bool {
	return v.mgl().ApproxEqualThreshold(o.mgl(), threshold)
}

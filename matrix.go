package gosiefps

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Matrix4 is a 4x4 transform. Storage is mgl64's column-major layout; use At
// for row/column access.
type Matrix4 mgl64.Mat4

const (
	ROTX = 0
	ROTY = 1
	ROTZ = 2
)

const (
	minFOV = 1.0
	maxFOV = 179.0
)

func Identity4() Matrix4 {
	return Matrix4(mgl64.Ident4())
}

func Translation(x, y, z float64) Matrix4 {
	return Matrix4(mgl64.Translate3D(x, y, z))
}

func Scaling(x, y, z float64) Matrix4 {
	return Matrix4(mgl64.Scale3D(x, y, z))
}

func RotationX(theta float64) Matrix4 {
	return Matrix4(mgl64.HomogRotate3DX(theta))
}

func RotationY(theta float64) Matrix4 {
	return Matrix4(mgl64.HomogRotate3DY(theta))
}

func RotationZ(theta float64) Matrix4 {
	return Matrix4(mgl64.HomogRotate3DZ(theta))
}

// NewRotationMatrix builds a single axis rotation, axis being ROTX, ROTY or ROTZ.
func NewRotationMatrix(axis int, theta float64) Matrix4 {
	switch axis {
	case ROTX:
		return RotationX(theta)
	case ROTY:
		return RotationY(theta)
	case ROTZ:
		return RotationZ(theta)
	}
	return Identity4()
}

// Rotation applies x first, then y, then z.
func Rotation(euler Vector3) Matrix4 {
	return RotationZ(euler.Z).Mul(RotationY(euler.Y)).Mul(RotationX(euler.X))
}

// Perspective builds a left-handed projection looking down +Z. View depth near
// maps to 0 and far maps to 1 after the homogeneous divide. Out of range
// parameters are clamped.
func Perspective(fovDeg, aspect, near, far float64) Matrix4 {
	if aspect <= 0 || math.IsNaN(aspect) {
		aspect = 1
	}
	if near <= 0 || math.IsNaN(near) {
		near = 0.01
	}
	if far <= near || math.IsNaN(far) {
		far = near + 1
	}
	if math.IsNaN(fovDeg) {
		fovDeg = 60
	}
	fovDeg = math.Max(minFOV, math.Min(maxFOV, fovDeg))

	f := 1 / math.Tan(degreesToRadians(fovDeg)/2)
	a := far / (far - near)
	b := -far * near / (far - near)

	return Matrix4(mgl64.Mat4FromRows(
		mgl64.Vec4{f / aspect, 0, 0, 0},
		mgl64.Vec4{0, f, 0, 0},
		mgl64.Vec4{0, 0, a, b},
		mgl64.Vec4{0, 0, 1, 0},
	))
}

// LookAt builds a view matrix that puts eye at the origin and target on +Z.
func LookAt(eye, target, up Vector3) Matrix4 {
	forward := target.Sub(eye).Normalize()
	if forward == Zero3 {
		return Translation(-eye.X, -eye.Y, -eye.Z)
	}

	right := up.Cross(forward).Normalize()
	if right == Zero3 {
		// up is parallel to the view direction
		alt := Vector3{0, 0, 1}
		if math.Abs(forward.Z) > 0.9 {
			alt = Vector3{1, 0, 0}
		}
		right = alt.Cross(forward).Normalize()
	}
	trueUp := forward.Cross(right)

	return Matrix4(mgl64.Mat4FromRows(
		mgl64.Vec4{right.X, right.Y, right.Z, -right.Dot(eye)},
		mgl64.Vec4{trueUp.X, trueUp.Y, trueUp.Z, -trueUp.Dot(eye)},
		mgl64.Vec4{forward.X, forward.Y, forward.Z, -forward.Dot(eye)},
		mgl64.Vec4{0, 0, 0, 1},
	))
}

// Mul returns m * o, so o is applied first.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	return Matrix4(mgl64.Mat4(m).Mul4(mgl64.Mat4(o)))
}

func (m Matrix4) At(row, col int) float64 {
	return mgl64.Mat4(m).At(row, col)
}

// MulPointW transforms p as a point and returns the clip position and w.
func (m Matrix4) MulPointW(p Vector3) (Vector3, float64) {
	r := mgl64.Mat4(m).Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return Vector3{r[0], r[1], r[2]}, r[3]
}

// MulPoint transforms p with the homogeneous divide and drops w. A zero w
// skips the divide.
func (m Matrix4) MulPoint(p Vector3) Vector3 {
	v, w := m.MulPointW(p)
	if w == 0 {
		return v
	}
	return v.Div(w)
}

// MulDirection ignores translation.
func (m Matrix4) MulDirection(d Vector3) Vector3 {
	r := mgl64.Mat4(m).Mul4x1(mgl64.Vec4{d.X, d.Y, d.Z, 0})
	return Vector3{r[0], r[1], r[2]}
}

func (m Matrix4) String() string {
	var sb strings.Builder
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sb.WriteString(fmt.Sprintf("%8.3f", m.At(row, col)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func degreesToRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

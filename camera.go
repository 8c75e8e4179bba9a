package gosiefps

import "math"

// pitchLimit keeps the view off the poles.
const pitchLimit = math.Pi/2 - 0.01

// Camera is the player: a body anchored at its feet plus a view direction.
// Yaw 0 looks down +Z and yaw grows toward +X.
type Camera struct {
	Position Vector3
	Yaw      float64
	Pitch    float64
	Velocity Vector3
	Grounded bool
	// JumpsUsed counts jumps since the body last touched ground.
	JumpsUsed int
	OnStairs  bool

	Radius    float64
	Height    float64
	EyeHeight float64

	FOV  float64
	Near float64
	Far  float64

	// MoveSpeed is in units per second, LookSpeed in radians per pointer
	// unit and TurnSpeed in radians per second.
	MoveSpeed float64
	LookSpeed float64
	TurnSpeed float64
}

// NewCamera builds a camera for a world where one metre is meter units.
func NewCamera(position Vector3, yaw, meter float64) *Camera {
	if meter <= 0 {
		meter = 1
	}
	return &Camera{
		Position:  position,
		Yaw:       yaw,
		Radius:    0.3 * meter,
		Height:    1.8 * meter,
		EyeHeight: 1.7 * meter,
		FOV:       70,
		Near:      0.1 * meter,
		Far:       100 * meter,
		MoveSpeed: 5 * meter,
		LookSpeed: 0.003,
		TurnSpeed: 2.5,
	}
}

func (c *Camera) Forward() Vector3 {
	return Vector3{
		X: math.Sin(c.Yaw) * math.Cos(c.Pitch),
		Y: math.Sin(c.Pitch),
		Z: math.Cos(c.Yaw) * math.Cos(c.Pitch),
	}.Normalize()
}

func (c *Camera) Right() Vector3 {
	return WorldUp.Cross(c.Forward()).Normalize()
}

func (c *Camera) Up() Vector3 {
	f := c.Forward()
	return f.Cross(WorldUp.Cross(f).Normalize()).Normalize()
}

// FlatForward is the heading on the ground plane.
func (c *Camera) FlatForward() Vector3 {
	return Vector3{X: math.Sin(c.Yaw), Z: math.Cos(c.Yaw)}
}

func (c *Camera) FlatRight() Vector3 {
	return Vector3{X: math.Cos(c.Yaw), Z: -math.Sin(c.Yaw)}
}

func (c *Camera) SetPitch(p float64) {
	c.Pitch = math.Max(-pitchLimit, math.Min(pitchLimit, p))
}

// Look applies a pointer delta. Positive dy looks down.
func (c *Camera) Look(dx, dy float64) {
	c.Yaw = NormalizeAngle(c.Yaw + dx*c.LookSpeed)
	c.SetPitch(c.Pitch - dy*c.LookSpeed)
}

// Turn rotates the heading by dir*TurnSpeed*dt, dir being +1 for right.
func (c *Camera) Turn(dir, dt float64) {
	c.Yaw = NormalizeAngle(c.Yaw + dir*c.TurnSpeed*dt)
}

// WishVelocity is the horizontal velocity asked for by the move axes.
func (c *Camera) WishVelocity(forward, strafe float64) Vector3 {
	dir := c.FlatForward().Scale(forward).Add(c.FlatRight().Scale(strafe))
	if dir.LengthSq() == 0 {
		return Zero3
	}
	return dir.Normalize().Scale(c.MoveSpeed)
}

// MoveRelative displaces the body along its facing without collision.
func (c *Camera) MoveRelative(forward, strafe, dt float64) {
	c.Position = c.Position.Add(c.WishVelocity(forward, strafe).Scale(dt))
}

func (c *Camera) Eye() Vector3 {
	return c.Position.Add(Vector3{Y: c.EyeHeight})
}

func (c *Camera) Bounds() AABB {
	return bodyBounds(c.Position, c.Radius, c.Height)
}

func bodyBounds(feet Vector3, radius, height float64) AABB {
	return AABB{
		Min: Vector3{feet.X - radius, feet.Y, feet.Z - radius},
		Max: Vector3{feet.X + radius, feet.Y + height, feet.Z + radius},
	}
}

func (c *Camera) ViewMatrix() Matrix4 {
	eye := c.Eye()
	return LookAt(eye, eye.Add(c.Forward()), c.Up())
}

func (c *Camera) ProjectionMatrix(aspect float64) Matrix4 {
	return Perspective(c.FOV, aspect, c.Near, c.Far)
}

// ViewProjection is projection * view.
func (c *Camera) ViewProjection(aspect float64) Matrix4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}

// GridAngle is the heading expressed in grid space, where grid x is world X
// and grid y is world Z.
func (c *Camera) GridAngle() float64 {
	f := c.FlatForward()
	return math.Atan2(f.Z, f.X)
}

func (c *Camera) FOVRadians() float64 {
	return degreesToRadians(c.FOV)
}

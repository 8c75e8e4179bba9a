package gosiefps

import "math"

// CollisionTuning holds the movement constants. Speeds are in units per
// second and accelerations in units per second squared.
type CollisionTuning struct {
	Gravity   float64
	JumpPower float64
	MaxJumps  int
	// Friction is the horizontal deceleration of a grounded body with no
	// movement input.
	Friction   float64
	FloorY     float64
	Epsilon    float64
	StairSpeed float64
}

// DefaultCollisionTuning scales the defaults to a world where one metre is
// meter units.
func DefaultCollisionTuning(meter float64) CollisionTuning {
	if meter <= 0 {
		meter = 1
	}
	return CollisionTuning{
		Gravity:    20 * meter,
		JumpPower:  7 * meter,
		MaxJumps:   2,
		Friction:   40 * meter,
		FloorY:     0,
		Epsilon:    0.001 * meter,
		StairSpeed: 3 * meter,
	}
}

// MoveIntent is what the player asks of the body for one tick.
type MoveIntent struct {
	// Wish is the desired horizontal velocity; Y is ignored.
	Wish Vector3
	Jump bool
	// Climb drives vertical speed on stairs, +1 up and -1 down.
	Climb float64
}

// StepResult reports the contacts made during a step.
type StepResult struct {
	PushedX    bool
	PushedZ    bool
	Landed     bool
	HitCeiling bool
}

// CollisionSystem moves a body through static solids. Boxes are resolved one
// after another against the corrected position, so two boxes pushing in
// conflicting directions can leave a small residual overlap until the next
// tick; there is no global solve.
type CollisionSystem struct {
	Tuning CollisionTuning
	World  Solids
	Stairs []AABB

	hits []AABB
}

func NewCollisionSystem(world Solids, stairs []AABB, tuning CollisionTuning) *CollisionSystem {
	return &CollisionSystem{
		Tuning: tuning,
		World:  world,
		Stairs: stairs,
	}
}

// Step advances body by dt seconds. Order: stairs check, jump, gravity,
// horizontal control and friction, horizontal move and push-out, vertical
// move and snapping, floor snap, support probe.
func (s *CollisionSystem) Step(body *Camera, move MoveIntent, dt float64) StepResult {
	var res StepResult
	if body == nil || dt <= 0 || math.IsNaN(dt) {
		return res
	}
	t := s.Tuning

	body.OnStairs = s.onStairs(body.Bounds())

	if move.Jump && !body.OnStairs && body.JumpsUsed < t.MaxJumps {
		body.Velocity.Y = t.JumpPower
		body.JumpsUsed++
		body.Grounded = false
	}

	switch {
	case body.OnStairs:
		body.Velocity.Y = clampf(move.Climb, -1, 1) * t.StairSpeed
	case !body.Grounded:
		body.Velocity.Y -= t.Gravity * dt
	}

	wish := Vector3{X: move.Wish.X, Z: move.Wish.Z}
	if wish.LengthSq() > 0 {
		body.Velocity.X = wish.X
		body.Velocity.Z = wish.Z
	} else if body.Grounded {
		applyFriction(body, t.Friction*dt)
	}

	body.Position.X += body.Velocity.X * dt
	body.Position.Z += body.Velocity.Z * dt
	s.resolveHorizontal(body, &res)

	prevY := body.Position.Y
	body.Position.Y += body.Velocity.Y * dt
	s.resolveVertical(body, prevY, &res)

	if body.Position.Y < t.FloorY {
		body.Position.Y = t.FloorY
		if body.Velocity.Y < 0 {
			body.Velocity.Y = 0
		}
		s.land(body)
		res.Landed = true
	}

	if body.Grounded && !res.Landed && !s.supported(body) {
		body.Grounded = false
	}
	return res
}

// applyFriction removes amount from the horizontal speed, stopping at zero.
func applyFriction(body *Camera, amount float64) {
	speed := math.Hypot(body.Velocity.X, body.Velocity.Z)
	if speed <= amount || speed == 0 {
		body.Velocity.X = 0
		body.Velocity.Z = 0
		return
	}
	k := (speed - amount) / speed
	body.Velocity.X *= k
	body.Velocity.Z *= k
}

func (s *CollisionSystem) land(body *Camera) {
	body.Grounded = true
	body.JumpsUsed = 0
}

func (s *CollisionSystem) onStairs(bounds AABB) bool {
	for _, st := range s.Stairs {
		if st.IntersectsXZ(bounds) && bounds.Min.Y <= st.Max.Y && bounds.Max.Y >= st.Min.Y {
			return true
		}
	}
	return false
}

func (s *CollisionSystem) overlapping(bounds AABB) []AABB {
	if s.World == nil {
		return nil
	}
	s.hits = s.World.Overlapping(bounds, s.hits[:0])
	return s.hits
}

func (s *CollisionSystem) resolveHorizontal(body *Camera, res *StepResult) {
	eps := s.Tuning.Epsilon
	for _, box := range s.overlapping(body.Bounds()) {
		b := body.Bounds()
		if !b.Intersects(box) {
			continue
		}
		pushX := pushOut(b.Min.X, b.Max.X, box.Min.X, box.Max.X, eps)
		pushZ := pushOut(b.Min.Z, b.Max.Z, box.Min.Z, box.Max.Z, eps)
		if math.Abs(pushX) <= math.Abs(pushZ) {
			body.Position.X += pushX
			body.Velocity.X = 0
			res.PushedX = true
		} else {
			body.Position.Z += pushZ
			body.Velocity.Z = 0
			res.PushedZ = true
		}
	}
}

// pushOut returns the displacement along one axis that moves [aMin, aMax]
// clear of [bMin, bMax] by eps, choosing the side with the least overlap.
func pushOut(aMin, aMax, bMin, bMax, eps float64) float64 {
	toLow := aMax - bMin
	toHigh := bMax - aMin
	if toLow < toHigh {
		return -(toLow + eps)
	}
	return toHigh + eps
}

// resolveVertical only handles boxes the body entered through their top or
// bottom face this tick. Any other overlap is a horizontal leftover.
func (s *CollisionSystem) resolveVertical(body *Camera, prevY float64, res *StepResult) {
	eps := s.Tuning.Epsilon
	for _, box := range s.overlapping(body.Bounds()) {
		b := body.Bounds()
		if !b.Intersects(box) {
			continue
		}
		switch {
		case prevY >= box.Max.Y-eps:
			body.Position.Y = box.Max.Y
			body.Velocity.Y = 0
			s.land(body)
			res.Landed = true
		case prevY+body.Height <= box.Min.Y+eps:
			body.Position.Y = box.Min.Y - body.Height - eps
			body.Velocity.Y = 0
			res.HitCeiling = true
		}
	}
}

// supported probes a thin slab under the feet.
func (s *CollisionSystem) supported(body *Camera) bool {
	eps := s.Tuning.Epsilon
	if body.Position.Y <= s.Tuning.FloorY+eps {
		return true
	}
	probe := body.Bounds()
	probe.Max.Y = body.Position.Y + eps
	probe.Min.Y = body.Position.Y - 2*eps
	return len(s.overlapping(probe)) > 0
}

package gosiefps

import (
	"image/color"
	"math"
	"math/rand"
)

// Behavior is the decision family of an NPC. It is sealed: only *Explorer
// and *Combatant implement it, and UpdateNPC switches over both.
type Behavior interface {
	behavior()
	Name() string
}

type NPC struct {
	ID       int
	Position Vector3
	// Facing is an angle on the ground plane: 0 is +X, pi/2 is +Z.
	Facing   float64
	Speed    float64
	Velocity Vector3
	Health   int
	Radius   float64
	Height   float64
	Color    color.RGBA
	Behavior Behavior
}

// TakeDamage lowers health and reports whether the NPC died.
func (n *NPC) TakeDamage(amount int) bool {
	if amount > 0 {
		n.Health -= amount
	}
	return n.Health <= 0
}

func (n *NPC) Alive() bool {
	return n.Health > 0
}

// Sprite is the billboard used by the ray caster.
func (n *NPC) Sprite() Sprite {
	return Sprite{Position: n.Position, Radius: n.Radius, Height: n.Height, Color: n.Color}
}

// EventKind tags what happened during a tick.
type EventKind int

const (
	EventPlayerDamaged EventKind = iota
	EventNPCKilled
	EventSpeech
	EventShot
	EventReloaded
	EventPlayerDied
)

func (k EventKind) String() string {
	switch k {
	case EventPlayerDamaged:
		return "player-damaged"
	case EventNPCKilled:
		return "npc-killed"
	case EventSpeech:
		return "speech"
	case EventShot:
		return "shot"
	case EventReloaded:
		return "reloaded"
	case EventPlayerDied:
		return "player-died"
	}
	return "unknown"
}

type Event struct {
	Kind   EventKind
	NPC    int
	Amount int
	Text   string
}

// Obstacle is another NPC as it stood at the start of the tick.
type Obstacle struct {
	ID       int
	Position Vector3
	Radius   float64
}

// NPCContext is the read-only view an NPC decides from. Every NPC of a tick
// gets the same player position and obstacle snapshot.
type NPCContext struct {
	Terrain   Terrain
	Player    Vector3
	Obstacles []Obstacle
	Rand      *rand.Rand
	// Dt is the tick length in seconds.
	Dt float64
}

// UpdateNPC advances one NPC by one tick.
func UpdateNPC(n *NPC, ctx *NPCContext) []Event {
	if n == nil || !n.Alive() {
		return nil
	}
	if ctx.Rand == nil {
		ctx.Rand = rand.New(rand.NewSource(1))
	}
	switch b := n.Behavior.(type) {
	case *Explorer:
		return b.update(n, ctx)
	case *Combatant:
		return b.update(n, ctx)
	}
	return nil
}

// Steering is the smoothing shared by every moving NPC. Speeds are in units
// per tick.
type Steering struct {
	TurnRate     float64
	Acceleration float64
	MaxSpeed     float64
	Friction     float64
	Bounce       float64
}

func DefaultSteering() Steering {
	return Steering{
		TurnRate:     0.15,
		Acceleration: 0.2,
		MaxSpeed:     1.5,
		Friction:     0.9,
		Bounce:       0.5,
	}
}

// steer turns the NPC toward targetAngle and blends its velocity toward
// targetSpeed along the new facing.
func (s Steering) steer(n *NPC, targetAngle, targetSpeed float64) {
	n.Facing = NormalizeAngle(n.Facing + AngleDiff(n.Facing, targetAngle)*s.TurnRate)

	desired := NewVectorFromAngle(n.Facing).Mult(targetSpeed)
	vel := n.Velocity.XZ()
	vel = vel.Add(desired.Sub(vel).Mult(s.Acceleration))

	if vel.Length() > s.MaxSpeed {
		vel = vel.Mult(s.Friction)
		if l := vel.Length(); l > s.MaxSpeed {
			vel = vel.Mult(s.MaxSpeed / l)
		}
	}
	n.Velocity = Vector3{X: vel.X, Z: vel.Y}
	n.Speed = vel.Length()
}

// tryMove applies the velocity. On a blocked move the position is rolled
// back, the velocity bounced and false returned.
func (s Steering) tryMove(n *NPC, ctx *NPCContext) bool {
	next := n.Position.Add(Vector3{X: n.Velocity.X, Z: n.Velocity.Z})
	if blocked(n, next, ctx) {
		n.Velocity = n.Velocity.Scale(-s.Bounce)
		n.Speed = n.Velocity.Length()
		return false
	}
	n.Position = next
	return true
}

// blocked is true when next is not walkable or when it brings n closer to an
// obstacle it would overlap.
func blocked(n *NPC, next Vector3, ctx *NPCContext) bool {
	if ctx.Terrain != nil && !ctx.Terrain.Walkable(next.X, next.Z, n.Radius) {
		return true
	}
	for _, o := range ctx.Obstacles {
		if o.ID == n.ID {
			continue
		}
		minDist := n.Radius + o.Radius
		nd := next.HorizontalDistanceTo(o.Position)
		if nd < minDist && nd < n.Position.HorizontalDistanceTo(o.Position) {
			return true
		}
	}
	return false
}

func angleTo(from, to Vector3) float64 {
	return to.XZ().Sub(from.XZ()).Angle()
}

func randomAngle(r *rand.Rand) float64 {
	return r.Float64()*2*math.Pi - math.Pi
}

func randRange(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

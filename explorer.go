package gosiefps

import (
	"fmt"
	"math"
)

// ExplorerKind is fixed when the NPC is created.
type ExplorerKind int

const (
	Wander ExplorerKind = iota
	Patrol
	Follow
	Flee
)

func (k ExplorerKind) String() string {
	switch k {
	case Wander:
		return "wander"
	case Patrol:
		return "patrol"
	case Follow:
		return "follow"
	case Flee:
		return "flee"
	}
	return fmt.Sprintf("ExplorerKind(%d)", int(k))
}

// ParseExplorerKind accepts the names printed by String.
func ParseExplorerKind(s string) (ExplorerKind, bool) {
	for _, k := range []ExplorerKind{Wander, Patrol, Follow, Flee} {
		if k.String() == s {
			return k, true
		}
	}
	return Wander, false
}

// ExplorerTuning uses the classic 64 units per cell scale. Use Scaled for
// other worlds.
type ExplorerTuning struct {
	Speed float64

	WanderMinTicks int
	WanderMaxTicks int
	PerturbChance  float64
	PerturbAngle   float64
	PauseChance    float64
	PauseMinTicks  int
	PauseMaxTicks  int

	PatrolRadius     float64
	ReachDistance    float64
	PatrolPauseTicks int

	FollowDistance float64
	FollowBand     float64

	FleeDistance float64

	Steering Steering
}

func DefaultExplorerTuning() ExplorerTuning {
	return ExplorerTuning{
		Speed:            1.2,
		WanderMinTicks:   120,
		WanderMaxTicks:   300,
		PerturbChance:    0.02,
		PerturbAngle:     math.Pi / 4,
		PauseChance:      0.004,
		PauseMinTicks:    30,
		PauseMaxTicks:    90,
		PatrolRadius:     96,
		ReachDistance:    15,
		PatrolPauseTicks: 40,
		FollowDistance:   60,
		FollowBand:       50,
		FleeDistance:     150,
		Steering:         DefaultSteering(),
	}
}

// Scaled multiplies every distance and speed by f.
func (t ExplorerTuning) Scaled(f float64) ExplorerTuning {
	t.Speed *= f
	t.PatrolRadius *= f
	t.ReachDistance *= f
	t.FollowDistance *= f
	t.FollowBand *= f
	t.FleeDistance *= f
	t.Steering.MaxSpeed *= f
	return t
}

// Explorer is the exploration family behaviour.
type Explorer struct {
	Kind   ExplorerKind
	Tuning ExplorerTuning
	// Dialogue is optional.
	Dialogue *Dialogue

	targetAngle float64
	holdTicks   int
	pauseTicks  int

	waypoints []Vector3
	waypoint  int
}

func NewExplorer(kind ExplorerKind, tuning ExplorerTuning) *Explorer {
	return &Explorer{Kind: kind, Tuning: tuning}
}

func (*Explorer) behavior() {}

func (e *Explorer) Name() string {
	return e.Kind.String()
}

// Waypoints returns the patrol route, empty until the first patrol tick.
func (e *Explorer) Waypoints() []Vector3 {
	out := make([]Vector3, len(e.waypoints))
	copy(out, e.waypoints)
	return out
}

func (e *Explorer) CurrentWaypoint() int {
	return e.waypoint
}

func (e *Explorer) update(n *NPC, ctx *NPCContext) []Event {
	var events []Event
	if e.Dialogue != nil {
		if text, ok := e.Dialogue.tick(ctx.Rand); ok {
			events = append(events, Event{Kind: EventSpeech, NPC: n.ID, Text: text})
		}
	}

	angle, speed := e.decide(n, ctx)
	e.Tuning.Steering.steer(n, angle, speed)
	if !e.Tuning.Steering.tryMove(n, ctx) {
		e.targetAngle = randomAngle(ctx.Rand)
		e.holdTicks = randRange(ctx.Rand, e.Tuning.WanderMinTicks, e.Tuning.WanderMaxTicks)
		n.Facing = NormalizeAngle(n.Facing + AngleDiff(n.Facing, e.targetAngle)*0.5)
	}
	return events
}

// decide returns the target direction and speed for this tick.
func (e *Explorer) decide(n *NPC, ctx *NPCContext) (float64, float64) {
	switch e.Kind {
	case Patrol:
		return e.patrol(n)
	case Follow:
		return e.follow(n, ctx)
	case Flee:
		if n.Position.HorizontalDistanceTo(ctx.Player) < e.Tuning.FleeDistance {
			return angleTo(ctx.Player, n.Position), e.Tuning.Speed
		}
	}
	return e.wander(ctx)
}

func (e *Explorer) wander(ctx *NPCContext) (float64, float64) {
	t := e.Tuning
	r := ctx.Rand

	if e.pauseTicks > 0 {
		e.pauseTicks--
		return e.targetAngle, 0
	}
	if r.Float64() < t.PauseChance {
		e.pauseTicks = randRange(r, t.PauseMinTicks, t.PauseMaxTicks)
		return e.targetAngle, 0
	}

	e.holdTicks--
	if e.holdTicks <= 0 {
		e.targetAngle = randomAngle(r)
		e.holdTicks = randRange(r, t.WanderMinTicks, t.WanderMaxTicks)
	} else if r.Float64() < t.PerturbChance {
		e.targetAngle = NormalizeAngle(e.targetAngle + (r.Float64()*2-1)*t.PerturbAngle)
	}
	return e.targetAngle, t.Speed
}

func (e *Explorer) patrol(n *NPC) (float64, float64) {
	t := e.Tuning
	if e.waypoints == nil {
		r := t.PatrolRadius
		p := n.Position
		e.waypoints = []Vector3{
			{X: p.X + r, Y: p.Y, Z: p.Z},
			{X: p.X, Y: p.Y, Z: p.Z + r},
			{X: p.X - r, Y: p.Y, Z: p.Z},
			{X: p.X, Y: p.Y, Z: p.Z - r},
		}
	}

	if e.pauseTicks > 0 {
		e.pauseTicks--
		return n.Facing, 0
	}

	target := e.waypoints[e.waypoint]
	if n.Position.HorizontalDistanceTo(target) < t.ReachDistance {
		e.waypoint = (e.waypoint + 1) % len(e.waypoints)
		e.pauseTicks = t.PatrolPauseTicks
		return n.Facing, 0
	}
	return angleTo(n.Position, target), t.Speed
}

// follow runs at full speed beyond the band, slows linearly inside it and
// idles facing the player once within FollowDistance.
func (e *Explorer) follow(n *NPC, ctx *NPCContext) (float64, float64) {
	t := e.Tuning
	d := n.Position.HorizontalDistanceTo(ctx.Player)
	angle := angleTo(n.Position, ctx.Player)

	switch {
	case d <= t.FollowDistance:
		return angle, 0
	case d >= t.FollowDistance+t.FollowBand || t.FollowBand <= 0:
		return angle, t.Speed
	default:
		return angle, t.Speed * (d - t.FollowDistance) / t.FollowBand
	}
}

package gosiefps

import (
	"fmt"
	"math"
)

type CombatState int

const (
	CombatPatrol CombatState = iota
	CombatChase
	CombatAttack
)

func (s CombatState) String() string {
	switch s {
	case CombatPatrol:
		return "patrol"
	case CombatChase:
		return "chase"
	case CombatAttack:
		return "attack"
	}
	return fmt.Sprintf("CombatState(%d)", int(s))
}

// CombatTuning uses the classic 64 units per cell scale. Speeds are per
// tick, the cooldown is in seconds.
type CombatTuning struct {
	AttackRange     float64
	DetectionRange  float64
	ChaseSpeed      float64
	PatrolSpeed     float64
	PatrolTurnTicks int
	AttackDamage    int
	AttackCooldown  float64
}

func DefaultCombatTuning() CombatTuning {
	return CombatTuning{
		AttackRange:     40,
		DetectionRange:  320,
		ChaseSpeed:      1.6,
		PatrolSpeed:     0.6,
		PatrolTurnTicks: 120,
		AttackDamage:    10,
		AttackCooldown:  1.0,
	}
}

// Scaled multiplies every distance and speed by f.
func (t CombatTuning) Scaled(f float64) CombatTuning {
	t.AttackRange *= f
	t.DetectionRange *= f
	t.ChaseSpeed *= f
	t.PatrolSpeed *= f
	return t
}

// ClassifyCombat picks the state for a player at distance d.
func ClassifyCombat(d float64, t CombatTuning) CombatState {
	switch {
	case d < t.AttackRange:
		return CombatAttack
	case d < t.DetectionRange:
		return CombatChase
	}
	return CombatPatrol
}

// EnemyKind is the look and worth of a combat NPC.
type EnemyKind int

const (
	Demon EnemyKind = iota
	Zombie
)

func (k EnemyKind) String() string {
	switch k {
	case Demon:
		return "demon"
	case Zombie:
		return "zombie"
	}
	return fmt.Sprintf("EnemyKind(%d)", int(k))
}

func ParseEnemyKind(s string) (EnemyKind, bool) {
	switch s {
	case "demon":
		return Demon, true
	case "zombie":
		return Zombie, true
	}
	return Demon, false
}

// Health is the starting health of the kind.
func (k EnemyKind) Health() int {
	if k == Demon {
		return 100
	}
	return 50
}

// Points is the score for a kill.
func (k EnemyKind) Points() int {
	if k == Demon {
		return 100
	}
	return 50
}

// Combatant is the combat family behaviour. Its state is recomputed from the
// player distance every tick.
type Combatant struct {
	Kind   EnemyKind
	State  CombatState
	Tuning CombatTuning

	cooldown    float64
	patrolTicks int
	patrolAngle float64
	// AnimTime drives the idle bob, in seconds.
	AnimTime float64
}

func NewCombatant(kind EnemyKind, tuning CombatTuning) *Combatant {
	return &Combatant{Kind: kind, Tuning: tuning}
}

func (*Combatant) behavior() {}

func (c *Combatant) Name() string {
	return c.Kind.String()
}

// Bob is the vertical offset of the idle animation for a bob height h.
func (c *Combatant) Bob(h float64) float64 {
	return math.Sin(c.AnimTime*3) * h
}

func (c *Combatant) update(n *NPC, ctx *NPCContext) []Event {
	c.AnimTime += ctx.Dt
	if c.cooldown > 0 {
		c.cooldown -= ctx.Dt
	}

	d := n.Position.HorizontalDistanceTo(ctx.Player)
	c.State = ClassifyCombat(d, c.Tuning)
	t := c.Tuning

	switch c.State {
	case CombatAttack:
		n.Facing = angleTo(n.Position, ctx.Player)
		n.Velocity = Zero3
		n.Speed = 0
		if c.cooldown <= 0 {
			c.cooldown = t.AttackCooldown
			return []Event{{Kind: EventPlayerDamaged, NPC: n.ID, Amount: t.AttackDamage}}
		}

	case CombatChase:
		n.Facing = angleTo(n.Position, ctx.Player)
		step := NewVectorFromAngle(n.Facing).Mult(math.Min(t.ChaseSpeed, d))
		c.move(n, step, ctx)

	case CombatPatrol:
		c.patrolTicks--
		if c.patrolTicks <= 0 {
			c.patrolAngle = randomAngle(ctx.Rand)
			c.patrolTicks = t.PatrolTurnTicks
		}
		n.Facing = c.patrolAngle
		step := NewVectorFromAngle(n.Facing).Mult(t.PatrolSpeed)
		if !c.move(n, step, ctx) {
			c.patrolTicks = 0
		}
	}
	return nil
}

// move steps when the destination is walkable and free, otherwise holds.
func (c *Combatant) move(n *NPC, step Vector2, ctx *NPCContext) bool {
	next := n.Position.Add(Vector3{X: step.X, Z: step.Y})
	if blocked(n, next, ctx) {
		n.Velocity = Zero3
		n.Speed = 0
		return false
	}
	n.Velocity = Vector3{X: step.X, Z: step.Y}
	n.Speed = step.Length()
	n.Position = next
	return true
}

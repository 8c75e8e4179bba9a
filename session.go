package gosiefps

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"

	"golang.org/x/image/colornames"
)

const (
	PlayerHealth = 100
	// maxTickSeconds caps a single step after a stall.
	maxTickSeconds = 0.25
)

// Session owns everything one play-through needs. There is no global state:
// every component gets what it needs from here.
type Session struct {
	Settings  Settings
	Level     *Level
	World     *World
	Camera    *Camera
	Collision *CollisionSystem
	NPCs      []*NPC
	Weapon    *Weapon

	Health int
	Score  int
	Paused bool
	Over   bool
	Ticks  uint64

	rng       *rand.Rand
	sky       *Sky
	rays      *RayCaster
	renderer  *Renderer3D
	triangles []Triangle
	meshes    map[int]*Mesh
	inTick    bool
}

// NewSession builds a session for level. Settings are clamped first.
func NewSession(settings Settings, level *Level, seed int64) (*Session, error) {
	if level == nil {
		return nil, fmt.Errorf("session: no level")
	}
	if changed := settings.Sanitize(); len(changed) > 0 {
		log.Printf("session: clamped settings %v", changed)
	}

	world, err := level.Build()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	spawn := vec3(level.Spawn.Position)
	s := &Session{
		Settings:  settings,
		Level:     level,
		World:     world,
		Camera:    NewCamera(spawn, degreesToRadians(level.Spawn.Yaw), world.Meter),
		Collision: NewCollisionSystem(world.Solids(), world.Stairs, DefaultCollisionTuning(world.Meter)),
		Weapon:    NewWeapon(world.Meter),
		Health:    PlayerHealth,
		rng:       rand.New(rand.NewSource(seed)),
		sky:       NewSky(seed, world.Meter),
		meshes:    make(map[int]*Mesh),
	}
	s.Camera.LookSpeed *= settings.Sensitivity
	s.Camera.Grounded = spawn.Y <= s.Collision.Tuning.FloorY

	switch world.Kind {
	case GridLevel:
		s.rays = NewRayCaster(settings.Rays, 24*world.Grid.CellSize(), world.Palette)
		s.rays.Sky = s.sky
	case PolygonLevel:
		s.renderer = NewRenderer3D(settings.MaxTriangles, world.Palette)
		s.renderer.Sky = s.sky
		s.triangles = world.Poly.Triangles()
	}

	specs := level.NPCs
	if len(specs) > settings.NPCCount {
		specs = specs[:settings.NPCCount]
	}
	for i, spec := range specs {
		s.NPCs = append(s.NPCs, s.spawnNPC(i+1, spec))
	}

	log.Printf("session: level %q (%s) loaded with %d npcs", level.Name, level.Kind, len(s.NPCs))
	return s, nil
}

func (s *Session) spawnNPC(id int, spec NPCSpec) *NPC {
	m := s.World.Meter
	n := &NPC{
		ID:       id,
		Position: vec3(spec.Position),
		Facing:   randomAngle(s.rng),
		Radius:   0.4 * m,
		Height:   1.8 * m,
	}

	if spec.Family == "combat" {
		kind, _ := ParseEnemyKind(spec.Kind)
		tuning := DefaultCombatTuning().Scaled(s.World.NPCScale)
		tuning.AttackDamage = int(math.Round(float64(tuning.AttackDamage) * s.Settings.Difficulty.DamageScale()))
		n.Behavior = NewCombatant(kind, tuning)
		n.Health = kind.Health()
		switch kind {
		case Demon:
			n.Color = color.RGBA{R: 255, G: 51, B: 51, A: 255}
			n.Height = 1.5 * m
			s.meshes[id] = NewPyramidMesh(1.5*m, 0.8*m, n.Color)
		default:
			n.Color = color.RGBA{R: 51, G: 255, B: 51, A: 255}
			n.Height = 0.8 * m
			s.meshes[id] = NewCubeMesh(0.8*m, n.Color)
		}
		return n
	}

	kind, _ := ParseExplorerKind(spec.Kind)
	e := NewExplorer(kind, DefaultExplorerTuning().Scaled(s.World.NPCScale))
	if spec.Dialogue {
		e.Dialogue = NewDialogue(kind)
	}
	n.Behavior = e
	n.Health = 1
	n.Color = explorerColors[kind]
	s.meshes[id] = NewSphereMesh(0.4*m, 8, n.Color)
	return n
}

var explorerColors = map[ExplorerKind]color.RGBA{
	Wander: colornames.Skyblue,
	Patrol: colornames.Royalblue,
	Follow: colornames.Gold,
	Flee:   colornames.Orchid,
}

// Update runs one tick: camera, collision, weapon, NPCs. dt is in seconds;
// a non positive dt falls back to the configured tick rate.
func (s *Session) Update(in Intent, dt float64) []Event {
	if in.PauseToggle {
		s.Paused = !s.Paused
	}
	if s.Paused || s.Over {
		return nil
	}
	if dt <= 0 || math.IsNaN(dt) {
		dt = s.Settings.TickSeconds()
	}
	dt = math.Min(dt, maxTickSeconds)

	s.inTick = true
	if s.World.Grid != nil {
		s.World.Grid.lock()
	}
	defer func() {
		s.inTick = false
		if s.World.Grid != nil {
			s.World.Grid.unlock()
		}
	}()

	s.Ticks++
	s.sky.Update(dt)
	var events []Event

	cam := s.Camera
	dy := in.LookDY
	if s.Settings.InvertY {
		dy = -dy
	}
	cam.Look(in.LookDX, dy)
	cam.Turn(in.Turn(), dt)

	forward, strafe := in.Axes()
	s.Collision.Step(cam, MoveIntent{
		Wish:  cam.WishVelocity(forward, strafe),
		Jump:  in.Jump,
		Climb: forward,
	}, dt)

	events = s.updateWeapon(in, events)
	events = s.updateNPCs(dt, events)
	return events
}

func (s *Session) updateWeapon(in Intent, events []Event) []Event {
	w := s.Weapon
	if in.Reload {
		w.Reload()
	}
	if in.Attack && w.Fire() {
		events = append(events, Event{Kind: EventShot, Amount: w.Ammo})
		events = s.hitScan(events)
	}
	if w.Tick() {
		events = append(events, Event{Kind: EventReloaded, Amount: w.Ammo})
	}
	return events
}

// hitScan damages every combat NPC in the sights of the weapon.
func (s *Session) hitScan(events []Event) []Event {
	eye := s.Camera.Eye()
	fwd := s.Camera.Forward()
	for _, n := range s.NPCs {
		c, ok := n.Behavior.(*Combatant)
		if !ok || !n.Alive() {
			continue
		}
		target := n.Position.Add(Vector3{Y: n.Height / 2})
		if !s.Weapon.InSights(eye, fwd, target) || s.occluded(eye, target) {
			continue
		}
		s.Weapon.MarkHit()
		if n.TakeDamage(s.Weapon.Damage) {
			s.Score += c.Kind.Points()
			events = append(events, Event{Kind: EventNPCKilled, NPC: n.ID, Amount: c.Kind.Points()})
			log.Printf("session: %s %d killed, score %d", c.Kind, n.ID, s.Score)
		}
	}
	return events
}

// occluded is true when a wall or box stands between eye and target.
func (s *Session) occluded(eye, target Vector3) bool {
	switch {
	case s.World.Grid != nil:
		dist := eye.HorizontalDistanceTo(target)
		hit := CastRay(s.World.Grid, eye.X, eye.Z, angleTo(eye, target), dist)
		return hit.Hit && hit.Distance < dist
	case s.World.Poly != nil:
		return s.World.Poly.Occludes(eye, target)
	}
	return false
}

func (s *Session) updateNPCs(dt float64, events []Event) []Event {
	obstacles := make([]Obstacle, 0, len(s.NPCs))
	for _, n := range s.NPCs {
		if n.Alive() {
			obstacles = append(obstacles, Obstacle{ID: n.ID, Position: n.Position, Radius: n.Radius})
		}
	}
	ctx := &NPCContext{
		Terrain:   s.World.Terrain(),
		Player:    s.Camera.Position,
		Obstacles: obstacles,
		Rand:      s.rng,
		Dt:        dt,
	}

	for _, n := range s.NPCs {
		for _, ev := range UpdateNPC(n, ctx) {
			if ev.Kind == EventPlayerDamaged {
				s.Health -= ev.Amount
			}
			events = append(events, ev)
		}
	}
	if s.Health <= 0 && !s.Over {
		s.Health = 0
		s.Over = true
		events = append(events, Event{Kind: EventPlayerDied})
		log.Printf("session: player died after %d ticks, score %d", s.Ticks, s.Score)
	}

	alive := make([]*NPC, 0, len(s.NPCs))
	for _, n := range s.NPCs {
		if n.Alive() {
			alive = append(alive, n)
		} else {
			delete(s.meshes, n.ID)
		}
	}
	s.NPCs = alive
	return events
}

// SetCell edits the grid between ticks.
func (s *Session) SetCell(x, y int, c Cell) error {
	if s.inTick {
		return ErrTickInProgress
	}
	if s.World.Grid == nil {
		return fmt.Errorf("session: level %q has no grid", s.Level.Name)
	}
	return s.World.Grid.Set(x, y, c)
}

// Restart replaces the whole session state with a fresh copy of level.
func (s *Session) Restart(level *Level, seed int64) error {
	if s.inTick {
		return ErrTickInProgress
	}
	ns, err := NewSession(s.Settings, level, seed)
	if err != nil {
		return err
	}
	*s = *ns
	return nil
}

// SpeechLine is a phrase currently said by an NPC.
type SpeechLine struct {
	NPC  int
	Kind ExplorerKind
	Text string
}

func (s *Session) Speeches() []SpeechLine {
	var out []SpeechLine
	for _, n := range s.NPCs {
		e, ok := n.Behavior.(*Explorer)
		if !ok || e.Dialogue == nil || !e.Dialogue.Current.Active() {
			continue
		}
		out = append(out, SpeechLine{NPC: n.ID, Kind: e.Kind, Text: e.Dialogue.Current.Text})
	}
	return out
}

// Frame renders the current state into a new draw list.
func (s *Session) Frame(width, height int) *DrawList {
	list := NewDrawList()
	if width <= 0 || height <= 0 {
		return list
	}

	switch {
	case s.World.Grid != nil:
		sprites := make([]Sprite, 0, len(s.NPCs))
		for _, n := range s.NPCs {
			sprites = append(sprites, n.Sprite())
		}
		s.rays.Render(s.World.Grid, s.Camera, sprites, list, width, height)
	case s.World.Poly != nil:
		s.renderer.Render(s.Camera, s.triangles, s.npcMeshes(), list, width, height)
	}
	if s.Weapon.Shake > 0 {
		dx, dy := shakeOffset(s.Weapon.Shake)
		list.Translate(0, dx, dy)
	}

	s.drawHUD(list, float64(width), float64(height))
	return list
}

// shakeOffsets are the screen shake steps in pixels, indexed by the ticks
// left on the shake timer.
var shakeOffsets = [ShakeTicks + 1]Point{{0, 0}, {1, -1}, {-2, 2}, {3, -1}, {-3, -2}, {2, 3}}

func shakeOffset(ticks int) (float64, float64) {
	p := shakeOffsets[clamp(ticks, 0, ShakeTicks)]
	return p.X, p.Y
}

// Draw renders a complete frame and then hands it to sink.
func (s *Session) Draw(sink DrawSink, width, height int) {
	s.Frame(width, height).Replay(sink)
}

// npcMeshes places every NPC mesh: enemies bob and turn to face the player.
func (s *Session) npcMeshes() []*Mesh {
	out := make([]*Mesh, 0, len(s.NPCs))
	player := s.Camera.Position
	for _, n := range s.NPCs {
		m, ok := s.meshes[n.ID]
		if !ok {
			continue
		}
		m.Position = n.Position
		switch b := n.Behavior.(type) {
		case *Combatant:
			m.Position.Y += b.Bob(0.1 * s.World.Meter)
			m.Rotation.Y = math.Atan2(player.X-n.Position.X, player.Z-n.Position.Z)
			if b.Kind == Zombie {
				m.Position.Y += 0.4 * s.World.Meter
			}
		case *Explorer:
			m.Position.Y += 0.4 * s.World.Meter
		}
		out = append(out, m)
	}
	return out
}

var (
	hudCrosshair = color.RGBA{R: 255, G: 255, B: 255, A: 200}
	hudHit       = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	hudBack      = color.RGBA{R: 20, G: 20, B: 20, A: 180}
	hudHealth    = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	hudAmmo      = color.RGBA{R: 230, G: 200, B: 40, A: 255}
)

func (s *Session) drawHUD(sink DrawSink, w, h float64) {
	if b := s.Weapon.Blood; b > 0 {
		sink.DrawFilledPolygon(rectPoints(0, 0, w, h), bloodOverlay(b))
	}

	cross := hudCrosshair
	if s.Weapon.HitMarker > 0 {
		cross = hudHit
	}
	cx, cy := w/2, h/2
	sink.DrawLine(Point{cx - 8, cy}, Point{cx + 8, cy}, cross, 2)
	sink.DrawLine(Point{cx, cy - 8}, Point{cx, cy + 8}, cross, 2)

	bar := func(y float64, frac float64, clr color.RGBA) {
		const x0, bw, bh = 10.0, 150.0, 10.0
		sink.DrawFilledPolygon(rectPoints(x0, y, x0+bw, y+bh), hudBack)
		if frac > 0 {
			sink.DrawFilledPolygon(rectPoints(x0, y, x0+bw*clampf(frac, 0, 1), y+bh), clr)
		}
	}
	bar(h-40, float64(s.Health)/PlayerHealth, hudHealth)
	bar(h-25, float64(s.Weapon.Ammo)/MaxAmmo, hudAmmo)
}

// bloodOverlay fades from half opaque red as the blood timer runs out.
func bloodOverlay(ticks int) color.RGBA {
	a := 0.5 * clampf(float64(ticks)/BloodTicks, 0, 1)
	return color.RGBA{R: 200, A: uint8(a * 255)}
}

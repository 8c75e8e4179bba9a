package gosiefps

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

type LevelKind string

const (
	GridLevel    LevelKind = "grid"
	PolygonLevel LevelKind = "polygon"
)

// ClassicCellSize is the cell size the NPC tunings are written for.
const ClassicCellSize = 64.0

// A grid cell is two metres wide.
const metresPerCell = 2.0

var ErrUnknownLevelKind = errors.New("unknown level kind")

// Level is the level descriptor, read from YAML or JSON.
type Level struct {
	Name      string         `yaml:"name"`
	Kind      LevelKind      `yaml:"kind"`
	CellSize  float64        `yaml:"cell_size,omitempty"`
	Grid      [][]int        `yaml:"grid,omitempty"`
	Boxes     []BoxSpec      `yaml:"boxes,omitempty"`
	Triangles []TriangleSpec `yaml:"triangles,omitempty"`
	Stairs    []BoxSpec      `yaml:"stairs,omitempty"`
	Props     []PropSpec     `yaml:"props,omitempty"`
	Spawn     SpawnSpec      `yaml:"spawn"`
	NPCs      []NPCSpec      `yaml:"npcs,omitempty"`
	Sky       string         `yaml:"sky,omitempty"`
	Floor     string         `yaml:"floor,omitempty"`
}

// BoxSpec gives a box by its min corner and its size along x, y and z.
type BoxSpec struct {
	Min   [3]float64 `yaml:"min"`
	Size  [3]float64 `yaml:"size"`
	Color string     `yaml:"color,omitempty"`
}

type TriangleSpec struct {
	Vertices [3][3]float64 `yaml:"vertices"`
	Color    string        `yaml:"color,omitempty"`
	TwoSided bool          `yaml:"two_sided,omitempty"`
}

// PropSpec places an inline ascii PLY model as scenery. Props are drawn but
// do not collide. Rotation is in degrees.
type PropSpec struct {
	PLY      string     `yaml:"ply"`
	Position [3]float64 `yaml:"position"`
	Rotation [3]float64 `yaml:"rotation,omitempty"`
	Scale    float64    `yaml:"scale,omitempty"`
	Color    string     `yaml:"color,omitempty"`
}

type SpawnSpec struct {
	Position [3]float64 `yaml:"position"`
	// Yaw is in degrees.
	Yaw float64 `yaml:"yaw,omitempty"`
}

// NPCSpec places an NPC. Family is "explorer" or "combat"; Kind is an
// explorer kind or an enemy kind accordingly.
type NPCSpec struct {
	Family   string     `yaml:"family"`
	Kind     string     `yaml:"kind"`
	Position [3]float64 `yaml:"position"`
	Dialogue bool       `yaml:"dialogue,omitempty"`
}

const levelSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "kind", "spawn"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "kind": {"enum": ["grid", "polygon"]},
    "cell_size": {"type": "number", "exclusiveMinimum": 0},
    "grid": {
      "type": "array",
      "items": {"type": "array", "items": {"type": "integer", "minimum": 0}}
    },
    "boxes": {"type": "array", "items": {"$ref": "#/definitions/box"}},
    "stairs": {"type": "array", "items": {"$ref": "#/definitions/box"}},
    "triangles": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["vertices"],
        "properties": {
          "vertices": {"type": "array", "minItems": 3, "maxItems": 3, "items": {"$ref": "#/definitions/vec3"}},
          "color": {"type": "string"},
          "two_sided": {"type": "boolean"}
        }
      }
    },
    "props": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["ply", "position"],
        "properties": {
          "ply": {"type": "string", "minLength": 3},
          "position": {"$ref": "#/definitions/vec3"},
          "rotation": {"$ref": "#/definitions/vec3"},
          "scale": {"type": "number", "exclusiveMinimum": 0},
          "color": {"type": "string"}
        }
      }
    },
    "spawn": {
      "type": "object",
      "required": ["position"],
      "properties": {
        "position": {"$ref": "#/definitions/vec3"},
        "yaw": {"type": "number"}
      }
    },
    "npcs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["family", "kind", "position"],
        "properties": {
          "family": {"enum": ["explorer", "combat"]},
          "kind": {"enum": ["wander", "patrol", "follow", "flee", "demon", "zombie"]},
          "position": {"$ref": "#/definitions/vec3"},
          "dialogue": {"type": "boolean"}
        }
      }
    },
    "sky": {"type": "string"},
    "floor": {"type": "string"}
  },
  "definitions": {
    "vec3": {"type": "array", "minItems": 3, "maxItems": 3, "items": {"type": "number"}},
    "box": {
      "type": "object",
      "required": ["min", "size"],
      "properties": {
        "min": {"$ref": "#/definitions/vec3"},
        "size": {"$ref": "#/definitions/vec3"},
        "color": {"type": "string"}
      }
    }
  }
}`

var levelSchema = jsonschema.MustCompileString("level.schema.json", levelSchemaJSON)

// ParseLevel decodes a YAML or JSON level descriptor and validates it
// against the level schema.
func ParseLevel(data []byte) (*Level, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	if err := levelSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}

	var l Level
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	if err := l.Check(); err != nil {
		return nil, err
	}
	return &l, nil
}

// EncodeLevel writes the descriptor as YAML.
func EncodeLevel(l *Level) ([]byte, error) {
	data, err := yaml.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}
	return data, nil
}

// Check runs the checks the schema cannot express.
func (l *Level) Check() error {
	switch l.Kind {
	case GridLevel:
		if len(l.Grid) == 0 {
			return fmt.Errorf("level %q: %w", l.Name, ErrEmptyGrid)
		}
	case PolygonLevel:
	default:
		return fmt.Errorf("level %q: %w: %q", l.Name, ErrUnknownLevelKind, l.Kind)
	}
	for i, n := range l.NPCs {
		switch n.Family {
		case "explorer":
			if _, ok := ParseExplorerKind(n.Kind); !ok {
				return fmt.Errorf("level %q: npc %d: %q is not an explorer kind", l.Name, i, n.Kind)
			}
		case "combat":
			if _, ok := ParseEnemyKind(n.Kind); !ok {
				return fmt.Errorf("level %q: npc %d: %q is not an enemy kind", l.Name, i, n.Kind)
			}
		default:
			return fmt.Errorf("level %q: npc %d: unknown family %q", l.Name, i, n.Family)
		}
	}
	return nil
}

func (l *Level) cellSize() float64 {
	if l.CellSize > 0 {
		return l.CellSize
	}
	if l.Kind == GridLevel {
		return ClassicCellSize
	}
	return metresPerCell
}

// World is the built, read-only geometry of a level.
type World struct {
	Kind    LevelKind
	Grid    *GridWorld
	Poly    *PolyWorld
	Stairs  []AABB
	Palette Palette
	// Meter is how many world units make a metre.
	Meter float64
	// NPCScale converts the classic NPC tunings to this world.
	NPCScale float64
}

func (w *World) Solids() Solids {
	if w.Grid != nil {
		return w.Grid
	}
	return w.Poly
}

func (w *World) Terrain() Terrain {
	if w.Grid != nil {
		return w.Grid
	}
	return w.Poly
}

// Build turns the descriptor into world geometry.
func (l *Level) Build() (*World, error) {
	if err := l.Check(); err != nil {
		return nil, err
	}
	cs := l.cellSize()
	w := &World{
		Kind:     l.Kind,
		Palette:  DefaultPalette(),
		Meter:    cs / metresPerCell,
		NPCScale: cs / ClassicCellSize,
	}

	var err error
	if l.Sky != "" {
		if w.Palette.Sky, err = ParseColor(l.Sky); err != nil {
			return nil, fmt.Errorf("level %q: sky: %w", l.Name, err)
		}
	}
	if l.Floor != "" {
		if w.Palette.Floor, err = ParseColor(l.Floor); err != nil {
			return nil, fmt.Errorf("level %q: floor: %w", l.Name, err)
		}
	}

	for i, s := range l.Stairs {
		box, err := s.box(w.Palette.Boundary)
		if err != nil {
			return nil, fmt.Errorf("level %q: stairs %d: %w", l.Name, i, err)
		}
		w.Stairs = append(w.Stairs, box.Bounds())
	}

	switch l.Kind {
	case GridLevel:
		if w.Grid, err = NewGridWorld(l.Grid, cs); err != nil {
			return nil, fmt.Errorf("level %q: %w", l.Name, err)
		}
	case PolygonLevel:
		boxes := make([]StaticBox, 0, len(l.Boxes))
		for i, b := range l.Boxes {
			box, err := b.box(colornames.Slategray)
			if err != nil {
				return nil, fmt.Errorf("level %q: box %d: %w", l.Name, i, err)
			}
			boxes = append(boxes, box)
		}
		tris := make([]Triangle, 0, len(l.Triangles))
		for i, t := range l.Triangles {
			tri, err := t.triangle()
			if err != nil {
				return nil, fmt.Errorf("level %q: triangle %d: %w", l.Name, i, err)
			}
			tris = append(tris, tri)
		}
		for i, p := range l.Props {
			m, err := p.mesh()
			if err != nil {
				return nil, fmt.Errorf("level %q: prop %d: %w", l.Name, i, err)
			}
			tris = m.WorldTriangles(tris)
		}
		w.Poly = NewPolyWorld(boxes, tris)
		w.Poly.MaxStep = 0.3 * w.Meter
		if skipped := len(boxes) + len(tris) - len(w.Poly.boxes) - len(w.Poly.triangles); skipped > 0 {
			log.Printf("level %q: skipped %d degenerate primitives", l.Name, skipped)
		}
	}
	return w, nil
}

func (b BoxSpec) box(fallback color.RGBA) (StaticBox, error) {
	clr := fallback
	if b.Color != "" {
		var err error
		if clr, err = ParseColor(b.Color); err != nil {
			return StaticBox{}, err
		}
	}
	return StaticBox{
		Origin: vec3(b.Min),
		Width:  b.Size[0],
		Height: b.Size[1],
		Depth:  b.Size[2],
		Color:  clr,
	}, nil
}

func (t TriangleSpec) triangle() (Triangle, error) {
	clr := colornames.Gray
	if t.Color != "" {
		var err error
		if clr, err = ParseColor(t.Color); err != nil {
			return Triangle{}, err
		}
	}
	tri := NewTriangle(vec3(t.Vertices[0]), vec3(t.Vertices[1]), vec3(t.Vertices[2]), clr)
	tri.TwoSided = t.TwoSided
	return tri, nil
}

func (p PropSpec) mesh() (*Mesh, error) {
	clr := colornames.Gray
	if p.Color != "" {
		var err error
		if clr, err = ParseColor(p.Color); err != nil {
			return nil, err
		}
	}
	m, err := ReadMeshPLY(strings.NewReader(p.PLY), clr)
	if err != nil {
		return nil, err
	}
	m.Position = vec3(p.Position)
	m.Rotation = vec3(p.Rotation).Scale(math.Pi / 180)
	if p.Scale > 0 {
		m.Scale = Vector3{p.Scale, p.Scale, p.Scale}
	}
	return m, nil
}

func vec3(a [3]float64) Vector3 {
	return Vector3{X: a[0], Y: a[1], Z: a[2]}
}

// ParseColor accepts an SVG colour name or #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown colour %q", s)
}

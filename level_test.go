package gosiefps

import (
	"errors"
	"image/color"
	"strings"
	"testing"
)

const gridLevelYAML = `
name: courtyard
kind: grid
grid:
  - [1, 1, 1, 1]
  - [1, 0, 0, 1]
  - [1, 0, 2, 1]
  - [1, 1, 1, 1]
spawn:
  position: [96, 0, 96]
  yaw: 90
npcs:
  - family: explorer
    kind: patrol
    position: [160, 0, 96]
    dialogue: true
  - family: combat
    kind: zombie
    position: [96, 0, 160]
sky: navy
floor: "#202020"
`

const polygonLevelJSON = `{
  "name": "yard",
  "kind": "polygon",
  "boxes": [
    {"min": [0, 0, 0], "size": [2, 3, 2], "color": "red"},
    {"min": [5, 0, 5], "size": [0, 1, 1]}
  ],
  "stairs": [{"min": [4, 0, 0], "size": [1, 3, 2]}],
  "triangles": [
    {"vertices": [[0, 0, 0], [0, 0, 10], [10, 0, 10]], "two_sided": true},
    {"vertices": [[0, 0, 0], [1, 1, 1], [2, 2, 2]]}
  ],
  "spawn": {"position": [-3, 0, -3]}
}`

func TestParseLevelGridYAML(t *testing.T) {
	l, err := ParseLevel([]byte(gridLevelYAML))
	if err != nil {
		t.Fatalf("ParseLevel() error = %v", err)
	}
	if l.Name != "courtyard" || l.Kind != GridLevel || len(l.Grid) != 4 || len(l.NPCs) != 2 {
		t.Fatalf("ParseLevel() = %+v", l)
	}
	if l.Spawn.Yaw != 90 || l.Spawn.Position != [3]float64{96, 0, 96} {
		t.Errorf("spawn = %+v", l.Spawn)
	}

	w, err := l.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if w.Grid == nil || w.Poly != nil {
		t.Fatal("grid level built without a grid")
	}
	if w.Grid.CellSize() != ClassicCellSize || !almostEqual(w.Meter, 32) || !almostEqual(w.NPCScale, 1) {
		t.Errorf("cell size %v meter %v npc scale %v", w.Grid.CellSize(), w.Meter, w.NPCScale)
	}
	if got := w.Grid.At(2, 2); got != 2 {
		t.Errorf("At(2, 2) = %v, want 2", got)
	}
	if w.Palette.Floor != (color.RGBA{0x20, 0x20, 0x20, 0xff}) {
		t.Errorf("floor colour = %v", w.Palette.Floor)
	}
	if w.Solids() != Solids(w.Grid) || w.Terrain() != Terrain(w.Grid) {
		t.Error("grid world does not answer collision queries")
	}
}

func TestParseLevelPolygonJSON(t *testing.T) {
	l, err := ParseLevel([]byte(polygonLevelJSON))
	if err != nil {
		t.Fatalf("ParseLevel() error = %v", err)
	}
	w, err := l.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if w.Poly == nil || w.Grid != nil {
		t.Fatal("polygon level built without polygons")
	}
	// the flat box and the collinear triangle are dropped
	if got := len(w.Poly.Boxes()); got != 1 {
		t.Errorf("boxes = %d, want 1", got)
	}
	if got := len(w.Poly.Triangles()); got != 1+12 {
		t.Errorf("triangles = %d, want 13", got)
	}
	if len(w.Stairs) != 1 || w.Stairs[0].Max != (Vector3{5, 3, 2}) {
		t.Errorf("stairs = %v", w.Stairs)
	}
	if !almostEqual(w.Meter, 1) {
		t.Errorf("meter = %v, want 1", w.Meter)
	}
}

func TestParseLevelErrors(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		wantErr error
		wantMsg string
	}{
		{name: "not YAML", data: "name: [", wantMsg: "level"},
		{name: "missing spawn", data: "name: a\nkind: grid\ngrid: [[0]]\n", wantMsg: "spawn"},
		{name: "unknown kind", data: "name: a\nkind: voxel\nspawn: {position: [0, 0, 0]}\n", wantMsg: "kind"},
		{name: "negative cell", data: "name: a\nkind: grid\ngrid: [[0, -2]]\nspawn: {position: [0, 0, 0]}\n", wantMsg: "minimum"},
		{name: "short vector", data: "name: a\nkind: polygon\nspawn: {position: [0, 0]}\n", wantMsg: "position"},
		{name: "empty grid", data: "name: a\nkind: grid\nspawn: {position: [0, 0, 0]}\n", wantErr: ErrEmptyGrid},
		{
			name:    "explorer with an enemy kind",
			data:    "name: a\nkind: polygon\nspawn: {position: [0, 0, 0]}\nnpcs: [{family: explorer, kind: demon, position: [0, 0, 0]}]\n",
			wantMsg: "not an explorer kind",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLevel([]byte(tc.data))
			if err == nil {
				t.Fatal("ParseLevel() succeeded")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantMsg != "" && !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestLevelCheckUnknownKind(t *testing.T) {
	l := &Level{Name: "x", Kind: "voxel"}
	if err := l.Check(); !errors.Is(err, ErrUnknownLevelKind) {
		t.Errorf("Check() = %v, want ErrUnknownLevelKind", err)
	}
	if _, err := l.Build(); !errors.Is(err, ErrUnknownLevelKind) {
		t.Errorf("Build() = %v, want ErrUnknownLevelKind", err)
	}
}

func TestBuildBadColour(t *testing.T) {
	l := &Level{Name: "x", Kind: PolygonLevel, Sky: "not-a-colour"}
	if _, err := l.Build(); err == nil || !strings.Contains(err.Error(), "sky") {
		t.Errorf("Build() = %v, want a sky colour error", err)
	}
}

func TestEncodeLevelRoundTrip(t *testing.T) {
	l, err := ParseLevel([]byte(gridLevelYAML))
	if err != nil {
		t.Fatalf("ParseLevel() error = %v", err)
	}
	data, err := EncodeLevel(l)
	if err != nil {
		t.Fatalf("EncodeLevel() error = %v", err)
	}
	again, err := ParseLevel(data)
	if err != nil {
		t.Fatalf("ParseLevel() of encoded level error = %v\n%s", err, data)
	}
	if again.Name != l.Name || len(again.Grid) != len(l.Grid) || len(again.NPCs) != len(l.NPCs) || again.Spawn != l.Spawn {
		t.Errorf("round trip = %+v, want %+v", again, l)
	}
}

func TestParseColor(t *testing.T) {
	testCases := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"red", color.RGBA{255, 0, 0, 255}, true},
		{" Navy ", color.RGBA{0, 0, 128, 255}, true},
		{"#10a0ff", color.RGBA{0x10, 0xa0, 0xff, 255}, true},
		{"#10a0f", color.RGBA{}, false},
		{"#zzzzzz", color.RGBA{}, false},
		{"blurple", color.RGBA{}, false},
	}
	for _, tc := range testCases {
		got, err := ParseColor(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("ParseColor(%q) = %v, %v", tc.in, got, err)
		}
	}
}

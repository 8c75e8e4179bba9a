package gosiefps

import (
	"reflect"
	"testing"
)

func TestGenerateGridLevel(t *testing.T) {
	l := GenerateGridLevel(24, 18, 42, 6)

	if err := l.Check(); err != nil {
		t.Fatalf("generated level fails Check(): %v", err)
	}
	w, err := l.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	g := w.Grid
	if g.Width() != 24 || g.Height() != 18 {
		t.Fatalf("grid is %dx%d", g.Width(), g.Height())
	}

	for x := 0; x < g.Width(); x++ {
		if !g.Solid(x, 0) || !g.Solid(x, g.Height()-1) {
			t.Fatalf("perimeter open at column %d", x)
		}
	}
	for y := 0; y < g.Height(); y++ {
		if !g.Solid(0, y) || !g.Solid(g.Width()-1, y) {
			t.Fatalf("perimeter open at row %d", y)
		}
	}

	sx, sz := g.CellAt(l.Spawn.Position[0], l.Spawn.Position[2])
	if g.Solid(sx, sz) {
		t.Fatal("spawn is inside a wall")
	}

	// every empty cell is reachable from the spawn
	reached := fillUnreachable(l.Grid, sx, sz)
	if got, want := len(reached), len(g.EmptyCells()); got != want {
		t.Errorf("reachable cells = %d, empty cells = %d", got, want)
	}

	if len(l.NPCs) != 6 {
		t.Fatalf("npcs = %d, want 6", len(l.NPCs))
	}
	for i, n := range l.NPCs {
		cx, cz := g.CellAt(n.Position[0], n.Position[2])
		if g.Solid(cx, cz) {
			t.Errorf("npc %d spawned in a wall", i)
		}
	}
	if l.NPCs[0].Family != "explorer" || l.NPCs[1].Family != "combat" {
		t.Errorf("families = %s, %s", l.NPCs[0].Family, l.NPCs[1].Family)
	}
}

func TestGenerateGridLevelDeterministic(t *testing.T) {
	a := GenerateGridLevel(16, 16, 5, 4)
	b := GenerateGridLevel(16, 16, 5, 4)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different levels")
	}
}

func TestGenerateGridLevelTiny(t *testing.T) {
	l := GenerateGridLevel(0, -4, 1, 3)
	if len(l.Grid) != 3 || len(l.Grid[0]) != 3 {
		t.Fatalf("grid = %v, want 3x3", l.Grid)
	}
	if l.Grid[1][1] != 0 {
		t.Error("centre of the smallest grid is not open")
	}
	if len(l.NPCs) != 0 {
		t.Errorf("npcs = %d, want none in a single cell level", len(l.NPCs))
	}
}

func TestGeneratePolygonLevel(t *testing.T) {
	l := GeneratePolygonLevel(20, 9, 8)
	if err := l.Check(); err != nil {
		t.Fatalf("generated level fails Check(): %v", err)
	}
	w, err := l.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := len(l.Triangles); got != 20*20*2 {
		t.Errorf("floor triangles = %d, want %d", got, 20*20*2)
	}
	for _, tri := range w.Poly.Triangles()[:len(l.Triangles)] {
		if tri.Normal().Y <= 0 {
			t.Fatalf("floor triangle faces down: %v", tri.Normal())
		}
	}

	if len(l.NPCs) != 8 {
		t.Fatalf("npcs = %d, want 8", len(l.NPCs))
	}
	for i, n := range l.NPCs {
		if !w.Poly.Walkable(n.Position[0], n.Position[2], 0.4) {
			t.Errorf("npc %d at %v starts inside a box", i, n.Position)
		}
	}

	// the spawn is kept clear
	if !w.Poly.Walkable(0, 0, 0.3) {
		t.Error("spawn is blocked")
	}
}

func TestGeneratePolygonLevelMinimumSize(t *testing.T) {
	l := GeneratePolygonLevel(1, 2, 0)
	if got := len(l.Triangles); got != 12*12*2 {
		t.Errorf("floor triangles = %d, want the 12 cell minimum", got)
	}
}

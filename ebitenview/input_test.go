package ebitenview

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/smasonuk/gosiefps"
)

type fakeKeyboard struct {
	held  map[ebiten.Key]bool
	just  map[ebiten.Key]bool
	click bool
	x, y  int
}

func (f *fakeKeyboard) Pressed(k ebiten.Key) bool     { return f.held[k] }
func (f *fakeKeyboard) JustPressed(k ebiten.Key) bool { return f.just[k] }
func (f *fakeKeyboard) MouseJustPressed(b ebiten.MouseButton) bool {
	return f.click && b == ebiten.MouseButtonLeft
}
func (f *fakeKeyboard) Cursor() (int, int) { return f.x, f.y }

func TestInputSamplerKeys(t *testing.T) {
	testCases := []struct {
		name string
		kb   fakeKeyboard
		want gosiefps.Intent
	}{
		{"nothing", fakeKeyboard{}, gosiefps.Intent{}},
		{"walk and strafe", fakeKeyboard{held: map[ebiten.Key]bool{ebiten.KeyW: true, ebiten.KeyD: true}}, gosiefps.Intent{Forward: true, Right: true}},
		{"arrow turn", fakeKeyboard{held: map[ebiten.Key]bool{ebiten.KeyArrowLeft: true}}, gosiefps.Intent{TurnLeft: true}},
		{"held space is not a jump", fakeKeyboard{held: map[ebiten.Key]bool{ebiten.KeySpace: true}}, gosiefps.Intent{}},
		{"jump and reload", fakeKeyboard{just: map[ebiten.Key]bool{ebiten.KeySpace: true, ebiten.KeyR: true}}, gosiefps.Intent{Jump: true, Reload: true}},
		{"mouse fire", fakeKeyboard{click: true}, gosiefps.Intent{Attack: true}},
		{"escape pauses", fakeKeyboard{just: map[ebiten.Key]bool{ebiten.KeyEscape: true}}, gosiefps.Intent{PauseToggle: true}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kb := tc.kb
			s := newInputSampler(&kb, DefaultBindings())
			if got := s.Sample(); got != tc.want {
				t.Errorf("Sample() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestInputSamplerPointerDelta(t *testing.T) {
	kb := &fakeKeyboard{x: 100, y: 50}
	s := newInputSampler(kb, DefaultBindings())

	// the first sample only records the cursor
	if in := s.Sample(); in.LookDX != 0 || in.LookDY != 0 {
		t.Fatalf("first sample = %+v, want no motion", in)
	}
	kb.x, kb.y = 112, 45
	if in := s.Sample(); in.LookDX != 12 || in.LookDY != -5 {
		t.Errorf("delta = %v, %v, want 12, -5", in.LookDX, in.LookDY)
	}
	if in := s.Sample(); in.LookDX != 0 || in.LookDY != 0 {
		t.Errorf("still cursor moved %v, %v", in.LookDX, in.LookDY)
	}
}

func TestInputSamplerRestart(t *testing.T) {
	kb := &fakeKeyboard{just: map[ebiten.Key]bool{ebiten.KeyEnter: true}}
	s := newInputSampler(kb, DefaultBindings())
	if !s.RestartRequested() {
		t.Error("Enter did not request a restart")
	}
	kb.just = nil
	if s.RestartRequested() {
		t.Error("restart requested with no key down")
	}
}

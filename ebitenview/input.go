package ebitenview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/smasonuk/gosiefps"
)

// Keyboard is the device state the sampler polls.
type Keyboard interface {
	Pressed(k ebiten.Key) bool
	JustPressed(k ebiten.Key) bool
	MouseJustPressed(b ebiten.MouseButton) bool
	Cursor() (x, y int)
}

type ebitenKeyboard struct{}

func (ebitenKeyboard) Pressed(k ebiten.Key) bool     { return ebiten.IsKeyPressed(k) }
func (ebitenKeyboard) JustPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }
func (ebitenKeyboard) MouseJustPressed(b ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(b)
}
func (ebitenKeyboard) Cursor() (int, int) { return ebiten.CursorPosition() }

// Bindings maps each intent field to the keys that set it.
type Bindings struct {
	Forward   []ebiten.Key
	Back      []ebiten.Key
	Left      []ebiten.Key
	Right     []ebiten.Key
	TurnLeft  []ebiten.Key
	TurnRight []ebiten.Key
	Jump      []ebiten.Key
	Attack    []ebiten.Key
	Reload    []ebiten.Key
	Pause     []ebiten.Key
	Restart   []ebiten.Key

	AttackButton ebiten.MouseButton
}

func DefaultBindings() Bindings {
	return Bindings{
		Forward:      []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp},
		Back:         []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown},
		Left:         []ebiten.Key{ebiten.KeyA},
		Right:        []ebiten.Key{ebiten.KeyD},
		TurnLeft:     []ebiten.Key{ebiten.KeyQ, ebiten.KeyArrowLeft},
		TurnRight:    []ebiten.Key{ebiten.KeyE, ebiten.KeyArrowRight},
		Jump:         []ebiten.Key{ebiten.KeySpace},
		Attack:       []ebiten.Key{ebiten.KeyF},
		Reload:       []ebiten.Key{ebiten.KeyR},
		Pause:        []ebiten.Key{ebiten.KeyP, ebiten.KeyEscape},
		Restart:      []ebiten.Key{ebiten.KeyEnter},
		AttackButton: ebiten.MouseButtonLeft,
	}
}

// InputSampler turns device state into one Intent per tick. Pointer motion is
// reported as the delta since the previous sample.
type InputSampler struct {
	Bindings Bindings

	keys         Keyboard
	lastX, lastY int
	primed       bool
}

func NewInputSampler() *InputSampler {
	return newInputSampler(ebitenKeyboard{}, DefaultBindings())
}

func newInputSampler(keys Keyboard, b Bindings) *InputSampler {
	return &InputSampler{Bindings: b, keys: keys}
}

func (s *InputSampler) Sample() gosiefps.Intent {
	b := s.Bindings
	in := gosiefps.Intent{
		Forward:     s.any(b.Forward, s.keys.Pressed),
		Back:        s.any(b.Back, s.keys.Pressed),
		Left:        s.any(b.Left, s.keys.Pressed),
		Right:       s.any(b.Right, s.keys.Pressed),
		TurnLeft:    s.any(b.TurnLeft, s.keys.Pressed),
		TurnRight:   s.any(b.TurnRight, s.keys.Pressed),
		Jump:        s.any(b.Jump, s.keys.JustPressed),
		Attack:      s.any(b.Attack, s.keys.JustPressed) || s.keys.MouseJustPressed(b.AttackButton),
		Reload:      s.any(b.Reload, s.keys.JustPressed),
		PauseToggle: s.any(b.Pause, s.keys.JustPressed),
	}

	x, y := s.keys.Cursor()
	if s.primed {
		in.LookDX = float64(x - s.lastX)
		in.LookDY = float64(y - s.lastY)
	}
	s.lastX, s.lastY, s.primed = x, y, true
	return in
}

// RestartRequested reports whether a restart key went down this tick.
func (s *InputSampler) RestartRequested() bool {
	return s.any(s.Bindings.Restart, s.keys.JustPressed)
}

func (s *InputSampler) any(keys []ebiten.Key, test func(ebiten.Key) bool) bool {
	for _, k := range keys {
		if test(k) {
			return true
		}
	}
	return false
}

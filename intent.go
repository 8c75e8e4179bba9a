package gosiefps

// Intent is the input snapshot sampled once per tick. Jump, Attack, Reload and
// PauseToggle are edge triggered: true only on the tick the key went down.
type Intent struct {
	Forward   bool
	Back      bool
	Left      bool
	Right     bool
	TurnLeft  bool
	TurnRight bool
	// LookDX and LookDY are the pointer motion since the last sample.
	LookDX float64
	LookDY float64

	Jump        bool
	Attack      bool
	Reload      bool
	PauseToggle bool
}

// Axes folds the movement keys into forward and strafe values in [-1, 1].
func (in Intent) Axes() (forward, strafe float64) {
	if in.Forward {
		forward++
	}
	if in.Back {
		forward--
	}
	if in.Right {
		strafe++
	}
	if in.Left {
		strafe--
	}
	return forward, strafe
}

// Turn is +1 for right, -1 for left.
func (in Intent) Turn() float64 {
	t := 0.0
	if in.TurnRight {
		t++
	}
	if in.TurnLeft {
		t--
	}
	return t
}

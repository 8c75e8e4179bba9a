package gosiefps

import "testing"

func TestWeaponFireAndReload(t *testing.T) {
	w := NewWeapon(1)
	if w.Ammo != MaxAmmo {
		t.Fatalf("ammo = %d, want %d", w.Ammo, MaxAmmo)
	}

	if !w.Fire() || w.Ammo != MaxAmmo-1 || w.State != WeaponFiring {
		t.Fatalf("Fire() left %+v", w)
	}
	for i := 0; i <= FireTicks; i++ {
		w.Tick()
	}
	if w.State != WeaponIdle {
		t.Errorf("state after firing = %v, want idle", w.State)
	}

	w.Ammo = 25
	if !w.Reload() || w.Reload() {
		t.Fatal("Reload() should start once")
	}
	if w.Fire() {
		t.Error("fired while reloading")
	}
	done := 0
	for i := 0; i < ReloadTicks; i++ {
		if w.Tick() {
			done++
		}
	}
	if done != 1 || w.State != WeaponIdle {
		t.Fatalf("reload finished %d times, state %v", done, w.State)
	}
	// the magazine caps the reload
	if w.Ammo != MaxAmmo {
		t.Errorf("ammo after reload = %d, want %d", w.Ammo, MaxAmmo)
	}

	w.Ammo = 0
	if w.Fire() {
		t.Error("fired with no ammo")
	}
}

func TestWeaponInSights(t *testing.T) {
	w := NewWeapon(1)
	eye := Vector3{0, 1.7, 0}
	fwd := Vector3{0, 0, 1}

	testCases := []struct {
		name   string
		target Vector3
		want   bool
	}{
		{"dead ahead", Vector3{0, 1.7, 5}, true},
		{"slightly off", Vector3{1, 1.7, 5}, true},
		{"off to the side", Vector3{5, 1.7, 5}, false},
		{"behind", Vector3{0, 1.7, -5}, false},
		{"out of range", Vector3{0, 1.7, 50}, false},
		{"at the eye", eye, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.InSights(eye, fwd, tc.target); got != tc.want {
				t.Errorf("InSights(%v) = %v, want %v", tc.target, got, tc.want)
			}
		})
	}
}

func TestWeaponHitMarker(t *testing.T) {
	w := NewWeapon(1)
	w.MarkHit()
	for i := 0; i < HitMarkerTicks; i++ {
		if w.HitMarker == 0 {
			t.Fatalf("hit marker gone after %d ticks", i)
		}
		w.Tick()
	}
	if w.HitMarker != 0 {
		t.Errorf("hit marker = %d, want 0", w.HitMarker)
	}
}

func TestWeaponFeedbackTimers(t *testing.T) {
	testCases := []struct {
		name  string
		start func(w *Weapon)
		timer func(w *Weapon) int
		ticks int
	}{
		{"shake after a shot", func(w *Weapon) { w.Fire() }, func(w *Weapon) int { return w.Shake }, ShakeTicks},
		{"blood after a hit", (*Weapon).MarkHit, func(w *Weapon) int { return w.Blood }, BloodTicks},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWeapon(1)
			if got := tc.timer(w); got != 0 {
				t.Fatalf("timer = %d before anything happened", got)
			}
			tc.start(w)
			if got := tc.timer(w); got != tc.ticks {
				t.Fatalf("timer = %d, want %d", got, tc.ticks)
			}
			for i := 0; i < tc.ticks+3; i++ {
				w.Tick()
			}
			if got := tc.timer(w); got != 0 {
				t.Errorf("timer = %d, want it run down to 0", got)
			}
		})
	}

	w := NewWeapon(1)
	w.Ammo = 0
	w.Fire()
	if w.Shake != 0 {
		t.Error("a dry fire shook the screen")
	}
}

package gosiefps

type WeaponState int

const (
	WeaponIdle WeaponState = iota
	WeaponFiring
	WeaponReloading
)

const (
	MaxAmmo          = 50
	ReloadAmount     = 30
	ReloadTicks      = 90
	FireTicks        = 10
	HitMarkerTicks   = 10
	ShakeTicks       = 5
	BloodTicks       = 15
	WeaponDamage     = 50
	weaponAimDot     = 0.9
	weaponRangeMetre = 10.0
)

// Weapon is the hitscan gun. Timers count ticks.
type Weapon struct {
	State     WeaponState
	Ammo      int
	Frame     int
	Reloading int
	HitMarker int
	// Shake runs after each shot and Blood after each hit.
	Shake int
	Blood int
	Range     float64
	Damage    int
}

func NewWeapon(meter float64) *Weapon {
	return &Weapon{
		Ammo:   MaxAmmo,
		Range:  weaponRangeMetre * meter,
		Damage: WeaponDamage,
	}
}

// Fire spends a round. It fails while reloading or when empty.
func (w *Weapon) Fire() bool {
	if w.State == WeaponReloading || w.Ammo <= 0 {
		return false
	}
	w.State = WeaponFiring
	w.Frame = 0
	w.Shake = ShakeTicks
	w.Ammo--
	return true
}

// Reload starts a reload unless one is running.
func (w *Weapon) Reload() bool {
	if w.State == WeaponReloading {
		return false
	}
	w.State = WeaponReloading
	w.Reloading = ReloadTicks
	return true
}

// InSights is true when target is within range and close to the aim line.
func (w *Weapon) InSights(eye, forward, target Vector3) bool {
	to := target.Sub(eye)
	dist := to.Length()
	if dist == 0 || dist >= w.Range {
		return false
	}
	return forward.Dot(to.Div(dist)) > weaponAimDot
}

// MarkHit shows the hit marker and the blood overlay.
func (w *Weapon) MarkHit() {
	w.HitMarker = HitMarkerTicks
	w.Blood = BloodTicks
}

// Tick advances the timers and reports whether a reload finished.
func (w *Weapon) Tick() bool {
	if w.HitMarker > 0 {
		w.HitMarker--
	}
	if w.Shake > 0 {
		w.Shake--
	}
	if w.Blood > 0 {
		w.Blood--
	}
	switch w.State {
	case WeaponFiring:
		w.Frame++
		if w.Frame > FireTicks {
			w.State = WeaponIdle
		}
	case WeaponReloading:
		w.Reloading--
		if w.Reloading <= 0 {
			w.State = WeaponIdle
			w.Ammo = min(MaxAmmo, w.Ammo+ReloadAmount)
			return true
		}
	}
	return false
}

package gosiefps

import (
	"fmt"
	"log"
	"math"

	"gopkg.in/yaml.v3"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// DamageScale multiplies the damage NPCs deal.
func (d Difficulty) DamageScale() float64 {
	switch d {
	case Easy:
		return 0.5
	case Hard:
		return 1.5
	}
	return 1
}

// Settings is the flat user settings record. Reading and writing the file is
// up to the caller.
type Settings struct {
	// Rays is the number of ray caster columns.
	Rays int `yaml:"rays"`
	// MaxTriangles is the triangle budget of the polygon renderer.
	MaxTriangles int        `yaml:"max_triangles"`
	TickRate     int        `yaml:"tick_rate"`
	Sensitivity  float64    `yaml:"sensitivity"`
	InvertY      bool       `yaml:"invert_y"`
	NPCCount     int        `yaml:"npc_count"`
	Difficulty   Difficulty `yaml:"difficulty"`
}

const (
	minRays         = 16
	maxRays         = 1920
	minTriangles    = 64
	maxTriangles    = 50000
	minTickRate     = 10
	maxTickRate     = 240
	minSensitivity  = 0.05
	maxSensitivity  = 10
	maxNPCCount     = 64
	DefaultTickRate = 60
)

func DefaultSettings() Settings {
	return Settings{
		Rays:         320,
		MaxTriangles: DefaultMaxTriangles,
		TickRate:     DefaultTickRate,
		Sensitivity:  1,
		NPCCount:     8,
		Difficulty:   Normal,
	}
}

// Sanitize clamps every field into its safe range and returns the names of
// the fields it changed.
func (s *Settings) Sanitize() []string {
	var changed []string
	clampInt := func(name string, v *int, lo, hi int) {
		if c := clamp(*v, lo, hi); c != *v {
			*v = c
			changed = append(changed, name)
		}
	}
	clampInt("rays", &s.Rays, minRays, maxRays)
	clampInt("max_triangles", &s.MaxTriangles, minTriangles, maxTriangles)
	clampInt("tick_rate", &s.TickRate, minTickRate, maxTickRate)
	clampInt("npc_count", &s.NPCCount, 0, maxNPCCount)

	if c := clampf(s.Sensitivity, minSensitivity, maxSensitivity); c != s.Sensitivity || math.IsNaN(s.Sensitivity) {
		s.Sensitivity = c
		changed = append(changed, "sensitivity")
	}

	switch s.Difficulty {
	case Easy, Normal, Hard:
	default:
		s.Difficulty = Normal
		changed = append(changed, "difficulty")
	}
	return changed
}

// TickSeconds is the length of one tick.
func (s Settings) TickSeconds() float64 {
	rate := s.TickRate
	if rate < minTickRate {
		rate = minTickRate
	}
	return 1 / float64(rate)
}

// DecodeSettings reads YAML on top of the defaults and clamps the result.
// Only malformed YAML is an error.
func DecodeSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("settings: %w", err)
	}
	if changed := s.Sanitize(); len(changed) > 0 {
		log.Printf("settings: clamped %v", changed)
	}
	return s, nil
}

func EncodeSettings(s Settings) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return data, nil
}

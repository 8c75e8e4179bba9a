package gosiefps

import "math"

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampf(value, min, max float64) float64 {
	if math.IsNaN(value) {
		return min
	}
	return math.Max(min, math.Min(max, value))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

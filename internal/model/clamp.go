package model

import "math"

// Weight bounds and the weight assumed for items nobody configured.
const (
	WeightMin     = 0.0
	WeightMax     = 5.0
	WeightDefault = 2.0
)

// ClampWeight bounds a weight to [WeightMin, WeightMax]. NaN maps to WeightMin.
func ClampWeight(w float64) float64 {
	if math.IsNaN(w) {
		return WeightMin
	}
	return math.Max(WeightMin, math.Min(WeightMax, w))
}

// ClampMood bounds a mood rating to its scale.
func ClampMood(m int) int {
	if m < MoodMin {
		return MoodMin
	}
	if m > MoodMax {
		return MoodMax
	}
	return m
}

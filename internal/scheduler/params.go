// Package scheduler ranks catalog items and recommends what to practice next.
package scheduler

import (
	"fmt"
	"math"

	"github.com/verte-zerg/practrack/internal/model"
)

// Params holds the tuning constants of the priority score.
type Params struct {
	DaysFactor         float64 // score per day since last practice
	MonthTarget        float64 // minutes per trailing month below which an item is under-practiced
	UnderFactor        float64 // score per missing minute below MonthTarget
	WeightBase         float64 // multiplier at weight 0
	WeightStep         float64 // multiplier added per weight point
	AvoidRepeatPenalty float64 // subtracted from the last pick when the avoid-repeat setting is on
	AvoidLastPenalty   float64 // subtracted from the last pick when the caller asks for an alternate
	Jitter             float64 // upper bound of the random tie-breaking term
	NeverDays          int     // days assumed for items never practiced
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		DaysFactor:         5,
		MonthTarget:        240,
		UnderFactor:        0.10,
		WeightBase:         0.7,
		WeightStep:         0.16,
		AvoidRepeatPenalty: 18,
		AvoidLastPenalty:   10,
		Jitter:             2.5,
		NeverDays:          999,
	}
}

// Validate rejects negative or non-finite constants.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"days-factor", p.DaysFactor},
		{"month-target", p.MonthTarget},
		{"under-factor", p.UnderFactor},
		{"weight-base", p.WeightBase},
		{"weight-step", p.WeightStep},
		{"avoid-repeat-penalty", p.AvoidRepeatPenalty},
		{"avoid-last-penalty", p.AvoidLastPenalty},
		{"jitter", p.Jitter},
		{"never-days", float64(p.NeverDays)},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("scheduler %s must be a finite value >= 0, got %v", f.name, f.value)
		}
	}
	return nil
}

// Multiplier maps a weight in [0,5] to the score multiplier.
func (p Params) Multiplier(weight float64) float64 {
	return p.WeightBase + model.ClampWeight(weight)*p.WeightStep
}

// DisplayMultiplier is Multiplier rounded to one decimal.
func (p Params) DisplayMultiplier(weight float64) float64 {
	return math.Round(p.Multiplier(weight)*10) / 10
}

package calculation

import (
	"math"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// RampFactor is the share of a lever change that is in effect over the
// horizon: max(0.5, 1 - rampMonths/(2*horizon)). Immediate ramps return 1.
func RampFactor(ramp domain.RampType, horizonMonths int) float64 {
	months := ramp.Months()
	if months == 0 {
		return 1
	}
	if horizonMonths < 1 {
		horizonMonths = 1
	}
	return math.Max(0.5, 1-float64(months)/(2*float64(horizonMonths)))
}

// ComputeEffective blends baseline levers toward scenario levers according to
// the ramp. The result always lies between baseline and scenario for every lever.
func ComputeEffective(baseline, scenario domain.LeverState, ramp domain.RampType, horizonMonths int) domain.LeverState {
	scenario = scenario.Clamped()
	if ramp.Months() == 0 {
		return scenario
	}
	baseline = baseline.Clamped()
	factor := RampFactor(ramp, horizonMonths)

	var out domain.LeverState
	for i := range out {
		b, s := baseline[i], scenario[i]
		v := math.Round(b + (s-b)*factor)
		// rounding can step past an endpoint that is itself fractional
		lo, hi := math.Min(b, s), math.Max(b, s)
		out[i] = domain.Clamp(v, lo, hi)
	}
	return out
}

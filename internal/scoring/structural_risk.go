package scoring

import (
	"math"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// Reference ceilings: an elasticity at its ceiling counts as fully fragile
const (
	ceilingRevenueVolatility = 0.30
	ceilingBurnVolatility    = 0.20
	ceilingChurnVolatility   = 0.10
	ceilingShockProbability  = 0.15
	ceilingShockSeverity     = 0.50
	ceilingFundingPressure   = 1.0

	weightVolatility = 0.6
	weightShock      = 0.4

	riskGreenMax = 33
	riskAmberMax = 66
)

// ratio is the clamped share of ceiling used by a parameter
func ratio(v *float64, ceiling float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Neutral
	}
	return domain.Clamp01(*v / ceiling)
}

// StructuralRisk computes the 0-100 fragility index from the elasticity
// parameters of a volatility model. Higher means more fragile.
func StructuralRisk(p domain.ElasticityParams) domain.StructuralRiskIndex {
	vol := (ratio(p.RevenueVolatility, ceilingRevenueVolatility) +
		ratio(p.BurnVolatility, ceilingBurnVolatility) +
		ratio(p.ChurnVolatility, ceilingChurnVolatility)) / 3
	shock := (ratio(p.ShockProbability, ceilingShockProbability) +
		ratio(p.ShockSeverity, ceilingShockSeverity) +
		ratio(p.FundingPressure, ceilingFundingPressure)) / 3

	idx := int(math.Round(100 * (weightVolatility*vol + weightShock*shock)))
	return domain.StructuralRiskIndex{
		Index:           idx,
		VolatilityScore: vol,
		ShockScore:      shock,
		Band:            RiskBandFor(idx),
	}
}

// RiskBandFor bands a fragility index: <=33 green, <=66 amber, else red
func RiskBandFor(index int) domain.QualityBand {
	switch {
	case index <= riskGreenMax:
		return domain.BandGreen
	case index <= riskAmberMax:
		return domain.BandAmber
	default:
		return domain.BandRed
	}
}

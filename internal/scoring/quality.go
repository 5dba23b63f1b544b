// Package scoring turns computed KPIs into bounded composite scores and
// traffic-light bands. Every function is pure and total: unknown inputs fall
// back to a neutral value instead of failing.
package scoring

import (
	"math"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// Neutral is the normalized value used for any missing or non-finite input
const Neutral = 0.5

// Quality Score weights and normalization ranges
const (
	weightLTVCAC        = 0.35
	weightCACPayback    = 0.25
	weightEarningsPower = 0.25
	weightBurnQuality   = 0.15

	qualityGreen = 0.70
	qualityAmber = 0.40
)

// Normalize maps x from [lo,hi] onto [0,1], clamping outside the range.
// A missing or non-finite x, or an empty range, yields Neutral.
func Normalize(x *float64, lo, hi float64) float64 {
	if x == nil || math.IsNaN(*x) || math.IsInf(*x, 0) || hi <= lo {
		return Neutral
	}
	return domain.Clamp01((*x - lo) / (hi - lo))
}

// Quality computes the 0-1 unit economics score. Higher LTV/CAC, earnings
// power and burn quality raise it; a longer CAC payback lowers it.
func Quality(in domain.QualityInputs) domain.QualityScore {
	var q domain.QualityScore
	q.Components.LTVCAC = Normalize(in.LTVCAC, 2, 6)
	q.Components.CACPayback = 1 - Normalize(in.CACPayback, 6, 36)
	q.Components.EarningsPower = Normalize(in.EarningsPower, 20, 80)
	q.Components.BurnQuality = Normalize(in.BurnQuality, 20, 80)

	q.Score = weightLTVCAC*q.Components.LTVCAC +
		weightCACPayback*q.Components.CACPayback +
		weightEarningsPower*q.Components.EarningsPower +
		weightBurnQuality*q.Components.BurnQuality
	q.Score = domain.Clamp01(q.Score)
	q.Band = QualityBandFor(q.Score)
	return q
}

// QualityBandFor bands a Quality Score: >=0.70 green, >=0.40 amber, else red
func QualityBandFor(score float64) domain.QualityBand {
	switch {
	case score >= qualityGreen:
		return domain.BandGreen
	case score >= qualityAmber:
		return domain.BandAmber
	default:
		return domain.BandRed
	}
}

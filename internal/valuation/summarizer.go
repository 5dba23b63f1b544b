// Package valuation reduces enterprise-value information of varying richness
// (a full sample set, a persisted percentile band, or a single point estimate)
// to one canonical ValuationDistributionSummary.
package valuation

import (
	"math"
	"slices"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/domain"
)

const (
	// MinSamples is the smallest sample set summarized as a real distribution
	MinSamples = 10
	// DefaultSyntheticSamples is the size of the quasi-random set used when
	// only percentiles are known
	DefaultSyntheticSamples = 1000
	// DefaultUncertainty is the relative band width used for a single EV
	DefaultUncertainty = 0.20

	winsorLowRank  = 0.05
	winsorHighRank = 0.95
	// z-score of the 5th/95th percentile of a standard normal
	z95 = 1.6448536269514722
	// IQR of a standard normal
	normalIQR = 1.35
	// p90-p10 span of a standard normal
	normalP10P90 = 2.5631031310892007
)

// Summarizer builds valuation summaries against a fixed set of thresholds
type Summarizer struct {
	thresholds []domain.Threshold
	synthetic  int
	Logger     calculation.Logger
}

// NewSummarizer creates a summarizer. Nil thresholds use the defaults.
func NewSummarizer(thresholds []domain.Threshold) *Summarizer {
	if thresholds == nil {
		thresholds = domain.DefaultValuationThresholds()
	}
	return &Summarizer{
		thresholds: slices.Clone(thresholds),
		synthetic:  DefaultSyntheticSamples,
		Logger:     calculation.NopLogger{},
	}
}

// SetLogger sets the logger; nil installs a no-op logger
func (s *Summarizer) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	s.Logger = l
}

// Thresholds returns a copy of the configured thresholds
func (s *Summarizer) Thresholds() []domain.Threshold {
	return slices.Clone(s.thresholds)
}

// FromSamples summarizes a real sample set. Display percentiles come from the
// samples winsorized at p05/p95; threshold probabilities come from the raw
// samples. Non-finite samples are dropped. Fewer than MinSamples finite
// samples yields a zeroed summary flagged InsufficientData.
func (s *Summarizer) FromSamples(samples []float64) domain.ValuationDistributionSummary {
	sorted := make([]float64, 0, len(samples))
	for _, v := range samples {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if dropped := len(samples) - len(sorted); dropped > 0 {
		s.Logger.Warnf("dropped %d non-finite valuation samples", dropped)
	}

	if len(sorted) < MinSamples {
		s.Logger.Debugf("insufficient valuation samples: %d < %d", len(sorted), MinSamples)
		return domain.ValuationDistributionSummary{
			Thresholds:       s.probabilities(nil),
			SampleCount:      len(sorted),
			InsufficientData: true,
		}
	}
	slices.Sort(sorted)

	lo := calculation.RankPercentile(sorted, winsorLowRank)
	hi := calculation.RankPercentile(sorted, winsorHighRank)
	winsorized := make([]float64, len(sorted))
	for i, v := range sorted {
		winsorized[i] = domain.Clamp(v, lo, hi)
	}

	return domain.ValuationDistributionSummary{
		Percentiles:            band(winsorized),
		WinsorLow:              lo,
		WinsorHigh:             hi,
		Thresholds:             s.probabilities(sorted),
		IsFromRealDistribution: true,
		SampleCount:            len(sorted),
	}
}

// FromPercentiles summarizes a known percentile band. The band is repaired to
// be non-negative and non-decreasing; threshold probabilities are estimated
// from a deterministic normal approximation with mean p50 and sigma IQR/1.35.
func (s *Summarizer) FromPercentiles(p domain.PercentileBand) domain.ValuationDistributionSummary {
	p = sanitizeBand(p)
	mu := p.P50
	sigma := (p.P75 - p.P25) / normalIQR
	if sigma <= 1e-9*math.Max(1, math.Abs(mu)) {
		sigma = (p.P90 - p.P10) / normalP10P90
	}

	synthetic := make([]float64, s.synthetic)
	for i := range synthetic {
		z := math.Sqrt2 * math.Erfinv(2*vanDerCorput(uint64(i+1))-1)
		synthetic[i] = math.Max(0, mu+sigma*z)
	}

	return domain.ValuationDistributionSummary{
		Percentiles:            p,
		WinsorLow:              math.Max(0, math.Min(p.P10, mu-z95*sigma)),
		WinsorHigh:             math.Max(p.P90, mu+z95*sigma),
		Thresholds:             s.probabilities(synthetic),
		IsFromRealDistribution: false,
		SampleCount:            len(synthetic),
	}
}

// FromSingleEV synthesizes a band of ev*(1-2u), ev*(1-u), ev, ev*(1+u),
// ev*(1+2u) and summarizes it. A non-finite ev has no band and yields a
// zeroed summary flagged InsufficientData; a negative ev is treated as 0.
// Uncertainty is capped at 0.5. A zero band is never synthesized: NaN, zero
// and negative uncertainty all mean "unknown" and use DefaultUncertainty.
func (s *Summarizer) FromSingleEV(ev, uncertainty float64) domain.ValuationDistributionSummary {
	if math.IsNaN(ev) || math.IsInf(ev, 0) {
		s.Logger.Warnf("cannot summarize non-finite EV %v", ev)
		return domain.ValuationDistributionSummary{
			Thresholds:       s.probabilities(nil),
			InsufficientData: true,
		}
	}
	if ev < 0 {
		ev = 0
	}
	if math.IsNaN(uncertainty) || uncertainty <= 0 {
		uncertainty = DefaultUncertainty
	}
	u := math.Min(uncertainty, 0.5)

	return s.FromPercentiles(domain.PercentileBand{
		P10: math.Max(0, ev*(1-2*u)),
		P25: ev * (1 - u),
		P50: ev,
		P75: ev * (1 + u),
		P90: ev * (1 + 2*u),
	})
}

// probabilities evaluates every threshold against samples. An empty sample
// set gives zero probability everywhere.
func (s *Summarizer) probabilities(samples []float64) []domain.ProbabilityThreshold {
	out := make([]domain.ProbabilityThreshold, len(s.thresholds))
	for i, t := range s.thresholds {
		hits := 0
		for _, v := range samples {
			if t.Direction.Meets(v, t.Value) {
				hits++
			}
		}
		prob := 0.0
		if len(samples) > 0 {
			prob = float64(hits) / float64(len(samples))
		}
		dir := t.Direction
		if dir == "" {
			dir = domain.ThresholdGE
		}
		out[i] = domain.ProbabilityThreshold{
			Label:       t.Label,
			Value:       t.Value,
			Probability: prob,
			Direction:   dir,
		}
	}
	return out
}

func band(sorted []float64) domain.PercentileBand {
	return domain.PercentileBand{
		P10: calculation.RankPercentile(sorted, 0.10),
		P25: calculation.RankPercentile(sorted, 0.25),
		P50: calculation.RankPercentile(sorted, 0.50),
		P75: calculation.RankPercentile(sorted, 0.75),
		P90: calculation.RankPercentile(sorted, 0.90),
	}
}

// sanitizeBand replaces non-finite or negative entries with zero and lifts
// each percentile to at least the one below it.
func sanitizeBand(p domain.PercentileBand) domain.PercentileBand {
	vals := p.Values()
	prev := 0.0
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			v = 0
		}
		v = math.Max(v, prev)
		vals[i] = v
		prev = v
	}
	return domain.PercentileBand{P10: vals[0], P25: vals[1], P50: vals[2], P75: vals[3], P90: vals[4]}
}

// vanDerCorput is the base-2 radical inverse of i, a low-discrepancy point in (0,1) for i >= 1
func vanDerCorput(i uint64) float64 {
	v, denom := 0.0, 1.0
	for i > 0 {
		denom *= 2
		v += float64(i&1) / denom
		i >>= 1
	}
	return v
}

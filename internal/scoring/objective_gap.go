package scoring

import (
	"math"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

const (
	weightRunwayObjective   = 0.40
	weightSurvivalObjective = 0.35
	weightEVObjective       = 0.25

	gapGreenMax = 15
	gapAmberMax = 40
)

// ObjectiveGap scores how far metrics fall short of the objectives, 0 when
// every target is met and 100 when all are missed entirely. Each shortfall is
// (target-actual)/target clamped to [0,1]; unset targets count as Neutral.
func ObjectiveGap(obj domain.Objectives, m domain.MetricState) domain.ObjectiveGap {
	components := []domain.ObjectiveGapComponent{
		gapComponent("runway", obj.RunwayMonths, m.Runway, weightRunwayObjective),
		gapComponent("survival", obj.Survival, m.Survival, weightSurvivalObjective),
		gapComponent("ev", obj.EV, m.EV, weightEVObjective),
	}

	total := 0.0
	for _, c := range components {
		total += c.Weight * c.Gap
	}
	score := int(math.Round(100 * domain.Clamp01(total)))
	return domain.ObjectiveGap{
		Score:      score,
		Band:       GapBandFor(score),
		Components: components,
	}
}

func gapComponent(name string, target *float64, actual, weight float64) domain.ObjectiveGapComponent {
	c := domain.ObjectiveGapComponent{Name: name, Actual: actual, Weight: weight}
	if target == nil || math.IsNaN(*target) || math.IsInf(*target, 0) {
		c.Gap = Neutral
		return c
	}
	c.Target = *target
	c.Known = true
	if c.Target <= 0 || math.IsNaN(actual) {
		// a non-positive target is met by anything; an unknown actual is neutral
		if math.IsNaN(actual) {
			c.Gap = Neutral
		}
		return c
	}
	c.Gap = domain.Clamp01((c.Target - actual) / c.Target)
	return c
}

// GapBandFor bands an objective gap: <=15 green, <=40 amber, else red
func GapBandFor(score int) domain.QualityBand {
	switch {
	case score <= gapGreenMax:
		return domain.BandGreen
	case score <= gapAmberMax:
		return domain.BandAmber
	default:
		return domain.BandRed
	}
}

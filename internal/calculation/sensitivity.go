package calculation

import (
	"math"
	"slices"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// attributeSensitivity ranks levers by how strongly their trial-local noise
// correlates with the outcome. Impact is the Pearson correlation scaled to
// -100..100; the top K non-zero factors are returned, ties broken by lever order.
func attributeSensitivity(trials []domain.SingleSimulationResult, outcome []float64, topK int) []domain.SensitivityFactor {
	n := len(trials)
	factors := make([]domain.SensitivityFactor, 0, domain.LeverCount)
	if n < 2 || len(outcome) != n {
		return factors
	}

	meanY := 0.0
	for _, y := range outcome {
		meanY += y
	}
	meanY /= float64(n)

	for j := domain.LeverID(0); j < domain.LeverCount; j++ {
		meanX := 0.0
		for i := range trials {
			meanX += trials[i].LeverNoise[j]
		}
		meanX /= float64(n)

		var cov, varX, varY float64
		for i := range trials {
			dx := trials[i].LeverNoise[j] - meanX
			dy := outcome[i] - meanY
			cov += dx * dy
			varX += dx * dx
			varY += dy * dy
		}
		if varX == 0 || varY == 0 {
			continue
		}
		impact := 100 * cov / math.Sqrt(varX*varY)
		// round away float noise so the ranking is stable
		impact = math.Round(impact*100) / 100
		if impact == 0 {
			continue
		}
		dir := domain.DirectionPositive
		if impact < 0 {
			dir = domain.DirectionNegative
		}
		factors = append(factors, domain.SensitivityFactor{
			Lever:     j,
			Label:     j.Info().Label,
			Impact:    impact,
			Direction: dir,
		})
	}

	slices.SortStableFunc(factors, func(a, b domain.SensitivityFactor) int {
		ai, bi := math.Abs(a.Impact), math.Abs(b.Impact)
		switch {
		case ai > bi:
			return -1
		case ai < bi:
			return 1
		}
		return int(a.Lever) - int(b.Lever)
	})
	if len(factors) > topK {
		factors = factors[:topK]
	}
	return factors
}

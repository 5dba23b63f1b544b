package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/report"
)

// ComparisonResult represents a single plan with its headline metrics
type ComparisonResult struct {
	Slot         string            `json:"slot"`
	ScenarioName string            `json:"scenarioName"`
	Scenario     domain.ScenarioID `json:"scenario"`
	Ramp         domain.RampType   `json:"ramp"`

	Report *report.SimulationReport `json:"-"`

	// Key Metrics
	Runway         float64            `json:"runway"`       // point estimate, months
	RunwayMedian   float64            `json:"runwayMedian"` // Monte Carlo p50, months
	SurvivalRate   float64            `json:"survivalRate"` // 0-1, Monte Carlo when available
	EV             decimal.Decimal    `json:"ev"`           // point estimate
	EVMedian       decimal.Decimal    `json:"evMedian"`     // valuation band p50
	Risk           float64            `json:"risk"`
	QualityScore   float64            `json:"qualityScore"`
	QualityBand    domain.QualityBand `json:"qualityBand"`
	StructuralRisk int                `json:"structuralRisk"`
	RiskBand       domain.QualityBand `json:"riskBand"`
	ObjectiveGap   int                `json:"objectiveGap"`
	GapBand        domain.QualityBand `json:"gapBand"`
	TopDriver      string             `json:"topDriver,omitempty"`
	FromRealDist   bool               `json:"fromRealDistribution"`

	// Comparison to Base
	RunwayDiffFromBase   float64         `json:"runwayDiffFromBase"`
	SurvivalDiffFromBase float64         `json:"survivalDiffFromBase"` // percentage points
	EVDiffFromBase       decimal.Decimal `json:"evDiffFromBase"`
	EVPctFromBase        decimal.Decimal `json:"evPctFromBase"`
	StructuralRiskDiff   int             `json:"structuralRiskDiff"`
}

// ComparisonSet represents a base plan compared against alternatives
type ComparisonSet struct {
	Workspace          string             `json:"workspace"`
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// Reports returns the underlying reports, base first
func (cs *ComparisonSet) Reports() []*report.SimulationReport {
	out := make([]*report.SimulationReport, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil && cs.BaseResult.Report != nil {
		out = append(out, cs.BaseResult.Report)
	}
	for _, alt := range cs.AlternativeResults {
		if alt.Report != nil {
			out = append(out, alt.Report)
		}
	}
	return out
}

// MetricsCalculator extracts key metrics from plan reports
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics for one report
func (mc *MetricsCalculator) CalculateMetrics(slot string, r *report.SimulationReport) ComparisonResult {
	result := ComparisonResult{
		Slot:           slot,
		ScenarioName:   r.Plan.Name,
		Scenario:       r.Plan.Scenario,
		Ramp:           r.Plan.Ramp,
		Report:         r,
		Runway:         r.Scenario.Runway,
		RunwayMedian:   r.Scenario.Runway,
		SurvivalRate:   r.Delta.Survival.Scenario / 100,
		EV:             decimal.NewFromFloat(r.Scenario.EV).Round(0),
		EVMedian:       decimal.NewFromFloat(r.Valuation.Percentiles.P50).Round(0),
		Risk:           r.Scenario.Risk,
		QualityScore:   r.Quality.Score,
		QualityBand:    r.Quality.Band,
		StructuralRisk: r.StructuralRisk.Index,
		RiskBand:       r.StructuralRisk.Band,
		ObjectiveGap:   r.ObjectiveGap.Score,
		GapBand:        r.ObjectiveGap.Band,
		FromRealDist:   r.Valuation.IsFromRealDistribution,
	}

	if sim := r.Simulation; sim != nil {
		result.RunwayMedian = sim.RunwayPercentiles.P50
		if len(sim.SensitivityFactors) > 0 {
			f := sim.SensitivityFactors[0]
			result.TopDriver = fmt.Sprintf("%s (%+.0f)", f.Label, f.Impact)
		}
	}
	return result
}

// CalculateComparison computes comparison metrics between a plan and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.RunwayDiffFromBase = scenario.RunwayMedian - base.RunwayMedian
	scenario.SurvivalDiffFromBase = 100 * (scenario.SurvivalRate - base.SurvivalRate)
	scenario.EVDiffFromBase = scenario.EVMedian.Sub(base.EVMedian)

	if !base.EVMedian.IsZero() {
		scenario.EVPctFromBase = scenario.EVDiffFromBase.
			Div(base.EVMedian).
			Mul(decimal.NewFromInt(100))
	}

	scenario.StructuralRiskDiff = scenario.StructuralRisk - base.StructuralRisk
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	// Find best survival
	bestSurvival := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.SurvivalRate > bestSurvival.SurvivalRate {
			bestSurvival = alt
		}
	}
	if bestSurvival != base {
		recommendations = append(recommendations, fmt.Sprintf(
			"Best Survival: %s survives in %.1f%% of trials, %.1f points above %s",
			bestSurvival.ScenarioName, 100*bestSurvival.SurvivalRate, bestSurvival.SurvivalDiffFromBase, base.ScenarioName))
	}

	// Find longest median runway
	bestRunway := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.RunwayMedian > bestRunway.RunwayMedian {
			bestRunway = alt
		}
	}
	if bestRunway != base {
		recommendations = append(recommendations, fmt.Sprintf(
			"Longest Runway: %s extends median runway by %.1f months",
			bestRunway.ScenarioName, bestRunway.RunwayDiffFromBase))
	}

	// Find highest median valuation
	bestEV := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.EVMedian.GreaterThan(bestEV.EVMedian) {
			bestEV = alt
		}
	}
	if bestEV != base {
		recommendations = append(recommendations, fmt.Sprintf(
			"Highest Valuation: %s adds $%s to median enterprise value",
			bestEV.ScenarioName, formatDecimal(bestEV.EVDiffFromBase)))
	}

	// Flag fragile plans
	for _, r := range append([]ComparisonResult{*base}, compSet.AlternativeResults...) {
		if r.RiskBand == domain.BandRed {
			recommendations = append(recommendations, fmt.Sprintf(
				"Fragile: %s has a structural risk index of %d", r.ScenarioName, r.StructuralRisk))
		}
		if r.GapBand == domain.BandRed {
			recommendations = append(recommendations, fmt.Sprintf(
				"Off Target: %s misses its objectives (gap %d)", r.ScenarioName, r.ObjectiveGap))
		}
	}

	return recommendations
}

// formatDecimal formats a decimal for display (in thousands or millions)
func formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

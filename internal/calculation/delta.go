package calculation

import "github.com/rgehrsitz/runwaysim/internal/domain"

// DeltaInput gathers what the KPI delta needs
type DeltaInput struct {
	Baseline       domain.BaselineMetrics
	BaselineLevers domain.LeverState
	Effective      domain.LeverState
	Scenario       domain.ScenarioID
	Config         domain.SimulationConfig
	Simulation     *domain.MonteCarloResult // optional
}

// ComputeDelta runs the calculator for the baseline (base scenario) and the
// effective levers (selected scenario) and pairs the headline KPIs. When a
// simulation result produced from exactly the effective levers and config is
// supplied, its survival rate replaces the point estimate.
func ComputeDelta(in DeltaInput) domain.DeltaMetrics {
	base := Calculate(in.Baseline, in.BaselineLevers, domain.ScenarioBase)
	scen := Calculate(in.Baseline, in.Effective, in.Scenario)

	out := domain.DeltaMetrics{
		Survival: domain.NewMetricDelta(base.Survival, scen.Survival),
		EV:       domain.NewMetricDelta(base.EV, scen.EV),
		Runway:   domain.NewMetricDelta(base.Runway, scen.Runway),
		Risk:     domain.NewMetricDelta(base.Risk, scen.Risk),
	}

	if mc := in.Simulation; mc != nil && mc.Tag.Matches(in.Config, in.Effective) {
		out.Survival = domain.NewMetricDelta(base.Survival, 100*domain.Clamp01(mc.SurvivalRate))
		out.SurvivalFromSimulation = true
	}
	return out
}

package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLeverCatalogue(t *testing.T) {
	levers := Levers()
	require.Len(t, levers, int(LeverCount))
	for i, info := range levers {
		assert.Equal(t, LeverID(i), info.ID)
		assert.NotEmpty(t, info.Key)
		assert.NotEmpty(t, info.Label)
	}

	// the catalogue copy cannot mutate the original
	levers[0].Label = "changed"
	assert.Equal(t, "Demand Strength", LeverDemandStrength.Info().Label)

	assert.Equal(t, "unknown", LeverCount.String())
	assert.Equal(t, "hiring_intensity", LeverHiringIntensity.String())
}

func TestParseLeverID(t *testing.T) {
	tests := map[string]LeverID{
		"demand_strength":   LeverDemandStrength,
		"pricingPower":      LeverPricingPower,
		"Cost Discipline":   LeverCostDiscipline,
		"market-volatility": LeverMarketVolatility,
	}
	for in, want := range tests {
		got, err := ParseLeverID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLeverID("charisma")
	assert.Error(t, err)
}

func TestLeverState(t *testing.T) {
	s := DefaultLevers()
	assert.Equal(t, 60.0, s.Get(LeverDemandStrength))
	assert.Equal(t, 50.0, s.Get(LeverHiringIntensity))

	up := s.With(LeverCostDiscipline, 140)
	assert.Equal(t, LeverMax, up.Get(LeverCostDiscipline))
	assert.Equal(t, 50.0, s.Get(LeverCostDiscipline), "With returns a copy")
	assert.Equal(t, 1.0, up.Delta(LeverCostDiscipline))
	assert.Equal(t, 1.0, up.Unit(LeverCostDiscipline))

	nan := s.With(LeverPricingPower, math.NaN())
	assert.Equal(t, 50.0, nan.Get(LeverPricingPower))

	raw := s
	raw[LeverOperatingDrag] = -20
	assert.Equal(t, 0.0, raw.Clamped()[LeverOperatingDrag])
	assert.Equal(t, -20.0, raw[LeverOperatingDrag])

	assert.Equal(t, 50.0, s.Get(LeverCount), "unknown levers read as neutral")
	assert.Equal(t, s, s.With(LeverCount, 99))
}

func TestLeverStateFromMap(t *testing.T) {
	got, err := LeverStateFromMap(DefaultLevers(), map[string]float64{
		"cost_discipline":  75,
		"Hiring Intensity": 120,
	})
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.Get(LeverCostDiscipline))
	assert.Equal(t, 100.0, got.Get(LeverHiringIntensity))
	assert.Equal(t, 60.0, got.Get(LeverDemandStrength))

	base := DefaultLevers()
	got, err = LeverStateFromMap(base, map[string]float64{"charisma": 1})
	assert.Error(t, err)
	assert.Equal(t, base, got)
}

func TestLeverState_Encoding(t *testing.T) {
	s := DefaultLevers().With(LeverFundingPressure, 80)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"funding_pressure":80`)

	var decoded LeverState
	require.NoError(t, json.Unmarshal([]byte(`{"funding_pressure":80}`), &decoded))
	assert.Equal(t, s, decoded)
	assert.Error(t, json.Unmarshal([]byte(`{"charisma":1}`), &decoded))

	out, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), "funding_pressure: 80")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 10))
	assert.Equal(t, 10.0, Clamp(math.Inf(1), 0, 10))
	assert.Equal(t, 0.0, Clamp(math.Inf(-1), 0, 10))
	assert.Equal(t, 0.5, Clamp01(0.5))
	assert.Equal(t, 1.0, Clamp01(3))
}

func TestScenarioAndRamp(t *testing.T) {
	id, err := ParseScenarioID("Extreme")
	require.NoError(t, err)
	assert.Equal(t, ScenarioStress, id)

	id, err = ParseScenarioID("")
	require.NoError(t, err)
	assert.Equal(t, ScenarioBase, id)

	_, err = ParseScenarioID("moonshot")
	assert.Error(t, err)

	assert.Equal(t, 1.0, ScenarioBase.Multipliers().Growth)
	assert.Equal(t, ScenarioBase.Multipliers(), ScenarioID("bogus").Multipliers())
	assert.Equal(t, ScenarioBase, ScenarioStress.Next())

	ramp, err := ParseRampType("12")
	require.NoError(t, err)
	assert.Equal(t, Ramp12Months, ramp)
	assert.Equal(t, 12, ramp.Months())
	assert.Equal(t, 0, RampImmediate.Months())
	assert.Equal(t, Ramp6Months, RampImmediate.Next())
	assert.Equal(t, RampImmediate, Ramp12Months.Next())

	_, err = ParseRampType("3mo")
	assert.Error(t, err)
}

func TestSimulationConfig_Normalized(t *testing.T) {
	cfg := SimulationConfig{Iterations: 0, TimeHorizonMonths: 500, StartingCash: -5, ARRMultiple: math.NaN()}.Normalized()
	assert.Equal(t, MinIterations, cfg.Iterations)
	assert.Equal(t, MaxHorizon, cfg.TimeHorizonMonths)
	assert.Equal(t, CashMin, cfg.StartingCash)
	assert.Equal(t, DefaultBaseline().ARRMultiple, cfg.ARRMultiple)
}

func TestRunTag_Matches(t *testing.T) {
	ws := DefaultWorkspace()
	cfg := ws.SimulationConfig()
	levers := DefaultLevers().With(LeverHiringIntensity, 100)
	tag := RunTag{Config: cfg, Levers: levers}

	assert.True(t, tag.Matches(cfg, levers))

	// unclamped input matches the clamped tag
	raw := levers
	raw[LeverHiringIntensity] = 150
	assert.True(t, tag.Matches(cfg, raw))

	assert.False(t, tag.Matches(cfg, levers.With(LeverDemandStrength, 61)))
	cfg.Seed = 9
	assert.False(t, tag.Matches(cfg, levers))
}

func TestWorkspace(t *testing.T) {
	ws := DefaultWorkspace()
	ws.Scenarios = append(ws.Scenarios, ScenarioPlan{Name: "lean", Levers: DefaultLevers()})

	plan, err := ws.Plan("")
	require.NoError(t, err)
	assert.Equal(t, "base", plan.Name)

	plan, err = ws.Plan("lean")
	require.NoError(t, err)
	assert.Equal(t, "lean", plan.Name)

	_, err = ws.Plan("moonshot")
	assert.Error(t, err)

	assert.Equal(t, []string{"base", "lean"}, ws.PlanNames())

	empty := &Workspace{Name: "empty"}
	_, err = empty.Plan("")
	assert.Error(t, err)
}

func TestThresholds(t *testing.T) {
	d, err := ParseThresholdDirection("<=")
	require.NoError(t, err)
	assert.True(t, d.Meets(5, 5))
	assert.False(t, d.Meets(6, 5))
	assert.True(t, ThresholdGE.Meets(6, 5))

	_, err = ParseThresholdDirection("!=")
	assert.Error(t, err)

	assert.Len(t, DefaultValuationThresholds(), 5)
	assert.True(t, PercentileBand{1, 2, 3, 4, 5}.Monotonic())
	assert.False(t, PercentileBand{1, 2, 3, 6, 5}.Monotonic())
}

func TestVolatilityModel_Elasticity(t *testing.T) {
	m := VolatilityModel{RevenueVolatility: 0.1, ShockSeverityMin: 0.1, ShockSeverityMax: 0.3, FundingPressure: 0.5}
	e := m.Elasticity()
	require.NotNil(t, e.ShockSeverity)
	assert.InDelta(t, 0.2, *e.ShockSeverity, 1e-12)
	assert.Equal(t, 0.1, *e.RevenueVolatility)
	assert.Equal(t, 0.5, *e.FundingPressure)
}

func TestNewMetricDelta(t *testing.T) {
	assert.Equal(t, MetricDelta{Baseline: 10, Scenario: 14, Delta: 4}, NewMetricDelta(10, 14))
}

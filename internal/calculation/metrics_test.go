package calculation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

func TestCalculate_DefaultLeversBaseScenario(t *testing.T) {
	m := Calculate(domain.DefaultBaseline(), domain.DefaultLevers(), domain.ScenarioBase)

	assert.InDelta(t, 18.688, m.Runway, 1e-9)
	assert.InDelta(t, 4_672_000.0, m.Cash, 1e-6)
	assert.InDelta(t, 250_000.0, m.MonthlyBurn, 1e-6)
	assert.InDelta(t, 4_344_000.0, m.ARR, 1e-6)
	assert.InDelta(t, 0.448, m.Growth, 1e-12)
	assert.InDelta(t, 48.022222222, m.Risk, 1e-6)
	assert.InDelta(t, 59.170014815, m.Survival, 1e-6)
	assert.InEpsilon(t, 30_816_229.4272, m.EV, 1e-9)
	assert.InDelta(t, 3.18, m.LTVCAC, 1e-9)
	assert.InDelta(t, 16.981132075, m.CACPayback, 1e-6)
	assert.InDelta(t, 50.0, m.EarningsPower, 1e-9)
	assert.InDelta(t, 51.8, m.BurnQuality, 1e-9)
}

func TestCalculate_StressScenario(t *testing.T) {
	m := Calculate(domain.DefaultBaseline(), domain.DefaultLevers(), domain.ScenarioStress)

	assert.InDelta(t, 9.5064, m.Runway, 1e-9)
	assert.InDelta(t, 3_961_000.0, m.Cash, 1e-6)
	assert.InDelta(t, 312_500.0, m.MonthlyBurn, 1e-6)
	assert.InDelta(t, 3_672_000.0, m.ARR, 1e-6)
	assert.InDelta(t, 0.224, m.Growth, 1e-12)
	assert.InDelta(t, 97.7225, m.Risk, 1e-6)
	assert.InDelta(t, 20.256058875, m.Survival, 1e-6)
	assert.InEpsilon(t, 10_813_845.119616, m.EV, 1e-9)
	assert.InDelta(t, 43.4, m.BurnQuality, 1e-9)
}

func TestCalculate_Deterministic(t *testing.T) {
	levers := domain.DefaultLevers().
		With(domain.LeverPricingPower, 73).
		With(domain.LeverHiringIntensity, 12)

	a := Calculate(domain.DefaultBaseline(), levers, domain.ScenarioDownside)
	b := Calculate(domain.DefaultBaseline(), levers, domain.ScenarioDownside)
	assert.Equal(t, a, b)
}

func TestCalculate_ScenarioOrdering(t *testing.T) {
	base := Calculate(domain.DefaultBaseline(), domain.DefaultLevers(), domain.ScenarioBase)
	up := Calculate(domain.DefaultBaseline(), domain.DefaultLevers(), domain.ScenarioUpside)
	down := Calculate(domain.DefaultBaseline(), domain.DefaultLevers(), domain.ScenarioDownside)

	assert.Greater(t, up.Growth, base.Growth)
	assert.Less(t, down.Growth, base.Growth)
	assert.Greater(t, up.EV, base.EV)
	assert.Less(t, down.EV, base.EV)
	assert.Greater(t, down.Risk, base.Risk)
}

func TestCalculate_OutOfRangeInputsStayInDomain(t *testing.T) {
	var extremes []domain.LeverState
	for _, v := range []float64{-1000, 1000, math.NaN()} {
		var s domain.LeverState
		for i := range s {
			s[i] = v
		}
		extremes = append(extremes, s)
	}

	baselines := []domain.BaselineMetrics{
		domain.DefaultBaseline(),
		{},
		{Cash: -5, MonthlyBurn: -5, ARR: 1e15, GrowthRate: 50, ARRMultiple: math.NaN()},
	}

	for _, b := range baselines {
		for _, levers := range extremes {
			for _, scen := range domain.Scenarios() {
				m := Calculate(b, levers, scen)
				assertInDomain(t, m)
			}
		}
	}
}

func TestCalculate_ClampsLeversBeforeUse(t *testing.T) {
	over := domain.DefaultLevers()
	over[domain.LeverDemandStrength] = 1000
	atMax := domain.DefaultLevers().With(domain.LeverDemandStrength, 100)

	assert.Equal(t,
		Calculate(domain.DefaultBaseline(), atMax, domain.ScenarioBase),
		Calculate(domain.DefaultBaseline(), over, domain.ScenarioBase))
}

func TestCalculate_ZeroBurnKeepsRunwayFinite(t *testing.T) {
	b := domain.DefaultBaseline()
	b.MonthlyBurn = 0
	levers := domain.DefaultLevers().With(domain.LeverCostDiscipline, 100)

	m := Calculate(b, levers, domain.ScenarioBase)
	assert.False(t, math.IsInf(m.Runway, 0))
	assert.Equal(t, domain.RunwayMax, m.Runway)
}

func assertInDomain(t *testing.T, m domain.MetricState) {
	t.Helper()
	check := func(name string, v, lo, hi float64) {
		assert.False(t, math.IsNaN(v), "%s is NaN", name)
		assert.GreaterOrEqual(t, v, lo, name)
		assert.LessOrEqual(t, v, hi, name)
	}
	check("runway", m.Runway, domain.RunwayMin, domain.RunwayMax)
	check("cash", m.Cash, domain.CashMin, domain.CashMax)
	check("burn", m.MonthlyBurn, domain.BurnMin, domain.BurnMax)
	check("arr", m.ARR, domain.ARRMin, domain.ARRMax)
	check("growth", m.Growth, domain.GrowthMin, domain.GrowthMax)
	check("risk", m.Risk, domain.RiskMin, domain.RiskMax)
	check("survival", m.Survival, domain.SurvivalMin, domain.SurvivalMax)
	check("ev", m.EV, domain.EVMin, domain.EVMax)
	check("ltv/cac", m.LTVCAC, domain.LTVCACMin, domain.LTVCACMax)
	check("cac payback", m.CACPayback, domain.CACPaybackMin, domain.CACPaybackMax)
	check("earnings power", m.EarningsPower, domain.EarningsPowerMin, domain.EarningsPowerMax)
	check("burn quality", m.BurnQuality, domain.BurnQualityMin, domain.BurnQualityMax)
}

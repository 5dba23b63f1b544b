package calculation

import (
	"math"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// minBurnFloor keeps runway finite when burn is zero
const minBurnFloor = 1_000.0

// Calculate turns a lever set into the deterministic point estimate. It is
// pure and total: inputs are clamped, outputs are clamped to their KPI
// domains, and identical inputs produce identical outputs.
func Calculate(baseline domain.BaselineMetrics, levers domain.LeverState, scenario domain.ScenarioID) domain.MetricState {
	b := sanitizeBaseline(baseline)
	mult := scenario.Multipliers()

	demand := levers.Delta(domain.LeverDemandStrength)
	pricing := levers.Delta(domain.LeverPricingPower)
	expansion := levers.Delta(domain.LeverExpansionVelocity)
	cost := levers.Delta(domain.LeverCostDiscipline)
	drag := levers.Delta(domain.LeverOperatingDrag)
	execution := levers.Delta(domain.LeverExecutionRisk)
	funding := levers.Delta(domain.LeverFundingPressure)
	hiring := levers.Delta(domain.LeverHiringIntensity)

	// Growth reacts to demand and hiring
	growth := (b.GrowthRate*(1+0.6*demand+0.2*expansion+0.1*pricing) + 0.05*hiring) * mult.Growth
	growth = domain.Clamp(growth, domain.GrowthMin, domain.GrowthMax)

	// Burn reacts to cost discipline, wages (hiring), drag and expansion
	burn := b.MonthlyBurn * (1 - 0.30*cost + 0.25*hiring + 0.20*drag + 0.15*expansion) * mult.Burn
	burn = domain.Clamp(burn, domain.BurnMin, domain.BurnMax)

	arr := b.ARR * (1 + growth) * (1 + 0.15*pricing)
	arr = domain.Clamp(arr, domain.ARRMin, domain.ARRMax)

	// Six months of incremental revenue and burn, less operating drag on cash
	cash := b.Cash + 6*(arr-b.ARR)/12 - 6*(burn-b.MonthlyBurn) - 0.05*b.Cash*drag
	cash = domain.Clamp(cash, domain.CashMin, domain.CashMax)

	runway := cash / math.Max(burn, minBurnFloor) * mult.Runway
	runway = domain.Clamp(runway, domain.RunwayMin, domain.RunwayMax)

	burnRatio := domain.Clamp01(burn / math.Max(b.MonthlyBurn, minBurnFloor) / 2)
	opex := (drag + 1) / 2
	growthShort := domain.Clamp01(1 - growth/math.Max(2*b.GrowthRate, 0.1))
	runwayShort := 1 - runway/domain.RunwayMax
	risk := 100 * (0.30*burnRatio + 0.20*opex + 0.25*growthShort + 0.25*runwayShort) * mult.Risk
	risk = domain.Clamp(risk, domain.RiskMin, domain.RiskMax)

	survival := 100 * domain.Clamp01(runway/24) * (1 - 0.5*risk/100) * (1 - 0.15*funding) * (1 - 0.10*execution)
	survival = domain.Clamp(survival, domain.SurvivalMin, domain.SurvivalMax)

	growthRel := domain.Clamp(growth/math.Max(b.GrowthRate, 0.01)-1, -1, 3)
	ev := arr * b.ARRMultiple * (1 + 0.3*growthRel) * (1 - 0.3*risk/100) * mult.Valuation
	ev = domain.Clamp(ev, domain.EVMin, domain.EVMax)

	ltvCac := 3 * (1 + 0.5*pricing) * (1 + 0.3*demand) / (1 + 0.3*expansion)
	cacPayback := 18 * (1 + 0.4*expansion) / ((1 + 0.4*pricing) * (1 + 0.3*demand))
	earningsPower := 50 + 20*pricing + 15*cost - 15*drag
	burnQuality := 50 + 25*cost - 20*drag + 15*domain.Clamp(growthRel, -1, 1)

	return domain.MetricState{
		Runway:        runway,
		Cash:          cash,
		MonthlyBurn:   burn,
		ARR:           arr,
		Growth:        growth,
		Risk:          risk,
		Survival:      survival,
		EV:            ev,
		LTVCAC:        domain.Clamp(ltvCac, domain.LTVCACMin, domain.LTVCACMax),
		CACPayback:    domain.Clamp(cacPayback, domain.CACPaybackMin, domain.CACPaybackMax),
		EarningsPower: domain.Clamp(earningsPower, domain.EarningsPowerMin, domain.EarningsPowerMax),
		BurnQuality:   domain.Clamp(burnQuality, domain.BurnQualityMin, domain.BurnQualityMax),
	}
}

func sanitizeBaseline(b domain.BaselineMetrics) domain.BaselineMetrics {
	b.Cash = domain.Clamp(b.Cash, domain.CashMin, domain.CashMax)
	b.MonthlyBurn = domain.Clamp(b.MonthlyBurn, domain.BurnMin, domain.BurnMax)
	b.ARR = domain.Clamp(b.ARR, domain.ARRMin, domain.ARRMax)
	b.GrowthRate = domain.Clamp(b.GrowthRate, domain.GrowthMin, domain.GrowthMax)
	if b.ARRMultiple <= 0 || math.IsNaN(b.ARRMultiple) {
		b.ARRMultiple = domain.DefaultBaseline().ARRMultiple
	}
	b.ARRMultiple = domain.Clamp(b.ARRMultiple, 0.1, 100)
	return b
}

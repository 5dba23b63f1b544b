package domain

// KPI domains. Every MetricState field is clamped into its range.
const (
	RunwayMin, RunwayMax               = 0.0, 36.0
	CashMin, CashMax                   = 0.0, 1e10
	BurnMin, BurnMax                   = 0.0, 5e7
	ARRMin, ARRMax                     = 0.0, 1e10
	GrowthMin, GrowthMax               = -0.5, 3.0
	RiskMin, RiskMax                   = 0.0, 100.0
	SurvivalMin, SurvivalMax           = 0.0, 100.0
	EVMin, EVMax                       = 0.0, 1e12
	LTVCACMin, LTVCACMax               = 0.0, 10.0
	CACPaybackMin, CACPaybackMax       = 1.0, 60.0
	EarningsPowerMin, EarningsPowerMax = 0.0, 100.0
	BurnQualityMin, BurnQualityMax     = 0.0, 100.0
)

// BaselineMetrics is the company's current financial position
type BaselineMetrics struct {
	Cash        float64 `yaml:"cash" json:"cash"`
	MonthlyBurn float64 `yaml:"monthly_burn" json:"monthlyBurn"`
	ARR         float64 `yaml:"arr" json:"arr"`
	GrowthRate  float64 `yaml:"growth_rate" json:"growthRate"`   // annual, fraction
	ARRMultiple float64 `yaml:"arr_multiple" json:"arrMultiple"` // valuation multiple on ARR
}

// DefaultBaseline returns the documented reference company
func DefaultBaseline() BaselineMetrics {
	return BaselineMetrics{
		Cash:        4_000_000,
		MonthlyBurn: 250_000,
		ARR:         3_000_000,
		GrowthRate:  0.40,
		ARRMultiple: 8,
	}
}

// MetricState is the deterministic point estimate for a lever set
type MetricState struct {
	Runway        float64 `json:"runway"` // months
	Cash          float64 `json:"cash"`
	MonthlyBurn   float64 `json:"monthlyBurn"`
	ARR           float64 `json:"arr"`
	Growth        float64 `json:"growth"`   // annual, fraction
	Risk          float64 `json:"risk"`     // 0-100
	Survival      float64 `json:"survival"` // 0-100 percent
	EV            float64 `json:"ev"`
	LTVCAC        float64 `json:"ltvCac"`
	CACPayback    float64 `json:"cacPayback"` // months
	EarningsPower float64 `json:"earningsPower"`
	BurnQuality   float64 `json:"burnQuality"`
}

// MetricDelta pairs a baseline and scenario value
type MetricDelta struct {
	Baseline float64 `json:"baseline"`
	Scenario float64 `json:"scenario"`
	Delta    float64 `json:"delta"`
}

// NewMetricDelta builds a MetricDelta with Delta = scenario - baseline
func NewMetricDelta(baseline, scenario float64) MetricDelta {
	return MetricDelta{Baseline: baseline, Scenario: scenario, Delta: scenario - baseline}
}

// DeltaMetrics is what the KPI cards display
type DeltaMetrics struct {
	Survival MetricDelta `json:"survival"`
	EV       MetricDelta `json:"ev"`
	Runway   MetricDelta `json:"runway"`
	Risk     MetricDelta `json:"risk"`

	// SurvivalFromSimulation is true when Survival.Scenario came from a
	// Monte Carlo run rather than the point estimate.
	SurvivalFromSimulation bool `json:"survivalFromSimulation"`
}

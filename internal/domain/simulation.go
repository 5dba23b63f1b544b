package domain

import "math"

// Simulation limits applied by SimulationConfig.Normalized
const (
	MinIterations  = 1
	MaxIterations  = 100_000
	MinHorizon     = 1
	MaxHorizon     = 120
	DefaultHorizon = 24
)

// SimulationConfig parameterises one Monte Carlo run. It is a value object:
// build a fresh one per run.
type SimulationConfig struct {
	Iterations        int     `yaml:"iterations" json:"iterations"`
	TimeHorizonMonths int     `yaml:"horizon_months" json:"timeHorizonMonths"`
	StartingCash      float64 `yaml:"starting_cash" json:"startingCash"`
	StartingARR       float64 `yaml:"starting_arr" json:"startingArr"`
	MonthlyBurn       float64 `yaml:"monthly_burn" json:"monthlyBurn"`
	ARRMultiple       float64 `yaml:"arr_multiple" json:"arrMultiple"`
	Seed              uint64  `yaml:"seed" json:"seed"`
}

// SimulationConfigFromBaseline seeds a config with the baseline's balances
func SimulationConfigFromBaseline(b BaselineMetrics, iterations, horizon int) SimulationConfig {
	return SimulationConfig{
		Iterations:        iterations,
		TimeHorizonMonths: horizon,
		StartingCash:      b.Cash,
		StartingARR:       b.ARR,
		MonthlyBurn:       b.MonthlyBurn,
		ARRMultiple:       b.ARRMultiple,
	}
}

// Normalized clamps every field into its documented domain
func (c SimulationConfig) Normalized() SimulationConfig {
	c.Iterations = clampInt(c.Iterations, MinIterations, MaxIterations)
	c.TimeHorizonMonths = clampInt(c.TimeHorizonMonths, MinHorizon, MaxHorizon)
	c.StartingCash = Clamp(c.StartingCash, CashMin, CashMax)
	c.StartingARR = Clamp(c.StartingARR, ARRMin, ARRMax)
	c.MonthlyBurn = Clamp(c.MonthlyBurn, BurnMin, BurnMax)
	if c.ARRMultiple <= 0 || math.IsNaN(c.ARRMultiple) {
		c.ARRMultiple = DefaultBaseline().ARRMultiple
	}
	c.ARRMultiple = Clamp(c.ARRMultiple, 0.1, 100)
	return c
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SingleSimulationResult is one trial's outcome; it only lives until aggregation
type SingleSimulationResult struct {
	TrialIndex   int
	TerminalARR  float64
	TerminalCash float64
	TerminalEV   float64
	Survived     bool
	FailureMonth int     // 1-based month cash first went non-positive, 0 if survived
	Runway       float64 // months of operation at exhaustion (projected for survivors)
	LeverNoise   [LeverCount]float64
}

// Percentiles3 is a p10/p50/p90 band
type Percentiles3 struct {
	P10 float64 `json:"p10"`
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
}

// Direction is the sign of a sensitivity factor
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

// SensitivityFactor attributes part of the outcome spread to a lever
type SensitivityFactor struct {
	Lever     LeverID   `json:"-" yaml:"-"`
	Label     string    `json:"label"`
	Impact    float64   `json:"impact"` // signed, -100..100
	Direction Direction `json:"direction"`
}

// RunTag identifies the exact inputs that produced a result
type RunTag struct {
	Config SimulationConfig `json:"config"`
	Levers LeverState       `json:"levers"`
}

// Matches reports whether the tag was produced by exactly these inputs
func (t RunTag) Matches(cfg SimulationConfig, levers LeverState) bool {
	return t.Config == cfg.Normalized() && t.Levers == levers.Clamped()
}

// MonteCarloResult aggregates N trials. Immutable once produced.
type MonteCarloResult struct {
	SurvivalRate       float64             `json:"survivalRate"`
	SurvivalByMonth    []float64           `json:"survivalByMonth"`
	ARRPercentiles     Percentiles3        `json:"arrPercentiles"`
	RunwayPercentiles  Percentiles3        `json:"runwayPercentiles"`
	EVPercentiles      Percentiles3        `json:"evPercentiles"`
	SensitivityFactors []SensitivityFactor `json:"sensitivityFactors"`
	Iterations         int                 `json:"iterations"`
	TimeHorizonMonths  int                 `json:"timeHorizonMonths"`
	Tag                RunTag              `json:"tag"`

	// EVSamples holds the sorted terminal enterprise values, used by the
	// valuation summarizer.
	EVSamples []float64 `json:"-" yaml:"-"`

	// Set by the scheduler when published through a slot.
	Generation uint64 `json:"generation,omitempty"`
	RunID      string `json:"runId,omitempty"`
}

package calculation

import (
	"context"
	"math"
	"slices"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// EngineOptions holds the fixed stochastic parameters of the trajectory model
type EngineOptions struct {
	ShockProbability float64 // monthly, before lever scaling
	ShockSeverityMin float64 // fraction of ARR lost by a shock
	ShockSeverityMax float64
	LeverJitter      float64 // +/- lever units of trial-local noise
	SensitivityTopK  int
	RunwayTail       float64 // months credited beyond the horizon to survivors, at most
	DistressDiscount float64 // share of EV retained by a failed trial
	CancelCheckEvery int     // trials between context checks in Run
}

// DefaultEngineOptions returns the documented model parameters
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		ShockProbability: 0.03,
		ShockSeverityMin: 0.10,
		ShockSeverityMax: 0.35,
		LeverJitter:      5,
		SensitivityTopK:  3,
		RunwayTail:       36,
		DistressDiscount: 0.2,
		CancelCheckEvery: 500,
	}
}

func (o EngineOptions) normalized() EngineOptions {
	d := DefaultEngineOptions()
	o.ShockProbability = domain.Clamp01(o.ShockProbability)
	o.ShockSeverityMin = domain.Clamp01(o.ShockSeverityMin)
	o.ShockSeverityMax = domain.Clamp01(o.ShockSeverityMax)
	if o.ShockSeverityMax < o.ShockSeverityMin {
		o.ShockSeverityMin, o.ShockSeverityMax = o.ShockSeverityMax, o.ShockSeverityMin
	}
	o.LeverJitter = domain.Clamp(o.LeverJitter, 0, 25)
	if o.SensitivityTopK < 1 || o.SensitivityTopK > int(domain.LeverCount) {
		o.SensitivityTopK = d.SensitivityTopK
	}
	o.RunwayTail = domain.Clamp(o.RunwayTail, 0, 120)
	o.DistressDiscount = domain.Clamp01(o.DistressDiscount)
	if o.CancelCheckEvery < 1 {
		o.CancelCheckEvery = d.CancelCheckEvery
	}
	return o
}

// MonteCarloEngine runs independent stochastic trials of the monthly
// trajectory model and aggregates them. It holds no mutable state, so one
// engine may serve any number of concurrent runs.
type MonteCarloEngine struct {
	opts   EngineOptions
	Logger Logger
}

// NewMonteCarloEngine creates an engine with the given options
func NewMonteCarloEngine(opts EngineOptions) *MonteCarloEngine {
	return &MonteCarloEngine{opts: opts.normalized(), Logger: NopLogger{}}
}

// SetLogger sets the logger; nil installs a no-op logger
func (e *MonteCarloEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Options returns the normalized options
func (e *MonteCarloEngine) Options() EngineOptions {
	return e.opts
}

// Model derives the volatility model for a lever state
func (e *MonteCarloEngine) Model(levers domain.LeverState) domain.VolatilityModel {
	return DeriveVolatilityModel(levers, e.opts)
}

// DeriveVolatilityModel maps levers to the stochastic parameters of a trial
func DeriveVolatilityModel(levers domain.LeverState, opts EngineOptions) domain.VolatilityModel {
	demand := levers.Delta(domain.LeverDemandStrength)
	pricing := levers.Delta(domain.LeverPricingPower)
	expansion := levers.Delta(domain.LeverExpansionVelocity)
	cost := levers.Delta(domain.LeverCostDiscipline)
	drag := levers.Delta(domain.LeverOperatingDrag)
	execution := levers.Delta(domain.LeverExecutionRisk)
	hiring := levers.Delta(domain.LeverHiringIntensity)
	volUnit := levers.Unit(domain.LeverMarketVolatility)
	execUnit := levers.Unit(domain.LeverExecutionRisk)

	return domain.VolatilityModel{
		GrowthDrift:       0.02 + 0.02*demand + 0.006*pricing + 0.008*expansion + 0.006*hiring - 0.006*execution,
		BurnDrift:         0.004 + 0.006*hiring + 0.004*expansion - 0.005*cost + 0.003*drag,
		RevenueVolatility: 0.04 + 0.10*volUnit,
		BurnVolatility:    0.02 + 0.06*execUnit,
		ChurnVolatility:   0.005 + 0.02*volUnit,
		BaseChurn:         0.01 + 0.005*drag - 0.004*pricing,
		ShockProbability:  domain.Clamp01(opts.ShockProbability * (0.5 + volUnit) * (0.75 + 0.5*execUnit)),
		ShockSeverityMin:  opts.ShockSeverityMin,
		ShockSeverityMax:  opts.ShockSeverityMax,
		FundingPressure:   levers.Unit(domain.LeverFundingPressure),
	}
}

// RunTrial simulates one monthly trajectory. The result depends only on
// (trialIndex, levers, cfg) and the engine options.
func (e *MonteCarloEngine) RunTrial(trialIndex int, levers domain.LeverState, cfg domain.SimulationConfig) domain.SingleSimulationResult {
	cfg = cfg.Normalized()
	levers = levers.Clamped()
	rng := trialRNG(cfg.Seed, trialIndex)

	res := domain.SingleSimulationResult{TrialIndex: trialIndex}

	jittered := levers
	for j := range jittered {
		n := (rng.Float64()*2 - 1) * e.opts.LeverJitter
		res.LeverNoise[j] = n
		jittered[j] = domain.ClampLever(levers[j] + n)
	}
	model := DeriveVolatilityModel(jittered, e.opts)

	cash, arr, burn := cfg.StartingCash, cfg.StartingARR, cfg.MonthlyBurn
	for m := 1; m <= cfg.TimeHorizonMonths; m++ {
		// fixed number of draws per month keeps streams aligned across inputs
		zRev, zChurn, zBurn := rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()
		shockDraw, severityDraw := rng.Float64(), rng.Float64()

		churn := math.Max(0, model.BaseChurn+model.ChurnVolatility*zChurn)
		arr *= 1 + model.GrowthDrift + model.RevenueVolatility*zRev - churn
		if shockDraw < model.ShockProbability {
			arr *= 1 - (model.ShockSeverityMin + (model.ShockSeverityMax-model.ShockSeverityMin)*severityDraw)
		}
		arr = domain.Clamp(arr, domain.ARRMin, domain.ARRMax)

		burn *= 1 + model.BurnDrift + model.BurnVolatility*zBurn
		burn = domain.Clamp(burn, domain.BurnMin, domain.BurnMax)

		before := cash
		cash += arr/12 - burn
		if cash <= 0 {
			res.FailureMonth = m
			net := burn - arr/12
			frac := 0.0
			if net > 0 && before > 0 {
				frac = math.Min(before/net, 1)
			}
			res.Runway = float64(m-1) + frac
			cash = 0
			break
		}
	}

	res.Survived = res.FailureMonth == 0
	res.TerminalARR = arr
	res.TerminalCash = cash
	res.TerminalEV = arr * cfg.ARRMultiple
	if res.Survived {
		tail := e.opts.RunwayTail
		if net := burn - arr/12; net > 0 {
			tail = math.Min(cash/net, e.opts.RunwayTail)
		}
		res.Runway = float64(cfg.TimeHorizonMonths) + tail
	} else {
		res.TerminalEV *= e.opts.DistressDiscount
	}
	return res
}

// RunRange appends trials [start,end) to dst and returns it
func (e *MonteCarloEngine) RunRange(dst []domain.SingleSimulationResult, start, end int, levers domain.LeverState, cfg domain.SimulationConfig) []domain.SingleSimulationResult {
	for i := start; i < end; i++ {
		dst = append(dst, e.RunTrial(i, levers, cfg))
	}
	return dst
}

// Run executes every trial synchronously and aggregates them. It checks ctx
// periodically; callers that must not block should use the scheduler.
func (e *MonteCarloEngine) Run(ctx context.Context, levers domain.LeverState, cfg domain.SimulationConfig) (*domain.MonteCarloResult, error) {
	cfg = cfg.Normalized()
	trials := make([]domain.SingleSimulationResult, 0, cfg.Iterations)
	for start := 0; start < cfg.Iterations; start += e.opts.CancelCheckEvery {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+e.opts.CancelCheckEvery, cfg.Iterations)
		trials = e.RunRange(trials, start, end, levers, cfg)
	}
	return e.Aggregate(trials, cfg, levers), nil
}

// Aggregate folds trials into a MonteCarloResult tagged with the inputs that
// produced it. Trial order does not matter.
func (e *MonteCarloEngine) Aggregate(trials []domain.SingleSimulationResult, cfg domain.SimulationConfig, levers domain.LeverState) *domain.MonteCarloResult {
	cfg = cfg.Normalized()
	levers = levers.Clamped()
	horizon := cfg.TimeHorizonMonths

	result := &domain.MonteCarloResult{
		SurvivalByMonth:    make([]float64, horizon),
		SensitivityFactors: []domain.SensitivityFactor{},
		Iterations:         len(trials),
		TimeHorizonMonths:  horizon,
		Tag:                domain.RunTag{Config: cfg, Levers: levers},
	}
	n := len(trials)
	if n == 0 {
		e.Logger.Warnf("aggregate called with no trials")
		return result
	}

	ordered := slices.Clone(trials)
	slices.SortFunc(ordered, func(a, b domain.SingleSimulationResult) int {
		return a.TrialIndex - b.TrialIndex
	})

	failuresAt := make([]int, horizon+1)
	arrs := make([]float64, n)
	runways := make([]float64, n)
	evs := make([]float64, n)
	survivors := 0
	for i, t := range ordered {
		if t.Survived {
			survivors++
		} else if t.FailureMonth >= 1 && t.FailureMonth <= horizon {
			failuresAt[t.FailureMonth]++
		}
		arrs[i] = t.TerminalARR
		runways[i] = t.Runway
		evs[i] = t.TerminalEV
	}

	alive := n
	for m := 1; m <= horizon; m++ {
		alive -= failuresAt[m]
		result.SurvivalByMonth[m-1] = float64(alive) / float64(n)
	}
	result.SurvivalRate = float64(survivors) / float64(n)

	result.ARRPercentiles = percentiles3(sortedCopy(arrs))
	result.RunwayPercentiles = percentiles3(sortedCopy(runways))
	result.EVSamples = sortedCopy(evs)
	result.EVPercentiles = percentiles3(result.EVSamples)
	result.SensitivityFactors = attributeSensitivity(ordered, runways, e.opts.SensitivityTopK)

	e.Logger.Debugf("aggregated %d trials: survival=%.3f runway p50=%.1f", n, result.SurvivalRate, result.RunwayPercentiles.P50)
	return result
}

func percentiles3(sorted []float64) domain.Percentiles3 {
	return domain.Percentiles3{
		P10: RankPercentile(sorted, 0.10),
		P50: RankPercentile(sorted, 0.50),
		P90: RankPercentile(sorted, 0.90),
	}
}

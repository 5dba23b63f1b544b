// Package report assembles the full evaluation of one scenario plan: point
// estimates, KPI deltas, the Monte Carlo distribution, the valuation band and
// the composite scores.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/scheduler"
	"github.com/rgehrsitz/runwaysim/internal/scoring"
	"github.com/rgehrsitz/runwaysim/internal/valuation"
)

// SimulationReport is everything computed for one plan
type SimulationReport struct {
	Workspace   string    `json:"workspace" yaml:"workspace"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generated_at"`

	Plan      domain.ScenarioPlan `json:"plan" yaml:"plan"`
	Effective domain.LeverState   `json:"effectiveLevers" yaml:"effective_levers"`

	Baseline domain.MetricState  `json:"baseline" yaml:"baseline"`
	Scenario domain.MetricState  `json:"scenario" yaml:"scenario"`
	Delta    domain.DeltaMetrics `json:"delta" yaml:"delta"`

	// Simulation is nil when the Monte Carlo run was skipped
	Simulation *domain.MonteCarloResult `json:"simulation,omitempty" yaml:"simulation,omitempty"`

	Valuation      domain.ValuationDistributionSummary `json:"valuation" yaml:"valuation"`
	Quality        domain.QualityScore                 `json:"quality" yaml:"quality"`
	StructuralRisk domain.StructuralRiskIndex          `json:"structuralRisk" yaml:"structural_risk"`
	ObjectiveGap   domain.ObjectiveGap                 `json:"objectiveGap" yaml:"objective_gap"`
}

// Options controls how a report is built
type Options struct {
	// SkipSimulation builds the report from point estimates only
	SkipSimulation bool
	Runner         scheduler.RunnerOptions
}

// Builder produces SimulationReports. It is safe for concurrent use; each
// Build call drives its own runner.
type Builder struct {
	engine *calculation.MonteCarloEngine
	opts   Options
	Logger calculation.Logger
	now    func() time.Time
}

// NewBuilder creates a report builder over engine
func NewBuilder(engine *calculation.MonteCarloEngine, opts Options) *Builder {
	return &Builder{
		engine: engine,
		opts:   opts,
		Logger: calculation.NopLogger{},
		now:    time.Now,
	}
}

// SetLogger sets the logger; nil installs a no-op logger
func (b *Builder) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	b.Logger = l
}

// Build evaluates the named plan of ws; an empty name selects the first plan
func (b *Builder) Build(ctx context.Context, ws *domain.Workspace, scenarioName string) (*SimulationReport, error) {
	plan, effective, cfg, err := Prepare(ws, scenarioName)
	if err != nil {
		return nil, err
	}

	var mc *domain.MonteCarloResult
	if !b.opts.SkipSimulation {
		runner := scheduler.NewRunner(b.engine, b.opts.Runner)
		runner.SetLogger(b.Logger)
		mc, err = runner.RunChunked(ctx, effective, cfg)
		if err != nil {
			return nil, fmt.Errorf("simulation for %q failed: %w", plan.Name, err)
		}
	}
	return b.Assemble(ws, plan, effective, cfg, mc), nil
}

// Prepare resolves a plan, the levers in effect over the horizon after its
// ramp, and the simulation config to run them with.
func Prepare(ws *domain.Workspace, scenarioName string) (domain.ScenarioPlan, domain.LeverState, domain.SimulationConfig, error) {
	plan, err := ws.Plan(scenarioName)
	if err != nil {
		return domain.ScenarioPlan{}, domain.LeverState{}, domain.SimulationConfig{}, err
	}
	cfg := ws.SimulationConfig()
	effective := calculation.ComputeEffective(ws.BaselineLevers, plan.Levers, plan.Ramp, cfg.TimeHorizonMonths)
	return plan, effective, cfg, nil
}

// Assemble builds the report around an already computed simulation, which
// may be nil. A simulation run on other levers or another config is ignored
// by the delta.
func (b *Builder) Assemble(ws *domain.Workspace, plan domain.ScenarioPlan, effective domain.LeverState, cfg domain.SimulationConfig, mc *domain.MonteCarloResult) *SimulationReport {
	r := &SimulationReport{
		Workspace:   ws.Name,
		GeneratedAt: b.now(),
		Plan:        plan,
		Effective:   effective,
		Baseline:    calculation.Calculate(ws.Baseline, ws.BaselineLevers, domain.ScenarioBase),
		Scenario:    calculation.Calculate(ws.Baseline, effective, plan.Scenario),
		Simulation:  mc,
	}

	r.Delta = calculation.ComputeDelta(calculation.DeltaInput{
		Baseline:       ws.Baseline,
		BaselineLevers: ws.BaselineLevers,
		Effective:      effective,
		Scenario:       plan.Scenario,
		Config:         cfg,
		Simulation:     mc,
	})

	summarizer := valuation.NewSummarizer(ws.Thresholds)
	summarizer.SetLogger(b.Logger)
	r.Valuation = summarizeValuation(summarizer, mc, r.Scenario.EV)

	r.Quality = scoring.Quality(domain.QualityInputsFromMetrics(r.Scenario))
	r.StructuralRisk = scoring.StructuralRisk(b.engine.Model(effective).Elasticity())

	judged := r.Scenario
	if r.Delta.SurvivalFromSimulation {
		judged.Survival = r.Delta.Survival.Scenario
	}
	r.ObjectiveGap = scoring.ObjectiveGap(ws.Objectives, judged)

	b.Logger.Infof("report %q/%q: runway=%.1f survival=%.1f quality=%.2f sri=%d gap=%d",
		ws.Name, plan.Name, r.Scenario.Runway, r.Delta.Survival.Scenario, r.Quality.Score, r.StructuralRisk.Index, r.ObjectiveGap.Score)
	return r
}

// Engine returns the Monte Carlo engine reports are built with
func (b *Builder) Engine() *calculation.MonteCarloEngine {
	return b.engine
}

// BuildAll evaluates every plan in file order
func (b *Builder) BuildAll(ctx context.Context, ws *domain.Workspace) ([]*SimulationReport, error) {
	reports := make([]*SimulationReport, 0, len(ws.Scenarios))
	for _, name := range ws.PlanNames() {
		r, err := b.Build(ctx, ws, name)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// summarizeValuation prefers the trial distribution and falls back to
// synthetic bands around the point estimate.
func summarizeValuation(s *valuation.Summarizer, mc *domain.MonteCarloResult, pointEV float64) domain.ValuationDistributionSummary {
	if mc != nil {
		if summary := s.FromSamples(mc.EVSamples); !summary.InsufficientData {
			return summary
		}
	}
	return s.FromSingleEV(pointEV, valuation.DefaultUncertainty)
}

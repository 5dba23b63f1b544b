package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/scheduler"
	"github.com/rgehrsitz/runwaysim/internal/scoring"
)

func testWorkspace() *domain.Workspace {
	ws := domain.DefaultWorkspace()
	ws.Name = "test"
	ws.Simulation.Iterations = 400
	ws.Simulation.HorizonMonths = 18
	ws.Simulation.Seed = 11
	ws.Objectives = domain.Objectives{
		RunwayMonths: domain.Float(18),
		Survival:     domain.Float(70),
	}
	ws.Scenarios = append(ws.Scenarios, domain.ScenarioPlan{
		Name:     "hire fast",
		Scenario: domain.ScenarioDownside,
		Ramp:     domain.Ramp12Months,
		Levers:   domain.DefaultLevers().With(domain.LeverHiringIntensity, 90),
	})
	return ws
}

func newBuilder(opts Options) *Builder {
	b := NewBuilder(calculation.NewMonteCarloEngine(calculation.DefaultEngineOptions()), opts)
	b.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return b
}

func TestBuild_ChainsEveryStage(t *testing.T) {
	ws := testWorkspace()
	r, err := newBuilder(Options{}).Build(context.Background(), ws, "hire fast")
	require.NoError(t, err)

	assert.Equal(t, "test", r.Workspace)
	assert.Equal(t, "hire fast", r.Plan.Name)

	wantEffective := calculation.ComputeEffective(ws.BaselineLevers, ws.Scenarios[1].Levers, domain.Ramp12Months, 18)
	assert.Equal(t, wantEffective, r.Effective)
	assert.Less(t, r.Effective.Get(domain.LeverHiringIntensity), 90.0)

	assert.Equal(t, calculation.Calculate(ws.Baseline, ws.BaselineLevers, domain.ScenarioBase), r.Baseline)
	assert.Equal(t, calculation.Calculate(ws.Baseline, wantEffective, domain.ScenarioDownside), r.Scenario)

	require.NotNil(t, r.Simulation)
	assert.Equal(t, 400, r.Simulation.Iterations)
	assert.True(t, r.Delta.SurvivalFromSimulation)
	assert.InDelta(t, 100*r.Simulation.SurvivalRate, r.Delta.Survival.Scenario, 1e-9)

	assert.True(t, r.Valuation.IsFromRealDistribution)
	assert.Equal(t, 400, r.Valuation.SampleCount)
	assert.True(t, r.Valuation.Percentiles.Monotonic())
	assert.Len(t, r.Valuation.Thresholds, len(domain.DefaultValuationThresholds()))

	assert.Equal(t, scoring.Quality(domain.QualityInputsFromMetrics(r.Scenario)), r.Quality)
	assert.GreaterOrEqual(t, r.StructuralRisk.Index, 0)
	assert.LessOrEqual(t, r.StructuralRisk.Index, 100)

	survival := r.ObjectiveGap.Components[1]
	assert.Equal(t, "survival", survival.Name)
	assert.InDelta(t, r.Delta.Survival.Scenario, survival.Actual, 1e-9)
}

func TestBuild_Reproducible(t *testing.T) {
	ws := testWorkspace()
	a, err := newBuilder(Options{}).Build(context.Background(), ws, "")
	require.NoError(t, err)
	b, err := newBuilder(Options{Runner: scheduler.RunnerOptions{ChunkSize: 100}}).Build(context.Background(), ws, "")
	require.NoError(t, err)

	// chunk size changes scheduling, never results
	assert.Equal(t, a.Simulation.SurvivalRate, b.Simulation.SurvivalRate)
	assert.Equal(t, a.Simulation.RunwayPercentiles, b.Simulation.RunwayPercentiles)
	assert.Equal(t, a.Valuation, b.Valuation)
}

func TestBuild_SkipSimulation(t *testing.T) {
	r, err := newBuilder(Options{SkipSimulation: true}).Build(context.Background(), testWorkspace(), "")
	require.NoError(t, err)

	assert.Nil(t, r.Simulation)
	assert.False(t, r.Delta.SurvivalFromSimulation)
	assert.False(t, r.Valuation.IsFromRealDistribution)
	assert.InDelta(t, r.Scenario.EV, r.Valuation.Percentiles.P50, 1e-6)
}

func TestBuild_SmallRunFallsBackToPointEstimate(t *testing.T) {
	ws := testWorkspace()
	ws.Simulation.Iterations = 5

	r, err := newBuilder(Options{}).Build(context.Background(), ws, "")
	require.NoError(t, err)

	require.NotNil(t, r.Simulation)
	assert.False(t, r.Valuation.IsFromRealDistribution)
	assert.InDelta(t, r.Scenario.EV, r.Valuation.Percentiles.P50, 1e-6)
}

func TestBuild_UnknownPlan(t *testing.T) {
	_, err := newBuilder(Options{}).Build(context.Background(), testWorkspace(), "missing")
	assert.Error(t, err)
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newBuilder(Options{}).Build(ctx, testWorkspace(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildAll(t *testing.T) {
	reports, err := newBuilder(Options{SkipSimulation: true}).BuildAll(context.Background(), testWorkspace())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "base", reports[0].Plan.Name)
	assert.Equal(t, "hire fast", reports[1].Plan.Name)
}

func TestAssemble_IgnoresSimulationOfOtherLevers(t *testing.T) {
	ws := testWorkspace()
	b := newBuilder(Options{})

	plan, effective, cfg, err := Prepare(ws, "hire fast")
	require.NoError(t, err)
	assert.Equal(t, 18, cfg.TimeHorizonMonths)

	other, err := b.Engine().Run(context.Background(), domain.DefaultLevers(), cfg)
	require.NoError(t, err)

	r := b.Assemble(ws, plan, effective, cfg, other)
	assert.Same(t, other, r.Simulation)
	assert.False(t, r.Delta.SurvivalFromSimulation)
}

func TestAssemble_IgnoresSimulationOfOtherConfig(t *testing.T) {
	ws := testWorkspace()
	b := newBuilder(Options{})

	plan, effective, cfg, err := Prepare(ws, "hire fast")
	require.NoError(t, err)

	shorter := cfg
	shorter.TimeHorizonMonths = 1
	other, err := b.Engine().Run(context.Background(), effective, shorter)
	require.NoError(t, err)

	r := b.Assemble(ws, plan, effective, cfg, other)
	assert.False(t, r.Delta.SurvivalFromSimulation)

	current, err := b.Engine().Run(context.Background(), effective, cfg)
	require.NoError(t, err)
	r = b.Assemble(ws, plan, effective, cfg, current)
	assert.True(t, r.Delta.SurvivalFromSimulation)
}

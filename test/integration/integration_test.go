package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/compare"
	"github.com/rgehrsitz/runwaysim/internal/config"
	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/output"
	"github.com/rgehrsitz/runwaysim/internal/report"
	"github.com/rgehrsitz/runwaysim/internal/scheduler"
)

// loadExample parses the starter workspace with a small trial count
func loadExample(t *testing.T) *domain.Workspace {
	t.Helper()
	ws, err := config.NewInputParser().Parse(config.ExampleWorkspace)
	require.NoError(t, err)
	ws.Simulation.Iterations = 200
	ws.Simulation.HorizonMonths = 24
	ws.Simulation.Seed = 11
	return ws
}

func newBuilder(skipSimulation bool) *report.Builder {
	engine := calculation.NewMonteCarloEngine(calculation.DefaultEngineOptions())
	return report.NewBuilder(engine, report.Options{
		SkipSimulation: skipSimulation,
		Runner:         scheduler.RunnerOptions{ChunkSize: 64},
	})
}

func TestIntegrationSmokeTest(t *testing.T) {
	ws := loadExample(t)

	t.Run("basic_calculation", func(t *testing.T) {
		reports, err := newBuilder(true).BuildAll(context.Background(), ws)
		require.NoError(t, err)
		require.Len(t, reports, 4)
		for _, r := range reports {
			assert.Nil(t, r.Simulation, r.Plan.Name)
			assert.False(t, r.Delta.SurvivalFromSimulation, r.Plan.Name)
			assert.False(t, r.Valuation.IsFromRealDistribution, r.Plan.Name)
		}
	})

	t.Run("basic_simulation", func(t *testing.T) {
		reports, err := newBuilder(false).BuildAll(context.Background(), ws)
		require.NoError(t, err)
		require.Len(t, reports, 4)
		for _, r := range reports {
			require.NotNil(t, r.Simulation, r.Plan.Name)
			assert.Equal(t, 200, r.Simulation.Iterations)
			assert.Len(t, r.Simulation.SurvivalByMonth, 24)
			assert.True(t, r.Delta.SurvivalFromSimulation, r.Plan.Name)
			assert.InDelta(t, 100*r.Simulation.SurvivalRate, r.Delta.Survival.Scenario, 1e-9)
		}
	})
}

func TestIntegrationOutputFormats(t *testing.T) {
	ws := loadExample(t)
	reports, err := newBuilder(false).BuildAll(context.Background(), ws)
	require.NoError(t, err)

	for _, name := range output.AvailableFormatterNames() {
		t.Run("format_"+name, func(t *testing.T) {
			f := output.GetFormatterByName(name)
			require.NotNil(t, f)
			data, err := f.Format(reports)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestIntegrationRegression(t *testing.T) {
	ws := loadExample(t)

	t.Run("simulation_consistency", func(t *testing.T) {
		first, err := newBuilder(false).Build(context.Background(), ws, "lean growth")
		require.NoError(t, err)
		second, err := newBuilder(false).Build(context.Background(), ws, "lean growth")
		require.NoError(t, err)

		assert.Equal(t, first.Simulation.SurvivalRate, second.Simulation.SurvivalRate)
		assert.Equal(t, first.Simulation.EVPercentiles, second.Simulation.EVPercentiles)
		assert.Equal(t, first.Valuation, second.Valuation)
		assert.Equal(t, first.StructuralRisk, second.StructuralRisk)
	})

	t.Run("slot_matches_builder", func(t *testing.T) {
		b := newBuilder(false)
		r, err := b.Build(context.Background(), ws, "market downturn")
		require.NoError(t, err)

		_, effective, cfg, err := report.Prepare(ws, "market downturn")
		require.NoError(t, err)
		slot := scheduler.NewSlot("A", b.Engine(), scheduler.SlotOptions{})
		defer slot.Close()

		res, ok := slot.RunNow(context.Background(), effective, cfg)
		require.True(t, ok)
		assert.True(t, res.Tag.Matches(cfg, effective))
		assert.Equal(t, r.Simulation.SurvivalRate, res.SurvivalRate)
		assert.Equal(t, r.Simulation.RunwayPercentiles, res.RunwayPercentiles)
	})

	t.Run("stress_is_no_safer", func(t *testing.T) {
		b := newBuilder(false)
		base, err := b.Build(context.Background(), ws, "status quo")
		require.NoError(t, err)
		stress, err := b.Build(context.Background(), ws, "market downturn")
		require.NoError(t, err)

		assert.LessOrEqual(t, stress.Simulation.SurvivalRate, base.Simulation.SurvivalRate)
		assert.GreaterOrEqual(t, stress.StructuralRisk.Index, base.StructuralRisk.Index)
	})
}

func TestIntegrationCompare(t *testing.T) {
	ws := loadExample(t)
	engine := compare.NewCompareEngine(newBuilder(false), scheduler.SlotOptions{})

	set, err := engine.CompareScenarios(context.Background(), ws, "status quo", []string{"lean growth", "aggressive expansion"})
	require.NoError(t, err)
	require.NotNil(t, set.BaseResult)
	assert.Equal(t, "status quo", set.BaseScenarioName)
	assert.Len(t, set.AlternativeResults, 2)
	assert.Len(t, set.Reports(), 3)

	table := (&compare.TableFormatter{}).Format(set)
	assert.Contains(t, table, "aggressive expansion")
}

package breakeven

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/domain"
)

func pointEstimate(ws *domain.Workspace, lever domain.LeverID, value float64) domain.MetricState {
	plan := ws.Scenarios[0]
	levers := plan.Levers.With(lever, value)
	eff := calculation.ComputeEffective(ws.BaselineLevers, levers, plan.Ramp, ws.Simulation.HorizonMonths)
	return calculation.Calculate(ws.Baseline, eff, plan.Scenario)
}

func TestNewSolver_Defaults(t *testing.T) {
	s := NewSolver(SolverOptions{})
	assert.Equal(t, 0.1, s.Options.LeverTolerance)
	assert.Equal(t, 50, s.Options.MaxIterations)
	assert.NotNil(t, s.Logger)

	s.SetLogger(nil)
	assert.IsType(t, calculation.NopLogger{}, s.Logger)
}

func TestSolve_RaiseLever(t *testing.T) {
	ws := domain.DefaultWorkspace()
	s := NewDefaultSolver()

	r, err := s.Solve(context.Background(), Request{
		Workspace: ws,
		Lever:     domain.LeverCostDiscipline,
		Metric:    MetricRunway,
		Target:    24,
	})
	require.NoError(t, err)

	assert.True(t, r.Success)
	assert.False(t, r.AlreadyMet)
	assert.Equal(t, "base", r.Plan)
	assert.Equal(t, "cost_discipline", r.LeverKey)
	assert.Equal(t, 50.0, r.BaseValue)
	assert.Less(t, r.BaseMetric, 24.0)
	assert.Greater(t, r.Change, 0.0)
	assert.InDelta(t, 79.5, r.OptimalValue, 1.0)
	assert.GreaterOrEqual(t, r.AchievedMetric, 24.0)
	assert.Positive(t, r.Iterations)

	// the answer is tight: just below it the target is missed
	below := pointEstimate(ws, domain.LeverCostDiscipline, r.OptimalValue-2*s.Options.LeverTolerance)
	assert.Less(t, below.Runway, 24.0)
}

func TestSolve_LowerLever(t *testing.T) {
	ws := domain.DefaultWorkspace()

	r, err := NewDefaultSolver().Solve(context.Background(), Request{
		Workspace: ws,
		Lever:     domain.LeverHiringIntensity,
		Metric:    MetricRunway,
		Target:    24,
	})
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Less(t, r.Change, 0.0)
	assert.GreaterOrEqual(t, r.AchievedMetric, 24.0)
}

func TestSolve_AlreadyMet(t *testing.T) {
	r, err := NewDefaultSolver().Solve(context.Background(), Request{
		Workspace: domain.DefaultWorkspace(),
		Lever:     domain.LeverCostDiscipline,
		Metric:    MetricRunway,
		Target:    10,
	})
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.True(t, r.AlreadyMet)
	assert.Zero(t, r.Change)
	assert.Zero(t, r.Iterations)
	assert.Equal(t, r.BaseValue, r.OptimalValue)
}

func TestSolve_Unreachable(t *testing.T) {
	ws := domain.DefaultWorkspace()
	s := NewDefaultSolver()

	r, err := s.Solve(context.Background(), Request{
		Workspace: ws,
		Lever:     domain.LeverCostDiscipline,
		Metric:    MetricRunway,
		Target:    40,
	})
	require.NoError(t, err)
	assert.False(t, r.Success)
	assert.Contains(t, r.ConvergenceInfo, "not reachable")
	assert.Equal(t, r.BaseValue, r.OptimalValue)

	maxValue := 70.0
	r, err = s.Solve(context.Background(), Request{
		Workspace:   ws,
		Lever:       domain.LeverCostDiscipline,
		Metric:      MetricRunway,
		Target:      24,
		Constraints: Constraints{MaxValue: &maxValue},
	})
	require.NoError(t, err)
	assert.False(t, r.Success, "the required value lies above the cap")
}

func TestSolve_LowerIsBetter(t *testing.T) {
	ws := domain.DefaultWorkspace()
	baseRisk := pointEstimate(ws, domain.LeverCostDiscipline, 50).Risk
	target := baseRisk - 2

	r, err := NewDefaultSolver().Solve(context.Background(), Request{
		Workspace: ws,
		Lever:     domain.LeverCostDiscipline,
		Metric:    MetricRisk,
		Target:    target,
	})
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Greater(t, r.Change, 0.0)
	assert.LessOrEqual(t, r.AchievedMetric, target)
}

func TestSolve_Errors(t *testing.T) {
	ws := domain.DefaultWorkspace()
	s := NewDefaultSolver()
	ctx := context.Background()

	_, err := s.Solve(ctx, Request{Lever: domain.LeverCostDiscipline, Metric: MetricRunway, Target: 20})
	assert.Error(t, err)

	_, err = s.Solve(ctx, Request{Workspace: ws, Lever: domain.LeverCount, Metric: MetricRunway, Target: 20})
	assert.Error(t, err)

	_, err = s.Solve(ctx, Request{Workspace: ws, Lever: domain.LeverCostDiscipline, Metric: MetricRunway, Target: math.NaN()})
	assert.Error(t, err)

	_, err = s.Solve(ctx, Request{Workspace: ws, Plan: "moonshot", Lever: domain.LeverCostDiscipline, Metric: MetricRunway, Target: 20})
	var be *BreakEvenError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "solve", be.Operation)

	lo, hi := 80.0, 20.0
	_, err = s.Solve(ctx, Request{
		Workspace: ws, Lever: domain.LeverCostDiscipline, Metric: MetricRunway, Target: 20,
		Constraints: Constraints{MinValue: &lo, MaxValue: &hi},
	})
	assert.Error(t, err)
}

func TestSolveAll(t *testing.T) {
	ws := domain.DefaultWorkspace()

	mr, err := NewDefaultSolver().SolveAll(context.Background(), ws, "", MetricRunway, 24)
	require.NoError(t, err)
	require.Len(t, mr.Results, int(domain.LeverCount))
	require.NotNil(t, mr.Best)
	assert.True(t, mr.Best.Success)

	for _, r := range mr.Results {
		if r.Success {
			assert.LessOrEqual(t, math.Abs(mr.Best.Change), math.Abs(r.Change), r.LeverKey)
		}
	}
	require.NotEmpty(t, mr.Recommendations)
	assert.Contains(t, mr.Recommendations[0], "Smallest Move:")
}

func TestSolveAll_Unreachable(t *testing.T) {
	mr, err := NewDefaultSolver().SolveAll(context.Background(), domain.DefaultWorkspace(), "base", MetricRunway, 40)
	require.NoError(t, err)
	assert.Nil(t, mr.Best)
	require.Len(t, mr.Recommendations, 1)
	assert.Contains(t, mr.Recommendations[0], "Unreachable")
}

func TestSolveAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefaultSolver().SolveAll(ctx, domain.DefaultWorkspace(), "", MetricRunway, 24)
	assert.ErrorIs(t, err, context.Canceled)
}

package breakeven

import (
	"context"
	"fmt"
	"math"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/transform"
)

// Solver finds the lever value at which a plan's point estimate crosses a
// target. Each probe applies a set_lever transform to the plan and reruns
// the deterministic calculator over the ramped levers.
type Solver struct {
	Options SolverOptions
	Logger  calculation.Logger
}

// NewSolver creates a new break-even solver
func NewSolver(options SolverOptions) *Solver {
	d := DefaultSolverOptions()
	if options.LeverTolerance <= 0 {
		options.LeverTolerance = d.LeverTolerance
	}
	if options.MaxIterations <= 0 {
		options.MaxIterations = d.MaxIterations
	}
	return &Solver{Options: options, Logger: calculation.NopLogger{}}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultSolverOptions())
}

// SetLogger sets the logger; nil installs a no-op logger
func (s *Solver) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	s.Logger = l
}

// Solve searches for the lever value closest to the plan's current value
// that meets the target. A target that no value within the constraints can
// reach yields a result with Success false, not an error.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if req.Workspace == nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "workspace is required"}
	}
	if !req.Lever.Valid() {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("invalid lever %d", int(req.Lever))}
	}
	if math.IsNaN(req.Target) || math.IsInf(req.Target, 0) {
		return nil, &BreakEvenError{Operation: "solve", Message: "target must be a finite number"}
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	plan, err := req.Workspace.Plan(req.Plan)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "unknown plan", Cause: err}
	}

	eval := func(v float64) (float64, error) {
		probe, err := transform.ApplyTransforms(plan, []transform.PlanTransform{
			&transform.SetLever{Lever: req.Lever, Value: v},
		})
		if err != nil {
			return 0, err
		}
		eff := calculation.ComputeEffective(req.Workspace.BaselineLevers, probe.Levers, probe.Ramp, req.Workspace.Simulation.HorizonMonths)
		return req.Metric.Value(calculation.Calculate(req.Workspace.Baseline, eff, probe.Scenario)), nil
	}

	base := plan.Levers.Get(req.Lever)
	res := &Result{
		Plan:      plan.Name,
		Lever:     req.Lever,
		LeverKey:  req.Lever.Info().Key,
		Metric:    req.Metric,
		Target:    req.Target,
		BaseValue: base,
	}
	if res.BaseMetric, err = eval(base); err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to evaluate plan", Cause: err}
	}

	if req.Metric.Meets(res.BaseMetric, req.Target) {
		res.Success = true
		res.AlreadyMet = true
		res.OptimalValue = base
		res.AchievedMetric = res.BaseMetric
		res.ConvergenceInfo = "Target already met"
		return res, nil
	}

	// Search toward each bound that meets the target and keep the smaller move
	lo, hi := req.Constraints.Bounds()
	var best *float64
	for _, end := range []float64{lo, hi} {
		if end == base {
			continue
		}
		endMetric, err := eval(end)
		if err != nil {
			return nil, &BreakEvenError{Operation: "solve", Message: "failed to evaluate bound", Cause: err}
		}
		if !req.Metric.Meets(endMetric, req.Target) {
			continue
		}
		v, iters, err := s.bisect(ctx, eval, req.Metric, req.Target, base, end)
		res.Iterations += iters
		if err != nil {
			return nil, err
		}
		if best == nil || math.Abs(v-base) < math.Abs(*best-base) {
			best = &v
		}
	}

	if best == nil {
		res.OptimalValue = base
		res.AchievedMetric = res.BaseMetric
		res.ConvergenceInfo = fmt.Sprintf("Target not reachable with %s between %.0f and %.0f",
			req.Lever.Info().Label, lo, hi)
		s.Logger.Debugf("break-even %s/%s: %s", plan.Name, res.LeverKey, res.ConvergenceInfo)
		return res, nil
	}

	res.Success = true
	res.OptimalValue = *best
	res.Change = *best - base
	if res.AchievedMetric, err = eval(*best); err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to evaluate result", Cause: err}
	}
	res.ConvergenceInfo = fmt.Sprintf("Bisection converged within %.2f", s.Options.LeverTolerance)
	s.Logger.Debugf("break-even %s/%s: %.2f -> %.2f after %d iterations",
		plan.Name, res.LeverKey, base, *best, res.Iterations)
	return res, nil
}

// bisect narrows [miss, hit] where miss fails the target and hit meets it,
// returning a value that meets the target
func (s *Solver) bisect(
	ctx context.Context,
	eval func(float64) (float64, error),
	metric Metric,
	target, miss, hit float64,
) (float64, int, error) {
	iterations := 0
	for iterations < s.Options.MaxIterations && math.Abs(hit-miss) > s.Options.LeverTolerance {
		if err := ctx.Err(); err != nil {
			return 0, iterations, err
		}
		iterations++

		mid := (miss + hit) / 2
		v, err := eval(mid)
		if err != nil {
			return 0, iterations, &BreakEvenError{Operation: "bisect", Message: "failed to evaluate probe", Cause: err}
		}
		if metric.Meets(v, target) {
			hit = mid
		} else {
			miss = mid
		}
	}
	return hit, iterations, nil
}

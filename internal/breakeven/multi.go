package breakeven

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// SolveAll runs one break-even search per lever against the same target and
// ranks the levers that can reach it by the size of the move required. Best
// is nil when no single lever reaches the target.
func (s *Solver) SolveAll(ctx context.Context, ws *domain.Workspace, plan string, metric Metric, target float64) (*MultiResult, error) {
	levers := domain.Levers()
	results := make([]Result, len(levers))

	g, gctx := errgroup.WithContext(ctx)
	if s.Options.Parallel > 0 {
		g.SetLimit(s.Options.Parallel)
	}
	for i, info := range levers {
		g.Go(func() error {
			r, err := s.Solve(gctx, Request{
				Workspace: ws,
				Plan:      plan,
				Lever:     info.ID,
				Metric:    metric,
				Target:    target,
			})
			if err != nil {
				return err
			}
			results[i] = *r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mr := &MultiResult{
		Plan:    results[0].Plan,
		Metric:  metric,
		Target:  target,
		Results: results,
	}
	for i := range results {
		r := &results[i]
		if !r.Success {
			continue
		}
		if mr.Best == nil || math.Abs(r.Change) < math.Abs(mr.Best.Change) {
			mr.Best = r
		}
	}
	mr.Recommendations = GenerateRecommendations(mr)
	return mr, nil
}

// GenerateRecommendations describes the smallest moves that reach the target
func GenerateRecommendations(mr *MultiResult) []string {
	recommendations := []string{}
	if mr.Best == nil {
		return append(recommendations, fmt.Sprintf(
			"Unreachable: no single lever brings %s to %s; combine lever moves with compare",
			mr.Metric, FormatMetric(mr.Metric, mr.Target)))
	}
	if mr.Best.AlreadyMet {
		return append(recommendations, fmt.Sprintf(
			"On Target: %s already reaches %s %s (%s)",
			mr.Plan, mr.Metric, FormatMetric(mr.Metric, mr.Target), FormatMetric(mr.Metric, mr.Best.BaseMetric)))
	}

	recommendations = append(recommendations, fmt.Sprintf(
		"Smallest Move: %s %s from %.0f to %.1f to reach %s %s",
		verb(mr.Best.Change), mr.Best.Lever.Info().Label, mr.Best.BaseValue, mr.Best.OptimalValue,
		mr.Metric, FormatMetric(mr.Metric, mr.Target)))

	for _, r := range mr.Results {
		if !r.Success || r.Lever == mr.Best.Lever {
			continue
		}
		recommendations = append(recommendations, fmt.Sprintf(
			"Alternative: %s %s by %.1f points",
			verb(r.Change), r.Lever.Info().Label, math.Abs(r.Change)))
	}
	return recommendations
}

func verb(change float64) string {
	if change < 0 {
		return "lower"
	}
	return "raise"
}

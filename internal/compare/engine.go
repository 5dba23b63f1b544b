// Package compare evaluates plans side by side, each in its own scheduler
// slot, and summarizes how the alternatives differ from a base plan.
package compare

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/report"
	"github.com/rgehrsitz/runwaysim/internal/scheduler"
)

// CompareEngine orchestrates plan comparison
type CompareEngine struct {
	Builder           *report.Builder
	MetricsCalculator *MetricsCalculator
	SlotOptions       scheduler.SlotOptions
	Logger            calculation.Logger

	// MaxParallel caps the number of slots simulating at once; 0 means no cap
	MaxParallel int
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(builder *report.Builder, slotOpts scheduler.SlotOptions) *CompareEngine {
	return &CompareEngine{
		Builder:           builder,
		MetricsCalculator: NewMetricsCalculator(),
		SlotOptions:       slotOpts,
		Logger:            calculation.NopLogger{},
	}
}

// SetLogger sets the logger; nil installs a no-op logger
func (ce *CompareEngine) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	ce.Logger = l
}

// Compare runs plan A in slot A and plan B in slot B concurrently and
// compares B against A.
func (ce *CompareEngine) Compare(ctx context.Context, ws *domain.Workspace, scenarioA, scenarioB string) (*ComparisonSet, error) {
	return ce.CompareScenarios(ctx, ws, scenarioA, []string{scenarioB})
}

// CompareScenarios compares each alternative plan against the base plan.
// Every plan runs in an independent slot; the first error cancels the rest.
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	ws *domain.Workspace,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {

	names := append([]string{baseScenarioName}, alternativeScenarioNames...)
	// resolve every plan up front so a typo fails before any simulation starts
	for _, name := range names {
		if _, err := ws.Plan(name); err != nil {
			return nil, err
		}
	}

	reports := make([]*report.SimulationReport, len(names))
	g, gctx := errgroup.WithContext(ctx)
	if ce.MaxParallel > 0 {
		g.SetLimit(ce.MaxParallel)
	}
	for i, name := range names {
		slotName := SlotLabel(i)
		g.Go(func() error {
			r, err := ce.runSlot(gctx, ws, slotName, name)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	baseResult := ce.MetricsCalculator.CalculateMetrics(SlotLabel(0), reports[0])
	alternatives := []ComparisonResult{}
	for i, r := range reports[1:] {
		alt := ce.MetricsCalculator.CalculateMetrics(SlotLabel(i+1), r)
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		Workspace:          ws.Name,
		BaseScenarioName:   baseResult.ScenarioName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

// runSlot simulates one plan in its own slot and assembles its report
func (ce *CompareEngine) runSlot(ctx context.Context, ws *domain.Workspace, slotName, planName string) (*report.SimulationReport, error) {
	plan, effective, cfg, err := report.Prepare(ws, planName)
	if err != nil {
		return nil, err
	}

	slot := scheduler.NewSlot(slotName, ce.Builder.Engine(), ce.SlotOptions)
	slot.SetLogger(ce.Logger)
	defer slot.Close()

	mc, ok := slot.RunNow(ctx, effective, cfg)
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("slot %s: no simulation result for %q", slotName, plan.Name)
	}
	ce.Logger.Debugf("slot %s finished %q: survival=%.3f", slotName, plan.Name, mc.SurvivalRate)
	return ce.Builder.Assemble(ws, plan, effective, cfg, mc), nil
}

// SlotLabel names the i-th slot: A, B, ... Z, then S27, S28, ...
func SlotLabel(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("S%d", i+1)
}

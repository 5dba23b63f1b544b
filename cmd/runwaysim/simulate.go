package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/output"
	"github.com/rgehrsitz/runwaysim/internal/report"
	"github.com/rgehrsitz/runwaysim/internal/valuation"
)

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [workspace-file]",
		Short: "Run the Monte Carlo simulation and print the full report",
		Example: `  runwaysim simulate workspace.yaml
  runwaysim simulate workspace.yaml --scenario "hire fast" -n 5000 --seed 7
  runwaysim simulate workspace.yaml --format json --output-file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.close()

			ws, err := a.loadWorkspace(args[0])
			if err != nil {
				return err
			}
			applySimulationOverrides(cmd, ws)

			name, _ := cmd.Flags().GetString("scenario")
			if err := a.applyPlanOverrides(cmd, ws, name); err != nil {
				return err
			}
			reports, err := selectReports(cmd, a.builder(false), ws, name)
			if err != nil {
				return err
			}
			return writeReports(cmd, reports)
		},
	}
	addReportFlags(cmd, "console")
	addSimulationFlags(cmd)
	return cmd
}

// summarizeCmd reduces valuation information to the canonical band. With a
// workspace it summarizes simulated EV samples; without one it accepts a
// persisted percentile band or a single EV.
func summarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [workspace-file]",
		Short: "Summarize the enterprise value distribution",
		Example: `  runwaysim summarize workspace.yaml --scenario base
  runwaysim summarize --p10 8e6 --p50 20e6 --p90 45e6
  runwaysim summarize --ev 24e6 --uncertainty 0.25`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.close()

			flags := cmd.Flags()
			summarizer := valuation.NewSummarizer(nil)
			summarizer.SetLogger(a.sugar)

			var summary domain.ValuationDistributionSummary
			switch {
			case len(args) == 1:
				ws, err := a.loadWorkspace(args[0])
				if err != nil {
					return err
				}
				applySimulationOverrides(cmd, ws)
				name, _ := flags.GetString("scenario")
				r, err := a.builder(false).Build(cmd.Context(), ws, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Plan: %s (%d trials)\n", r.Plan.Name, r.Simulation.Iterations)
				summary = r.Valuation

			case flags.Changed("p50"):
				band := domain.PercentileBand{}
				band.P10, _ = flags.GetFloat64("p10")
				band.P25, _ = flags.GetFloat64("p25")
				band.P50, _ = flags.GetFloat64("p50")
				band.P75, _ = flags.GetFloat64("p75")
				band.P90, _ = flags.GetFloat64("p90")
				interpolateQuartiles(&band, flags.Changed("p25"), flags.Changed("p75"))
				summary = summarizer.FromPercentiles(band)

			case flags.Changed("ev"):
				ev, _ := flags.GetFloat64("ev")
				uncertainty, _ := flags.GetFloat64("uncertainty")
				summary = summarizer.FromSingleEV(ev, uncertainty)

			default:
				return errors.New("provide a workspace file, a percentile band (--p50 with --p10/--p90) or --ev")
			}

			output.WriteValuation(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().String("scenario", "", "Plan to summarize (default: the first plan)")
	addSimulationFlags(cmd)
	cmd.Flags().Float64("p10", 0, "Persisted 10th percentile EV")
	cmd.Flags().Float64("p25", 0, "Persisted 25th percentile EV (interpolated if omitted)")
	cmd.Flags().Float64("p50", 0, "Persisted median EV")
	cmd.Flags().Float64("p75", 0, "Persisted 75th percentile EV (interpolated if omitted)")
	cmd.Flags().Float64("p90", 0, "Persisted 90th percentile EV")
	cmd.Flags().Float64("ev", 0, "Single enterprise value estimate")
	cmd.Flags().Float64("uncertainty", valuation.DefaultUncertainty, "Relative uncertainty around --ev")
	return cmd
}

// interpolateQuartiles fills p25/p75 halfway between their neighbours when
// only the 10/50/90 band is known
func interpolateQuartiles(b *domain.PercentileBand, hasP25, hasP75 bool) {
	if !hasP25 {
		b.P25 = (b.P10 + b.P50) / 2
	}
	if !hasP75 {
		b.P75 = (b.P50 + b.P90) / 2
	}
}

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [workspace-file]",
		Short: "Print quality, structural risk and objective gap scores per plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.close()

			ws, err := a.loadWorkspace(args[0])
			if err != nil {
				return err
			}
			applySimulationOverrides(cmd, ws)

			simulate, _ := cmd.Flags().GetBool("simulate")
			name, _ := cmd.Flags().GetString("scenario")
			if err := a.applyPlanOverrides(cmd, ws, name); err != nil {
				return err
			}
			reports, err := selectReports(cmd, a.builder(!simulate), ws, name)
			if err != nil {
				return err
			}
			return writeScoreTable(cmd.OutOrStdout(), reports)
		},
	}
	cmd.Flags().String("scenario", "", "Plan to score (default: every plan in the workspace)")
	cmd.Flags().Bool("simulate", false, "Judge survival objectives against the Monte Carlo survival rate")
	addSimulationFlags(cmd)
	addOverrideFlags(cmd)
	return cmd
}

func writeScoreTable(w io.Writer, reports []*report.SimulationReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAN\tQUALITY\tSTRUCTURAL RISK\tOBJECTIVE GAP\tSURVIVAL SOURCE")
	for _, r := range reports {
		source := "point estimate"
		if r.Delta.SurvivalFromSimulation {
			source = "simulation"
		}
		fmt.Fprintf(tw, "%s\t%.2f (%s)\t%d (%s)\t%d (%s)\t%s\n",
			r.Plan.Name,
			r.Quality.Score, r.Quality.Band,
			r.StructuralRisk.Index, r.StructuralRisk.Band,
			r.ObjectiveGap.Score, r.ObjectiveGap.Band,
			source)
	}
	return tw.Flush()
}

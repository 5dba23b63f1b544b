package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/runwaysim/internal/compare"
	"github.com/rgehrsitz/runwaysim/internal/scheduler"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [workspace-file]",
		Short: "Simulate plans in independent slots and compare them against a base plan",
		Long: "Runs the base plan and every alternative in its own slot concurrently, then " +
			"reports the differences in runway, survival, enterprise value and risk.",
		Example: `  runwaysim compare workspace.yaml --base "status quo" --with lean
  runwaysim compare workspace.yaml --base "status quo" --with lean,downturn --format csv
  runwaysim compare workspace.yaml --format json --max-parallel 2`,
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

			base, _ := cmd.Flags().GetString("base")
			if base == "" {
				base = ws.Scenarios[0].Name
			}
			alternatives, _ := cmd.Flags().GetStringSlice("with")
			if len(alternatives) == 0 {
				for _, name := range ws.PlanNames() {
					if name != base {
						alternatives = append(alternatives, name)
					}
				}
			}
			if len(alternatives) == 0 {
				return fmt.Errorf("nothing to compare: workspace has only plan %q", base)
			}

			engine := compare.NewCompareEngine(a.builder(false), scheduler.SlotOptions{Runner: a.runnerOptions()})
			engine.SetLogger(a.sugar)
			engine.MaxParallel, _ = cmd.Flags().GetInt("max-parallel")

			set, err := engine.CompareScenarios(cmd.Context(), ws, base, alternatives)
			if err != nil {
				return err
			}
			set.ConfigPath = args[0]
			return writeComparison(cmd, set)
		},
	}
	cmd.Flags().String("base", "", "Base plan (slot A; default: the first plan)")
	cmd.Flags().StringSlice("with", nil, "Alternative plans, comma separated (default: every other plan)")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, compact, csv, json")
	cmd.Flags().Int("max-parallel", 0, "Maximum number of slots simulating at once (0: no limit)")
	addSimulationFlags(cmd)
	return cmd
}

func writeComparison(cmd *cobra.Command, set *compare.ComparisonSet) error {
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	switch strings.ToLower(format) {
	case "table", "":
		fmt.Fprint(out, (&compare.TableFormatter{}).Format(set))
	case "compact":
		fmt.Fprintln(out, (&compare.TableFormatter{}).FormatCompact(set))
	case "csv":
		data, err := (&compare.CSVFormatter{}).Format(set)
		if err != nil {
			return err
		}
		fmt.Fprint(out, data)
	case "json":
		data, err := (&compare.JSONFormatter{Pretty: true}).Format(set)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, data)
	default:
		return fmt.Errorf("unsupported comparison format %q (supported: table, compact, csv, json)", format)
	}
	return nil
}

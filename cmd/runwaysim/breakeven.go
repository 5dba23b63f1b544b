package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/runwaysim/internal/breakeven"
	"github.com/rgehrsitz/runwaysim/internal/domain"
)

func breakevenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven [workspace-file]",
		Short: "Find the lever value at which a plan reaches a KPI target",
		Long: "Searches the point estimate for the lever value closest to the plan's current " +
			"setting that meets the target. Without --lever every lever is searched and the " +
			"smallest move is recommended. Risk targets are ceilings; every other target is a floor.",
		Example: `  runwaysim breakeven workspace.yaml --metric runway --target 24
  runwaysim breakeven workspace.yaml --scenario lean --lever cost_discipline --metric runway --target 24 --max 85
  runwaysim breakeven workspace.yaml --metric risk --target 40 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.close()

			flags := cmd.Flags()
			if !flags.Changed("target") {
				return fmt.Errorf("--target is required")
			}
			metricName, _ := flags.GetString("metric")
			metric, err := breakeven.ParseMetric(metricName)
			if err != nil {
				return err
			}
			target, _ := flags.GetFloat64("target")

			ws, err := a.loadWorkspace(args[0])
			if err != nil {
				return err
			}
			name, _ := flags.GetString("scenario")
			if err := a.applyPlanOverrides(cmd, ws, name); err != nil {
				return err
			}

			solver := breakeven.NewDefaultSolver()
			solver.SetLogger(a.sugar)

			format, _ := flags.GetString("format")
			leverName, _ := flags.GetString("lever")
			var result any
			if leverName == "" {
				mr, err := solver.SolveAll(cmd.Context(), ws, name, metric, target)
				if err != nil {
					return err
				}
				result = mr
			} else {
				lever, err := domain.ParseLeverID(leverName)
				if err != nil {
					return err
				}
				req := breakeven.Request{
					Workspace: ws,
					Plan:      name,
					Lever:     lever,
					Metric:    metric,
					Target:    target,
				}
				if flags.Changed("min") {
					v, _ := flags.GetFloat64("min")
					req.Constraints.MinValue = &v
				}
				if flags.Changed("max") {
					v, _ := flags.GetFloat64("max")
					req.Constraints.MaxValue = &v
				}
				r, err := solver.Solve(cmd.Context(), req)
				if err != nil {
					return err
				}
				result = r
			}
			return writeBreakEven(cmd, format, result)
		},
	}
	cmd.Flags().String("scenario", "", "Plan to analyse (default: the first plan)")
	cmd.Flags().String("lever", "", "Lever to search (default: every lever)")
	cmd.Flags().String("metric", "runway", "Target metric: runway, survival, growth, ev, risk")
	cmd.Flags().Float64("target", 0, "Target value (months, percent, annual growth fraction, dollars or risk points)")
	cmd.Flags().Float64("min", domain.LeverMin, "Lowest lever value to consider")
	cmd.Flags().Float64("max", domain.LeverMax, "Highest lever value to consider")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json")
	addOverrideFlags(cmd)
	return cmd
}

func writeBreakEven(cmd *cobra.Command, format string, result any) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "table", "":
		tf := &breakeven.TableFormatter{}
		switch r := result.(type) {
		case *breakeven.MultiResult:
			fmt.Fprint(out, tf.FormatMulti(r))
		case *breakeven.Result:
			fmt.Fprint(out, tf.Format(r))
		}
	case "json":
		data, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, data)
	default:
		return fmt.Errorf("unsupported break-even format %q (supported: table, json)", format)
	}
	return nil
}

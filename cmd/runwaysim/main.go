package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/config"
	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/logging"
	"github.com/rgehrsitz/runwaysim/internal/output"
	"github.com/rgehrsitz/runwaysim/internal/report"
	"github.com/rgehrsitz/runwaysim/internal/scheduler"
	"github.com/rgehrsitz/runwaysim/internal/transform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	settings *config.Settings
	logger   *zap.Logger
	sugar    *zap.SugaredLogger
}

// newApp loads settings and builds the logger. Console logging goes to
// stderr unless the terminal belongs to the dashboard.
func newApp(cmd *cobra.Command, consoleLogs bool) (*app, error) {
	settingsPath, _ := cmd.Flags().GetString("settings")
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		settings.LogLevel = level
	}
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		settings.LogLevel = "debug"
	}

	opts := logging.Options{
		Level:      settings.LogLevel,
		File:       settings.LogFile,
		MaxSizeMB:  settings.LogMaxSizeMB,
		MaxBackups: settings.LogMaxBackups,
		MaxAgeDays: settings.LogMaxAgeDays,
	}
	if consoleLogs {
		opts.Console = cmd.ErrOrStderr()
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, err
	}
	return &app{settings: settings, logger: logger, sugar: logger.Sugar()}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// loadWorkspace parses a workspace file, filling unset simulation values
// from the settings
func (a *app) loadWorkspace(path string) (*domain.Workspace, error) {
	ws, err := config.NewInputParser().
		WithSimulationDefaults(a.settings.SimulationDefaults()).
		LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	a.sugar.Debugf("loaded workspace %q from %s with %d plans", ws.Name, path, len(ws.Scenarios))
	return ws, nil
}

func (a *app) engine() *calculation.MonteCarloEngine {
	engine := calculation.NewMonteCarloEngine(calculation.DefaultEngineOptions())
	engine.SetLogger(a.sugar)
	return engine
}

func (a *app) runnerOptions() scheduler.RunnerOptions {
	return scheduler.RunnerOptions{ChunkSize: a.settings.ChunkSize}
}

func (a *app) builder(skipSimulation bool) *report.Builder {
	b := report.NewBuilder(a.engine(), report.Options{
		SkipSimulation: skipSimulation,
		Runner:         a.runnerOptions(),
	})
	b.SetLogger(a.sugar)
	return b
}

// applySimulationOverrides lets --iterations, --horizon and --seed win over
// the workspace file
func applySimulationOverrides(cmd *cobra.Command, ws *domain.Workspace) {
	if cmd.Flags().Changed("iterations") {
		ws.Simulation.Iterations, _ = cmd.Flags().GetInt("iterations")
	}
	if cmd.Flags().Changed("horizon") {
		ws.Simulation.HorizonMonths, _ = cmd.Flags().GetInt("horizon")
	}
	if cmd.Flags().Changed("seed") {
		ws.Simulation.Seed, _ = cmd.Flags().GetUint64("seed")
	}
}

// applyPlanOverrides applies --set transforms to the named plan, or to every
// plan when name is empty
func (a *app) applyPlanOverrides(cmd *cobra.Command, ws *domain.Workspace, name string) error {
	specs, _ := cmd.Flags().GetStringArray("set")
	if len(specs) == 0 {
		return nil
	}
	transforms, err := transform.NewTransformRegistry().ParseAll(specs)
	if err != nil {
		return err
	}
	if _, err := ws.Plan(name); err != nil {
		return err
	}
	for i, plan := range ws.Scenarios {
		if name != "" && plan.Name != name {
			continue
		}
		updated, err := transform.ApplyTransforms(plan, transforms)
		if err != nil {
			return fmt.Errorf("plan %q: %w", plan.Name, err)
		}
		ws.Scenarios[i] = updated
		a.sugar.Infof("plan %q overridden: %v", plan.Name, transform.Describe(transforms))
	}
	return nil
}

// selectReports builds the named plan, or every plan when name is empty
func selectReports(cmd *cobra.Command, b *report.Builder, ws *domain.Workspace, name string) ([]*report.SimulationReport, error) {
	if name == "" {
		return b.BuildAll(cmd.Context(), ws)
	}
	r, err := b.Build(cmd.Context(), ws, name)
	if err != nil {
		return nil, err
	}
	return []*report.SimulationReport{r}, nil
}

// writeReports renders reports with the --format formatter, to stdout or,
// with --output-file, to a timestamped file
func writeReports(cmd *cobra.Command, reports []*report.SimulationReport) error {
	format, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format %q (available: %v, aliases: %v)",
			format, output.AvailableFormatterNames(), output.AvailableFormatAliases())
	}

	if toFile, _ := cmd.Flags().GetBool("output-file"); toFile {
		name, err := output.WriteFormatted(f, reports, output.Extension(f.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", name)
		return nil
	}

	data, err := f.Format(reports)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func addReportFlags(cmd *cobra.Command, defaultFormat string) {
	cmd.Flags().String("scenario", "", "Plan to evaluate (default: every plan in the workspace)")
	cmd.Flags().StringP("format", "f", defaultFormat, "Output format (console, console-lite, csv, survival-csv, json, yaml, html)")
	cmd.Flags().Bool("output-file", false, "Write the report to a timestamped file instead of stdout")
	addOverrideFlags(cmd)
}

func addOverrideFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("set", nil, "Override the plan before evaluating: lever=value or transform:key=value,... (repeatable)")
}

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("iterations", "n", domain.DefaultIterations, "Number of Monte Carlo trials")
	cmd.Flags().Int("horizon", domain.DefaultHorizon, "Simulation horizon in months")
	cmd.Flags().Uint64("seed", 0, "Base seed for trial randomness")
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Version
	}
	return ""
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "runwaysim",
		Short: "Startup runway simulation and risk scoring",
		Long: "Evaluates startup operating plans: deterministic KPI estimates, Monte Carlo " +
			"survival and valuation distributions, and composite risk scores.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("settings", "", "Application settings file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")

	root.AddCommand(
		calculateCmd(),
		simulateCmd(),
		summarizeCmd(),
		scoreCmd(),
		compareCmd(),
		breakevenCmd(),
		dashboardCmd(),
		validateCmd(),
		initCmd(),
		versionCmd(),
	)
	return root
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [workspace-file]",
		Short: "Compute point estimates and scores without simulating",
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
			name, _ := cmd.Flags().GetString("scenario")
			if err := a.applyPlanOverrides(cmd, ws, name); err != nil {
				return err
			}
			reports, err := selectReports(cmd, a.builder(true), ws, name)
			if err != nil {
				return err
			}
			return writeReports(cmd, reports)
		},
	}
	addReportFlags(cmd, "console")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [workspace-file]",
		Short: "Validate a workspace file",
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
			fmt.Fprintf(cmd.OutOrStdout(), "Workspace file %s is valid (%d plans: %v)\n", args[0], len(ws.Scenarios), ws.PlanNames())
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [workspace-file]",
		Short: "Write a starter workspace file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "workspace.yaml"
			if len(args) == 1 {
				filename = args[0]
			}
			if err := config.WriteExample(filename); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote example workspace to %s\n", filename)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "runwaysim %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "module version %s\n", info)
			}
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/config"
	"github.com/rgehrsitz/runwaysim/internal/logging"
	"github.com/rgehrsitz/runwaysim/internal/scheduler"
	"github.com/rgehrsitz/runwaysim/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: runwaysim-tui <workspace-file>")
		os.Exit(1)
	}
	workspacePath := os.Args[1]

	if _, err := os.Stat(workspacePath); errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Error: workspace file not found: %s\n", workspacePath)
		os.Exit(1)
	}

	if err := run(workspacePath); err != nil {
		fmt.Printf("Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run(workspacePath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := config.LoadSettings(os.Getenv("RUNWAYSIM_SETTINGS"))
	if err != nil {
		return err
	}

	// file sink only; the terminal belongs to the dashboard
	logger, err := logging.New(logging.Options{
		Level:      settings.LogLevel,
		File:       settings.LogFile,
		MaxSizeMB:  settings.LogMaxSizeMB,
		MaxBackups: settings.LogMaxBackups,
		MaxAgeDays: settings.LogMaxAgeDays,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	ws, err := config.NewInputParser().
		WithSimulationDefaults(settings.SimulationDefaults()).
		LoadFromFile(workspacePath)
	if err != nil {
		return err
	}

	engine := calculation.NewMonteCarloEngine(calculation.DefaultEngineOptions())
	engine.SetLogger(sugar)

	return tui.Run(ctx, ws, tui.RunOptions{
		Engine: engine,
		Slot: scheduler.SlotOptions{
			Runner:   scheduler.RunnerOptions{ChunkSize: settings.ChunkSize},
			Debounce: settings.Debounce,
		},
		Logger: sugar,
	})
}

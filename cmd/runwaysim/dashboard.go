package main

import (
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/runwaysim/internal/scheduler"
	"github.com/rgehrsitz/runwaysim/internal/tui"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard [workspace-file]",
		Aliases: []string{"tui"},
		Short:   "Open the interactive two-slot dashboard",
		Long: "Opens an interactive dashboard with two plan slots. Lever edits update the " +
			"point estimates immediately and trigger a debounced Monte Carlo run in the " +
			"background. Logs go to the configured log file only.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotName, _ := cmd.Flags().GetString("slot")
			active, err := scheduler.ParseSlotID(slotName)
			if err != nil {
				return err
			}

			// the terminal belongs to the dashboard
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			ws, err := a.loadWorkspace(args[0])
			if err != nil {
				return err
			}
			applySimulationOverrides(cmd, ws)

			return tui.Run(cmd.Context(), ws, tui.RunOptions{
				Engine: a.engine(),
				Slot: scheduler.SlotOptions{
					Runner:   a.runnerOptions(),
					Debounce: a.settings.Debounce,
				},
				Logger: a.sugar,
				Active: active,
			})
		},
	}
	cmd.Flags().String("slot", "A", "Slot that starts focused: A or B")
	addSimulationFlags(cmd)
	return cmd
}

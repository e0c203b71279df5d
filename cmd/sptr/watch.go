package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sptr/internal/scenario"
	"sptr/internal/trace"
	"sptr/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [scenario]",
	Short: "Run a workload with a live ownership view",
	Long:  `Run the named scenario while rendering allocations, retains and releases as they happen`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	addRunFlags(watchCmd)
}

type runOutcome struct {
	report *scenario.Report
	err    error
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyColorMode(cfg); err != nil {
		return err
	}
	if err := mergeRunFlags(cmd, cfg, args); err != nil {
		return err
	}

	cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	events := make(chan scenario.Event, 1024)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		report, err := scenario.Run(ctx, scenario.Options{
			Scenario:   cfg.Run.Scenario,
			Iterations: cfg.Run.Iterations,
			Parallel:   cfg.Run.Parallel,
			Aliases:    cfg.Run.Aliases,
			Seed:       cfg.Run.Seed,
			Tracer:     trace.FromContext(ctx),
			Events:     events,
		})
		outcomeCh <- runOutcome{report: report, err: err}
		close(events)
	}()

	model := ui.NewWatchModel(cfg.Run.Scenario, cfg.Run.Iterations*cfg.Run.Parallel, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	final, uiErr := program.Run()
	if ui.Aborted(final) {
		cancel()
		// Drain so the workers can finish sending.
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return uiErr
	}
	if outcome.err != nil {
		if ui.Aborted(final) && errors.Is(outcome.err, context.Canceled) {
			fmt.Fprintln(cmd.OutOrStdout(), "stopped early")
			return nil
		}
		return outcome.err
	}

	printReport(cmd.OutOrStdout(), outcome.report)
	if !outcome.report.Clean() {
		printProblems(cmd.ErrOrStderr(), outcome.report)
		os.Exit(1)
	}
	return nil
}

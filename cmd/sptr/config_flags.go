package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sptr/internal/config"
)

// loadConfig reads the nearest sptr.toml (defaults when absent) and lets
// explicitly set flags override the file values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, _, err := config.Load(".")
	if err != nil {
		return nil, err
	}

	root := cmd.Root().PersistentFlags()
	if root.Changed("color") {
		cfg.Color, _ = root.GetString("color")
	}
	if root.Changed("trace-level") {
		cfg.Trace.Level, _ = root.GetString("trace-level")
	}
	if root.Changed("trace-mode") {
		cfg.Trace.Mode, _ = root.GetString("trace-mode")
	}
	if root.Changed("trace") {
		cfg.Trace.Output, _ = root.GetString("trace")
	}
	if root.Changed("trace-ring-size") {
		cfg.Trace.RingSize, _ = root.GetInt("trace-ring-size")
	}
	if root.Changed("trace-heartbeat") {
		cfg.Trace.Heartbeat, _ = root.GetString("trace-heartbeat")
	}
	return cfg, nil
}

// applyColorMode configures global color output from the merged config.
func applyColorMode(cfg *config.Config) error {
	switch cfg.Color {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on", "always":
		color.NoColor = false
	case "off", "never":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid color mode %q (must be auto, on or off)", cfg.Color)
	}
	return nil
}

// mergeRunFlags applies run command flags over the config file values.
func mergeRunFlags(cmd *cobra.Command, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		cfg.Run.Scenario = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("iterations") {
		cfg.Run.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("parallel") {
		cfg.Run.Parallel, _ = flags.GetInt("parallel")
	}
	if flags.Changed("aliases") {
		cfg.Run.Aliases, _ = flags.GetInt("aliases")
	}
	if flags.Changed("seed") {
		cfg.Run.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("save") {
		cfg.Run.Save, _ = flags.GetBool("save")
	}
	if cfg.Run.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", cfg.Run.Iterations)
	}
	if cfg.Run.Parallel <= 0 {
		return fmt.Errorf("parallel must be positive, got %d", cfg.Run.Parallel)
	}
	if cfg.Run.Aliases <= 0 {
		return fmt.Errorf("aliases must be positive, got %d", cfg.Run.Aliases)
	}
	return nil
}

// addRunFlags registers the workload flags shared by run and watch.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("iterations", "n", 0, "iterations per worker")
	cmd.Flags().Int("parallel", 0, "number of independent workers")
	cmd.Flags().Int("aliases", 0, "alias fan-out / slot pool width")
	cmd.Flags().Int64("seed", 0, "workload rng seed")
}

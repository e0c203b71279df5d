package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sptr/internal/observ"
	"sptr/internal/scenario"
	"sptr/internal/snapshot"
	"sptr/internal/trace"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [scenario]",
	Short: "Run an ownership workload and audit every lifetime",
	Long:  `Run the named scenario against the ownership handles, then report allocation balance, leaks and contract violations`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWorkload,
}

func init() {
	addRunFlags(runCmd)
	runCmd.Flags().Bool("save", false, "save the run report to the snapshot store")
}

func runWorkload(cmd *cobra.Command, args []string) error {
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

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")

	report, err := scenario.Run(cmd.Context(), scenario.Options{
		Scenario:   cfg.Run.Scenario,
		Iterations: cfg.Run.Iterations,
		Parallel:   cfg.Run.Parallel,
		Aliases:    cfg.Run.Aliases,
		Seed:       cfg.Run.Seed,
		Tracer:     trace.FromContext(cmd.Context()),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !quiet {
		printReport(out, report)
	}
	if timings {
		printTimings(out, report.Timing)
	}

	if cfg.Run.Save {
		if err := saveReport(report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		if !quiet {
			fmt.Fprintf(out, "saved snapshot %q\n", report.Scenario)
		}
	}

	if !report.Clean() {
		printProblems(cmd.ErrOrStderr(), report)
		os.Exit(1)
	}
	return nil
}

func printReport(out io.Writer, report *scenario.Report) {
	p := message.NewPrinter(language.English)
	p.Fprintf(out, "%s: %d iterations x %d workers\n",
		report.Scenario, report.Iterations, report.Parallel)
	s := report.Stats
	p.Fprintf(out, "  allocs %d  frees %d  peak live %d\n", s.Allocs, s.Frees, s.MaxLive)
	p.Fprintf(out, "  retains %d  releases %d  moves %d\n", s.Retains, s.Releases, s.Moves)
	if report.Clean() {
		fmt.Fprintf(out, "  %s\n", color.GreenString("all lifetimes balanced"))
	}
}

func printTimings(out io.Writer, timing observ.Report) {
	for _, stage := range timing.Stages {
		fmt.Fprintf(out, "%s %.1f ms\n", stage.Name, stage.DurationMS)
	}
	fmt.Fprintf(out, "total %.1f ms\n", timing.TotalMS)
}

func printProblems(out io.Writer, report *scenario.Report) {
	for _, leak := range report.Leaks {
		fmt.Fprintf(out, "%s %s\n", color.RedString("leak:"), leak)
	}
	for _, v := range report.Violations {
		fmt.Fprintf(out, "%s %s\n", color.RedString("violation:"), v)
	}
}

func saveReport(report *scenario.Report) error {
	store, err := snapshot.Open(appName)
	if err != nil {
		return err
	}
	iterations, err := safecast.Conv[uint32](report.Iterations)
	if err != nil {
		return fmt.Errorf("iteration count out of range: %w", err)
	}
	parallel, err := safecast.Conv[uint32](report.Parallel)
	if err != nil {
		return fmt.Errorf("worker count out of range: %w", err)
	}
	return store.Put(report.Scenario, &snapshot.Payload{
		Scenario:   report.Scenario,
		Iterations: iterations,
		Parallel:   parallel,
		SavedAt:    time.Now(),
		Stats:      report.Stats,
		Timing:     report.Timing,
		Leaks:      report.Leaks,
		Violations: report.Violations,
	})
}
